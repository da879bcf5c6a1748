package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/bank-service/internal/errs"
)

// ErrCode reports the Code of err if it is (or wraps) a *Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// IsUniqueViolation reports whether err wraps a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && MapCode(pgerr.Code) == UniqueViolation
}

// entityName singularizes a table name: "banks" gives "Bank".
func entityName(tableName string) string {
	if tableName == "" {
		return "Record"
	}
	return humanizeText(strings.TrimSuffix(tableName, "s"))
}

// errorCode builds <ENTITY>_<ACTION>, e.g. banks + UniqueViolation gives
// BANK_ALREADY_EXISTS.
func errorCode(tableName, action string) string {
	return errs.MakeUpperCaseWithUnderscores(entityName(tableName)) + "_" + action
}

// humanizeText turns "account_number" into "Account Number".
func humanizeText(text string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a low-level database error into an application error.
//
//   - *errs.HTTPError: returned unchanged
//   - unique and check violations: 400
//   - any other *pgconn.PgError: 500
//   - ErrNoRows: 404
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		entity := entityName(sqlErr.TableName)

		switch sqlErr.Code {
		case UniqueViolation:
			code := errorCode(sqlErr.TableName, "ALREADY_EXISTS")
			return errs.NewBadRequestError(
				fmt.Sprintf("A %s with this identifier already exists", entity),
				true, &code, nil, nil,
			)

		case CheckViolation:
			code := errorCode(sqlErr.TableName, "INVALID")
			message := "One or more values do not meet required conditions"
			if sqlErr.ColumnName != "" {
				message = fmt.Sprintf("The %s value does not meet required conditions", humanizeText(sqlErr.ColumnName))
			}
			return errs.NewBadRequestError(message, true, &code, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
