package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/bank-service/internal/errs"
)

func TestHandleError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name: "unique violation on account number",
			err: fmt.Errorf("insert bank: %w", &pgconn.PgError{
				Code:           "23505",
				Severity:       "ERROR",
				TableName:      "banks",
				ConstraintName: "banks_pkey",
			}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BANK_ALREADY_EXISTS",
			wantMsg:    "A Bank with this identifier already exists",
		},
		{
			name: "check violation without column",
			err: &pgconn.PgError{
				Code:           "23514",
				TableName:      "banks",
				ConstraintName: "banks_account_number_check",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BANK_INVALID",
			wantMsg:    "One or more values do not meet required conditions",
		},
		{
			name: "check violation",
			err: &pgconn.PgError{
				Code:       "23514",
				TableName:  "banks",
				ColumnName: "account_number",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BANK_INVALID",
			wantMsg:    "The Account Number value does not meet required conditions",
		},
		{
			name:       "unknown postgres error",
			err:        &pgconn.PgError{Code: "XX000"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
		{
			name:       "other constraint violation",
			err:        &pgconn.PgError{Code: "23502", TableName: "banks", ColumnName: "trust"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
		{
			name:       "bare no rows",
			err:        pgx.ErrNoRows,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Resource not found",
		},
		{
			name:       "arbitrary error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var httpErr *errs.HTTPError
			require.True(t, errors.As(HandleError(tc.err), &httpErr))

			assert.Equal(t, tc.wantStatus, httpErr.Status)
			assert.Equal(t, tc.wantCode, httpErr.Code)
			assert.Equal(t, tc.wantMsg, httpErr.Message)
		})
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewNotFoundError("Could not find a bank with account number 9999", true, nil)
	assert.Same(t, original, HandleError(original))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestEntityName(t *testing.T) {
	assert.Equal(t, "Bank", entityName("banks"))
	assert.Equal(t, "Record", entityName(""))
	assert.Equal(t, "BANK_INVALID", errorCode("banks", "INVALID"))
}

func TestConvertPgError(t *testing.T) {
	src := &pgconn.PgError{Code: "23505", Severity: "ERROR", Message: "duplicate key"}
	converted := ConvertPgError(src)

	assert.Equal(t, UniqueViolation, converted.Code)
	assert.Equal(t, SeverityError, converted.Severity)
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("wrap: %w", converted)))
	assert.ErrorIs(t, converted, src)
}
