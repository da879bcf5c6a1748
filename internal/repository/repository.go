// Package repository holds the bank data sources.
//
// BankDataSource abstracts where bank records live. The service layer only
// sees the interface; which variant backs it (in-memory mock, remote
// network API, PostgreSQL, optionally behind the Redis cache) is decided
// once at startup by NewRepositories.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/bank-service/internal/errs"
	"github.com/deppfellow/bank-service/internal/model"
)

// ErrNotImplemented is returned by data source operations a variant does
// not support. It surfaces to clients as a generic 500.
var ErrNotImplemented = errors.New("not implemented")

const (
	codeBankNotFound      = "BANK_NOT_FOUND"
	codeBankAlreadyExists = "BANK_ALREADY_EXISTS"
)

// BankDataSource is the storage contract for bank records.
//
//   - RetrieveBank, UpdateBank and DeleteBank fail with a 404 *errs.HTTPError
//     when no record has the account number.
//   - CreateBank fails with a 400 *errs.HTTPError when the account number
//     already exists.
type BankDataSource interface {
	RetrieveBanks(ctx context.Context) ([]model.Bank, error)
	RetrieveBank(ctx context.Context, accountNumber string) (*model.Bank, error)
	CreateBank(ctx context.Context, bank model.Bank) (*model.Bank, error)
	UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error)
	DeleteBank(ctx context.Context, accountNumber string) error
}

// ErrBankNotFound builds the NotFound error for an account number.
func ErrBankNotFound(accountNumber string) *errs.HTTPError {
	code := codeBankNotFound
	return errs.NewNotFoundError(
		fmt.Sprintf("Could not find a bank with account number %s", accountNumber),
		true,
		&code,
	)
}

// ErrBankAlreadyExists builds the InvalidArgument error for a duplicate
// account number.
func ErrBankAlreadyExists(accountNumber string) *errs.HTTPError {
	code := codeBankAlreadyExists
	return errs.NewBadRequestError(
		fmt.Sprintf("Bank with account number %s already exists", accountNumber),
		true,
		&code,
		nil,
		nil,
	)
}
