package repository

import (
	"context"

	"github.com/deppfellow/bank-service/internal/model"
)

var _ BankDataSource = (*MockBankDataSource)(nil)

// MockBankDataSource serves a fixed, read-only collection of banks.
// Only the two read operations are supported.
type MockBankDataSource struct {
	banks []model.Bank
}

// SeedBanks returns the records every fresh data source starts with.
func SeedBanks() []model.Bank {
	return []model.Bank{
		{AccountNumber: "1234", Trust: 3.14, TransactionFee: 17},
		{AccountNumber: "1010", Trust: 17.0, TransactionFee: 0},
		{AccountNumber: "5678", Trust: 0.0, TransactionFee: 100},
	}
}

func NewMockBankDataSource() *MockBankDataSource {
	return &MockBankDataSource{banks: SeedBanks()}
}

// RetrieveBanks returns a copy so callers cannot change the seed.
func (m *MockBankDataSource) RetrieveBanks(ctx context.Context) ([]model.Bank, error) {
	banks := make([]model.Bank, len(m.banks))
	copy(banks, m.banks)
	return banks, nil
}

func (m *MockBankDataSource) RetrieveBank(ctx context.Context, accountNumber string) (*model.Bank, error) {
	for _, bank := range m.banks {
		if bank.AccountNumber == accountNumber {
			found := bank
			return &found, nil
		}
	}
	return nil, ErrBankNotFound(accountNumber)
}

func (m *MockBankDataSource) CreateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	return nil, ErrNotImplemented
}

func (m *MockBankDataSource) UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	return nil, ErrNotImplemented
}

func (m *MockBankDataSource) DeleteBank(ctx context.Context, accountNumber string) error {
	return ErrNotImplemented
}
