package service

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/bank-service/internal/model"
	"github.com/deppfellow/bank-service/internal/repository"
)

// BankService forwards bank operations to the configured data source.
// Results and errors come back unchanged; each call is recorded as a
// New Relic segment when the context carries a transaction.
type BankService struct {
	dataSource repository.BankDataSource
}

func NewBankService(dataSource repository.BankDataSource) *BankService {
	return &BankService{dataSource: dataSource}
}

func (s *BankService) GetBanks(ctx context.Context) ([]model.Bank, error) {
	defer newrelic.FromContext(ctx).StartSegment("BankService/GetBanks").End()
	return s.dataSource.RetrieveBanks(ctx)
}

func (s *BankService) GetBank(ctx context.Context, accountNumber string) (*model.Bank, error) {
	defer newrelic.FromContext(ctx).StartSegment("BankService/GetBank").End()
	return s.dataSource.RetrieveBank(ctx, accountNumber)
}

func (s *BankService) AddBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	defer newrelic.FromContext(ctx).StartSegment("BankService/AddBank").End()
	return s.dataSource.CreateBank(ctx, bank)
}

func (s *BankService) UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	defer newrelic.FromContext(ctx).StartSegment("BankService/UpdateBank").End()
	return s.dataSource.UpdateBank(ctx, bank)
}

func (s *BankService) DeleteBank(ctx context.Context, accountNumber string) error {
	defer newrelic.FromContext(ctx).StartSegment("BankService/DeleteBank").End()
	return s.dataSource.DeleteBank(ctx, accountNumber)
}
