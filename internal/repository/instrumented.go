package repository

import (
	"context"
	"time"

	"github.com/deppfellow/bank-service/internal/metrics"
	"github.com/deppfellow/bank-service/internal/model"
)

var _ BankDataSource = (*InstrumentedBankDataSource)(nil)

// InstrumentedBankDataSource records the latency and outcome of every call
// to the wrapped source, labelled with the source kind.
type InstrumentedBankDataSource struct {
	inner   BankDataSource
	kind    string
	metrics *metrics.Metrics
}

func NewInstrumentedBankDataSource(inner BankDataSource, kind string, m *metrics.Metrics) *InstrumentedBankDataSource {
	return &InstrumentedBankDataSource{
		inner:   inner,
		kind:    kind,
		metrics: m,
	}
}

func (i *InstrumentedBankDataSource) RetrieveBanks(ctx context.Context) ([]model.Bank, error) {
	start := time.Now()
	banks, err := i.inner.RetrieveBanks(ctx)
	i.metrics.ObserveDataSourceCall(i.kind, "retrieve_banks", time.Since(start), err)
	return banks, err
}

func (i *InstrumentedBankDataSource) RetrieveBank(ctx context.Context, accountNumber string) (*model.Bank, error) {
	start := time.Now()
	bank, err := i.inner.RetrieveBank(ctx, accountNumber)
	i.metrics.ObserveDataSourceCall(i.kind, "retrieve_bank", time.Since(start), err)
	return bank, err
}

func (i *InstrumentedBankDataSource) CreateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	start := time.Now()
	created, err := i.inner.CreateBank(ctx, bank)
	i.metrics.ObserveDataSourceCall(i.kind, "create_bank", time.Since(start), err)
	return created, err
}

func (i *InstrumentedBankDataSource) UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	start := time.Now()
	updated, err := i.inner.UpdateBank(ctx, bank)
	i.metrics.ObserveDataSourceCall(i.kind, "update_bank", time.Since(start), err)
	return updated, err
}

func (i *InstrumentedBankDataSource) DeleteBank(ctx context.Context, accountNumber string) error {
	start := time.Now()
	err := i.inner.DeleteBank(ctx, accountNumber)
	i.metrics.ObserveDataSourceCall(i.kind, "delete_bank", time.Since(start), err)
	return err
}
