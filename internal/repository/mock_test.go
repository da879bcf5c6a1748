package repository

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/bank-service/internal/errs"
	"github.com/deppfellow/bank-service/internal/model"
)

func TestMockBankDataSource_RetrieveBanks(t *testing.T) {
	ds := NewMockBankDataSource()

	banks, err := ds.RetrieveBanks(context.Background())
	require.NoError(t, err)
	require.Len(t, banks, 3)

	assert.Equal(t, []string{"1234", "1010", "5678"}, accountNumbers(banks))

	t.Run("provides at least one bank", func(t *testing.T) {
		assert.NotEmpty(t, banks)
	})

	t.Run("every account number is non blank", func(t *testing.T) {
		for _, b := range banks {
			assert.NotEmpty(t, strings.TrimSpace(b.AccountNumber))
		}
	})

	t.Run("some trust and fee are non zero", func(t *testing.T) {
		var trust, fee bool
		for _, b := range banks {
			trust = trust || b.Trust != 0
			fee = fee || b.TransactionFee != 0
		}
		assert.True(t, trust)
		assert.True(t, fee)
	})
}

func TestMockBankDataSource_RetrieveBanksReturnsCopy(t *testing.T) {
	ds := NewMockBankDataSource()

	first, err := ds.RetrieveBanks(context.Background())
	require.NoError(t, err)
	first[0].AccountNumber = "changed"

	second, err := ds.RetrieveBanks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1234", second[0].AccountNumber)
}

func TestMockBankDataSource_RetrieveBank(t *testing.T) {
	ds := NewMockBankDataSource()

	bank, err := ds.RetrieveBank(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, model.Bank{AccountNumber: "1234", Trust: 3.14, TransactionFee: 17}, *bank)

	_, err = ds.RetrieveBank(context.Background(), "9999")
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "BANK_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "Could not find a bank with account number 9999", httpErr.Message)
}

func TestMockBankDataSource_WritesNotImplemented(t *testing.T) {
	ds := NewMockBankDataSource()
	ctx := context.Background()
	bank := model.Bank{AccountNumber: "4321", Trust: 1, TransactionFee: 1}

	_, err := ds.CreateBank(ctx, bank)
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = ds.UpdateBank(ctx, bank)
	assert.ErrorIs(t, err, ErrNotImplemented)

	assert.ErrorIs(t, ds.DeleteBank(ctx, "1234"), ErrNotImplemented)

	banks, err := ds.RetrieveBanks(ctx)
	require.NoError(t, err)
	assert.Len(t, banks, 3)
}

func accountNumbers(banks []model.Bank) []string {
	out := make([]string, 0, len(banks))
	for _, b := range banks {
		out = append(out, b.AccountNumber)
	}
	return out
}
