package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bank-service/internal/model"
)

var _ BankDataSource = (*NetworkBankDataSource)(nil)

// bankList is the envelope returned by the remote bank API.
type bankList struct {
	Results []model.Bank `json:"results"`
}

// NetworkBankDataSource reads banks from a remote HTTP API.
//
// Only RetrieveBanks is backed by the remote API; every other operation
// returns ErrNotImplemented.
type NetworkBankDataSource struct {
	banksURL string
	client   *http.Client
	log      zerolog.Logger
}

// NewNetworkBankDataSource builds a data source for baseURL. The client's
// transport is wrapped with the New Relic round tripper, which records an
// external segment whenever the request context carries a transaction.
func NewNetworkBankDataSource(baseURL string, timeout time.Duration, baseLogger *zerolog.Logger) (*NetworkBankDataSource, error) {
	banksURL, err := url.JoinPath(baseURL, "banks")
	if err != nil {
		return nil, fmt.Errorf("invalid network data source url %q: %w", baseURL, err)
	}

	return &NetworkBankDataSource{
		banksURL: banksURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		log: baseLogger.With().Str("component", "network_bank_source").Logger(),
	}, nil
}

func (n *NetworkBankDataSource) RetrieveBanks(ctx context.Context) ([]model.Bank, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.banksURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build banks request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Error().Err(err).Str("url", n.banksURL).Msg("Failed to reach remote bank API")
		return nil, errors.Wrap(err, "failed to fetch banks from the network")
	}
	defer resp.Body.Close()

	n.log.Debug().
		Str("url", n.banksURL).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Remote bank API responded")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("remote bank API returned status %d", resp.StatusCode)
	}

	var body bankList
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode banks from the network")
	}

	if body.Results == nil {
		return nil, errors.New("could not find any banks from the network")
	}

	return body.Results, nil
}

func (n *NetworkBankDataSource) RetrieveBank(ctx context.Context, accountNumber string) (*model.Bank, error) {
	return nil, ErrNotImplemented
}

func (n *NetworkBankDataSource) CreateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	return nil, ErrNotImplemented
}

func (n *NetworkBankDataSource) UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	return nil, ErrNotImplemented
}

func (n *NetworkBankDataSource) DeleteBank(ctx context.Context, accountNumber string) error {
	return ErrNotImplemented
}
