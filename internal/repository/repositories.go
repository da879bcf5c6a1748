package repository

import (
	"fmt"
	"time"

	"github.com/deppfellow/bank-service/internal/config"
	"github.com/deppfellow/bank-service/internal/server"
)

// Repositories is the container for every data source the services use.
type Repositories struct {
	Bank BankDataSource
}

// NewRepositories picks the bank data source named by datasource.kind,
// instruments it when metrics are available and, when the cache is enabled,
// wraps it with the Redis cache.
func NewRepositories(s *server.Server) (*Repositories, error) {
	cfg := s.Config.DataSource

	var bank BankDataSource
	switch cfg.Kind {
	case config.DataSourceMock:
		bank = NewMockBankDataSource()
	case config.DataSourceNetwork:
		network, err := NewNetworkBankDataSource(cfg.NetworkURL, time.Duration(cfg.NetworkTimeout)*time.Second, s.Logger)
		if err != nil {
			return nil, err
		}
		bank = network
	case config.DataSourcePostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("datasource %q selected but no database is connected", cfg.Kind)
		}
		bank = NewPostgresBankDataSource(s.DB.Pool, s.Logger)
	default:
		return nil, fmt.Errorf("unknown datasource kind %q", cfg.Kind)
	}

	if s.Metrics != nil {
		bank = NewInstrumentedBankDataSource(bank, cfg.Kind, s.Metrics)
	}

	if cfg.CacheEnabled && s.Redis != nil {
		bank = NewCachedBankDataSource(bank, s.Redis, cfg.CacheTTL, s.Metrics, s.Logger)
	}

	s.Logger.Info().
		Str("datasource", cfg.Kind).
		Bool("cache", cfg.CacheEnabled).
		Msg("bank data source ready")

	return &Repositories{Bank: bank}, nil
}
