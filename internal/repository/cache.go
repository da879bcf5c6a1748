package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bank-service/internal/metrics"
	"github.com/deppfellow/bank-service/internal/model"
)

var _ BankDataSource = (*CachedBankDataSource)(nil)

const (
	cacheKeyAllBanks   = "banks:list"
	cacheKeyBankPrefix = "bank:"

	// key kinds reported to metrics; per-bank keys would explode cardinality
	lookupAll  = "all"
	lookupBank = "bank"
)

// CachedBankDataSource puts a Redis read-through cache in front of another
// data source. Redis failures are logged and the call falls through to the
// inner source, so a cache outage never fails a request. Errors from the
// inner source are never cached.
type CachedBankDataSource struct {
	inner   BankDataSource
	redis   *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewCachedBankDataSource wraps inner. m may be nil.
func NewCachedBankDataSource(inner BankDataSource, client *redis.Client, ttl time.Duration, m *metrics.Metrics, baseLogger *zerolog.Logger) *CachedBankDataSource {
	return &CachedBankDataSource{
		inner:   inner,
		redis:   client,
		ttl:     ttl,
		metrics: m,
		log:     baseLogger.With().Str("component", "bank_cache").Logger(),
	}
}

func bankCacheKey(accountNumber string) string {
	return cacheKeyBankPrefix + accountNumber
}

func (c *CachedBankDataSource) RetrieveBanks(ctx context.Context) ([]model.Bank, error) {
	var banks []model.Bank
	if c.get(ctx, lookupAll, cacheKeyAllBanks, &banks) {
		return banks, nil
	}

	banks, err := c.inner.RetrieveBanks(ctx)
	if err != nil {
		return nil, err
	}

	c.set(ctx, cacheKeyAllBanks, banks)
	return banks, nil
}

func (c *CachedBankDataSource) RetrieveBank(ctx context.Context, accountNumber string) (*model.Bank, error) {
	key := bankCacheKey(accountNumber)

	var cached model.Bank
	if c.get(ctx, lookupBank, key, &cached) {
		return &cached, nil
	}

	bank, err := c.inner.RetrieveBank(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, bank)
	return bank, nil
}

func (c *CachedBankDataSource) CreateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	created, err := c.inner.CreateBank(ctx, bank)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, cacheKeyAllBanks)
	return created, nil
}

func (c *CachedBankDataSource) UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	updated, err := c.inner.UpdateBank(ctx, bank)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, cacheKeyAllBanks, bankCacheKey(bank.AccountNumber))
	return updated, nil
}

func (c *CachedBankDataSource) DeleteBank(ctx context.Context, accountNumber string) error {
	if err := c.inner.DeleteBank(ctx, accountNumber); err != nil {
		return err
	}

	c.invalidate(ctx, cacheKeyAllBanks, bankCacheKey(accountNumber))
	return nil
}

// get reports whether key was found and decoded into dst. kind labels the
// lookup in metrics.
func (c *CachedBankDataSource) get(ctx context.Context, kind, key string, dst any) bool {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.metrics.ObserveCacheLookup(kind, metrics.CacheMiss)
		} else {
			c.metrics.ObserveCacheLookup(kind, metrics.CacheError)
			c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to data source")
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.metrics.ObserveCacheLookup(kind, metrics.CacheError)
		c.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return false
	}

	c.metrics.ObserveCacheLookup(kind, metrics.CacheHit)
	c.log.Debug().Str("key", key).Msg("Cache hit")
	return true
}

func (c *CachedBankDataSource) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}

	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func (c *CachedBankDataSource) invalidate(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("Cache invalidation failed")
	}
}
