package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"trustledger/internal/trust/metrics"
	"trustledger/internal/trust/models"
	id "trustledger/pkg/domain"
)

// Redis key prefix for trust flags.
const trustKeyPrefix = "trust:bank:"

// Inner is the backing store the cache delegates to on miss and for all
// non-lookup operations.
type Inner interface {
	Owner(ctx context.Context) (id.Address, error)
	SetOwner(ctx context.Context, owner id.Address) error
	EnsureOwner(ctx context.Context, owner id.Address) error
	IsTrusted(ctx context.Context, bank id.Address) (bool, error)
	SetTrust(ctx context.Context, entry models.Entry) error
}

// CachedStore layers a Redis read-through cache over a backing store. The hot
// path is the attestation ledger's trust check on every submit; owner lookups
// stay uncached because they gate rare administrative writes.
//
// Cache errors degrade to the backing store rather than failing the lookup.
type CachedStore struct {
	inner   Inner
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCached(inner Inner, client *redis.Client, ttl time.Duration, m *metrics.Metrics) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl, metrics: m}
}

func (s *CachedStore) Owner(ctx context.Context) (id.Address, error) {
	return s.inner.Owner(ctx)
}

func (s *CachedStore) SetOwner(ctx context.Context, owner id.Address) error {
	return s.inner.SetOwner(ctx, owner)
}

func (s *CachedStore) EnsureOwner(ctx context.Context, owner id.Address) error {
	return s.inner.EnsureOwner(ctx, owner)
}

func (s *CachedStore) IsTrusted(ctx context.Context, bank id.Address) (bool, error) {
	key := trustKeyPrefix + bank.String()
	val, err := s.client.Get(ctx, key).Result()
	if err == nil {
		s.metrics.ObserveCacheHit()
		return val == "1", nil
	}
	if !errors.Is(err, redis.Nil) {
		// Degrade to the backing store on cache trouble.
		return s.inner.IsTrusted(ctx, bank)
	}

	s.metrics.ObserveCacheMiss()
	trusted, err := s.inner.IsTrusted(ctx, bank)
	if err != nil {
		return false, err
	}
	cached := "0"
	if trusted {
		cached = "1"
	}
	_ = s.client.Set(ctx, key, cached, s.ttl).Err()
	return trusted, nil
}

// SetTrust writes through to the backing store and invalidates the cached
// flag, so a revocation is visible on the next lookup rather than after TTL.
func (s *CachedStore) SetTrust(ctx context.Context, entry models.Entry) error {
	if err := s.inner.SetTrust(ctx, entry); err != nil {
		return err
	}
	_ = s.client.Del(ctx, trustKeyPrefix+entry.Bank.String()).Err()
	return nil
}
