package metrics

import (
	"context"
	"time"

	"github.com/go-authgate/idgate/internal/core"
)

const (
	keyActiveSessions  = "sessions:active"
	keyRegisteredUsers = "users:registered"
)

// CacheWrapper provides a read-through cache for gauge counts.
// Multiple replicas sharing a Redis cache only hit the database once per TTL.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetActiveSessionsCount retrieves the number of authenticated, unexpired sessions.
func (m *CacheWrapper) GetActiveSessionsCount(
	ctx context.Context,
	ttl time.Duration,
) (int64, error) {
	return m.getCountWithCache(ctx, keyActiveSessions, ttl, m.store.CountActiveSessions)
}

// GetRegisteredUsersCount retrieves the number of user accounts.
func (m *CacheWrapper) GetRegisteredUsersCount(
	ctx context.Context,
	ttl time.Duration,
) (int64, error) {
	return m.getCountWithCache(ctx, keyRegisteredUsers, ttl, m.store.CountUsers)
}

func (m *CacheWrapper) getCountWithCache(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func() (int64, error),
) (int64, error) {
	return m.cache.GetWithFetch(
		ctx,
		key,
		ttl,
		func(ctx context.Context, key string) (int64, error) {
			return fetchFunc()
		},
	)
}
