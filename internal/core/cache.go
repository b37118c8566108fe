package core

import (
	"context"
	"time"
)

// FetchFunc loads the value for key from the source of truth on a miss.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Cache[T] stores JSON-encodable values of type T under string keys. The
// session cache holds identity.Session values and the metrics cache holds
// int64 gauges.
type Cache[T any] interface {
	// Get returns cache.ErrCacheMiss for absent or expired keys.
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// GetWithFetch returns the cached value, or calls fetch once per key
	// across concurrent callers and caches its result for ttl.
	GetWithFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc[T]) (T, error)

	Health(ctx context.Context) error
	Close() error
}
