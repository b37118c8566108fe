package cache

import (
	"context"
	"time"

	"github.com/go-authgate/idgate/internal/core"

	"golang.org/x/sync/singleflight"
)

type getSetter[T any] interface {
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
}

// getWithFetch is the cache-aside read shared by the memory and plain Redis
// caches. Concurrent misses on one key run fetchFunc once; the rest wait for
// its result.
func getWithFetch[T any](
	ctx context.Context,
	c getSetter[T],
	group *singleflight.Group,
	key string,
	ttl time.Duration,
	fetchFunc core.FetchFunc[T],
) (T, error) {
	if value, err := c.Get(ctx, key); err == nil {
		return value, nil
	}

	v, err, _ := group.Do(key, func() (any, error) {
		// An earlier flight may have filled the key since our miss
		if value, err := c.Get(ctx, key); err == nil {
			return value, nil
		}
		value, err := fetchFunc(ctx, key)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	value, _ := v.(T)
	return value, nil
}
