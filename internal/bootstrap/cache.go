package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/go-authgate/idgate/internal/cache"
	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/core"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/metrics"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// newCache builds a cache of the configured type. Redis-backed caches share
// the REDIS_* settings and are namespaced by prefix.
func newCache[T any](
	ctx context.Context,
	cfg *config.Config,
	name, prefix string,
) (core.Cache[T], error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cfg.SessionCacheType {
	case config.SessionCacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[T](
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			prefix,
			cfg.SessionCacheTTL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis-aside %s cache: %w", name, err)
		}
		if err := c.Health(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize redis-aside %s cache: %w", name, err)
		}
		log.Printf(
			"%s cache: redis-aside (addr=%s, db=%d, client_ttl=%s)",
			name,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.SessionCacheTTL,
		)
		return c, nil

	case config.SessionCacheTypeRedis:
		c, err := cache.NewRueidisCache[T](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			prefix,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis %s cache: %w", name, err)
		}
		log.Printf("%s cache: redis (addr=%s, db=%d)", name, cfg.RedisAddr, cfg.RedisDB)
		return c, nil

	default: // memory
		log.Printf("%s cache: memory (single instance only)", name)
		return cache.NewMemoryCache[T](), nil
	}
}

// initializeMetricsCache initializes the gauge count cache. It returns nil
// when gauge updates are disabled.
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}

	c, err := newCache[int64](ctx, cfg, "Metrics", "idgate:metrics:")
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// initializeSessionCache initializes the session lookup cache (always
// enabled, defaults to memory)
func initializeSessionCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[identity.Session], func() error, error) {
	c, err := newCache[identity.Session](ctx, cfg, "Session", "idgate:sessions:")
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}
