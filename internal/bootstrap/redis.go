package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/go-authgate/idgate/internal/config"

	"github.com/redis/go-redis/v9"
)

// initializeRateLimitRedisClient returns the go-redis client backing the
// limiter store, or nil when limits are kept in memory. ulule/limiter only
// accepts go-redis clients; the session cache uses rueidis.
func initializeRateLimitRedisClient(
	ctx context.Context,
	cfg *config.Config,
) (*redis.Client, error) {
	if !cfg.EnableRateLimit || cfg.RateLimitStore != config.RateLimitStoreRedis {
		return nil, nil //nolint:nilnil // no client in this configuration
	}
	return dialRedis(ctx, cfg, "rate limiting")
}

// dialRedis connects to the configured Redis and pings it within
// RedisConnTimeout.
func dialRedis(ctx context.Context, cfg *config.Config, purpose string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis for %s at %s: %w", purpose, cfg.RedisAddr, err)
	}

	log.Printf("[Redis] Connected for %s (address: %s, db: %d)", purpose, cfg.RedisAddr, cfg.RedisDB)
	return client, nil
}
