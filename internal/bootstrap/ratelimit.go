package bootstrap

import (
	"log"
	"time"

	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/middleware"
	"github.com/go-authgate/idgate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitCleanupInterval is how often the memory store drops expired keys.
const rateLimitCleanupInterval = 5 * time.Minute

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	login    gin.HandlerFunc
	identity gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration
func setupRateLimiting(
	cfg *config.Config,
	auditService *services.AuditService,
	redisClient *redis.Client,
) rateLimitMiddlewares {
	if !cfg.EnableRateLimit {
		noOpMiddleware := func(c *gin.Context) { c.Next() }
		return rateLimitMiddlewares{
			login:    noOpMiddleware,
			identity: noOpMiddleware,
		}
	}
	return createRateLimiters(cfg, auditService, redisClient)
}

// createRateLimiters creates rate limiting middlewares for all endpoints
func createRateLimiters(
	cfg *config.Config,
	auditService *services.AuditService,
	redisClient *redis.Client,
) rateLimitMiddlewares {
	log.Printf("Rate limiting enabled (store: %s)", cfg.RateLimitStore)

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	if storeType == middleware.RateLimitStoreRedis {
		log.Printf("Using shared Redis client for rate limiting")
	} else {
		log.Printf("In-memory rate limiting configured (single instance only)")
	}

	createLimiter := func(requestsPerMinute int, endpoint string) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         storeType,
			RedisClient:       redisClient,
			CleanupInterval:   rateLimitCleanupInterval,
			AuditService:      auditService,
		})
		if err != nil {
			log.Fatalf("Failed to create rate limiter for %s: %v", endpoint, err)
		}
		return limiter
	}

	// Web and API logins are held to the same rate
	return rateLimitMiddlewares{
		login:    createLimiter(cfg.LoginRateLimit, "/login"),
		identity: createLimiter(cfg.LoginRateLimit, "/api/v1/identity"),
	}
}
