package bootstrap

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/core"
	"github.com/go-authgate/idgate/internal/metrics"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// sessionCleanupInterval is how often expired session rows are deleted.
const sessionCleanupInterval = time.Hour

// createHTTPServer creates the HTTP server instance. Inbound requests are
// traced.
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           otelhttp.NewHandler(handler, cfg.OTELServiceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// shutdownWithTimeout runs fn with a context bounded by timeout.
func shutdownWithTimeout(timeout time.Duration, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx)
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, cfg *config.Config, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		if err := shutdownWithTimeout(cfg.ServerShutdownTimeout, srv.Shutdown); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}
		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addAuditServiceShutdownJob adds audit service shutdown handler
func addAuditServiceShutdownJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down audit service...")
		if err := shutdownWithTimeout(cfg.AuditShutdownTimeout, auditService.Shutdown); err != nil {
			log.Printf("Error shutting down audit service: %v", err)
			return err
		}
		return nil
	})
}

// addEventServiceShutdownJob waits for in-flight kit calls and flushes
// batched events.
func addEventServiceShutdownJob(
	m *graceful.Manager,
	cfg *config.Config,
	eventService *services.EventService,
) {
	m.AddShutdownJob(func() error {
		log.Println("Flushing engagement kits...")
		if err := shutdownWithTimeout(cfg.KitShutdownTimeout, eventService.Shutdown); err != nil {
			log.Printf("Error shutting down engagement kits: %v", err)
			return err
		}
		return nil
	})
}

// addAuditLogCleanupJob adds periodic audit log cleanup job
func addAuditLogCleanupJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	if !cfg.EnableAuditLogging || cfg.AuditLogRetention <= 0 {
		return
	}

	period := cfg.AuditLogCleanupPeriod
	if period <= 0 {
		period = 24 * time.Hour
	}

	cleanup := func() {
		if deleted, err := auditService.CleanupOldLogs(cfg.AuditLogRetention); err != nil {
			log.Printf("Failed to cleanup old audit logs: %v", err)
		} else if deleted > 0 {
			log.Printf("Cleaned up %d old audit logs", deleted)
		}
	}

	m.AddRunningJob(func(ctx context.Context) error {
		runPeriodically(ctx, period, cleanup)
		return nil
	})
}

// sweeper is implemented by caches that hold expired entries until swept.
type sweeper interface {
	Sweep() int
}

// addSessionCleanupJob periodically deletes expired session rows and drops
// expired entries from an in-memory session cache
func addSessionCleanupJob(
	m *graceful.Manager,
	loginService *services.LoginService,
	sessionCache any,
) {
	sw, _ := sessionCache.(sweeper)

	m.AddRunningJob(func(ctx context.Context) error {
		runPeriodically(ctx, sessionCleanupInterval, func() {
			if deleted, err := loginService.CleanupExpiredSessions(); err != nil {
				log.Printf("Failed to cleanup expired sessions: %v", err)
			} else if deleted > 0 {
				log.Printf("Cleaned up %d expired sessions", deleted)
			}
			if sw != nil {
				if swept := sw.Sweep(); swept > 0 {
					log.Printf("Swept %d expired session cache entries", swept)
				}
			}
		})
		return nil
	})
}

// runPeriodically calls fn immediately and then every interval until ctx is
// done.
func runPeriodically(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn()
	for {
		select {
		case <-ticker.C:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	prometheusMetrics metrics.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	cacheWrapper := metrics.NewCacheWrapper(db, metricsCache)
	m.AddRunningJob(func(ctx context.Context) error {
		runPeriodically(ctx, cfg.MetricsGaugeUpdateInterval, func() {
			updateGaugeMetricsWithCache(
				ctx,
				cacheWrapper,
				prometheusMetrics,
				cfg.MetricsGaugeUpdateInterval,
			)
		})
		return nil
	})
}

// addCacheCleanupJob adds cache cleanup on shutdown
func addCacheCleanupJob(m *graceful.Manager, name string, closer func() error) {
	if closer == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := closer(); err != nil {
			log.Printf("Error closing %s cache: %v", name, err)
		} else {
			log.Printf("%s cache closed", name)
		}
		return nil
	})
}

// addTracingShutdownJob flushes pending spans
func addTracingShutdownJob(m *graceful.Manager, shutdown func(context.Context) error) {
	if shutdown == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := shutdownWithTimeout(5*time.Second, shutdown); err != nil {
			log.Printf("Error shutting down tracing: %v", err)
			return err
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows
func (e *errorLogger) logIfNeeded(operation string, err error) {
	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]

	if !exists || now.Sub(lastTime) >= e.rateLimitWindow {
		log.Printf("Database query failed for %s: %v (further errors will be suppressed for %v)",
			operation, err, e.rateLimitWindow)
		e.lastErrorTimes[operation] = now
	}
}

var gaugeErrorLogger = newErrorLogger()

// updateGaugeMetricsWithCache updates gauge metrics using a cache-backed store.
// The cache TTL matches the update interval so replicas sharing a Redis
// cache query the database once per interval.
func updateGaugeMetricsWithCache(
	ctx context.Context,
	cacheWrapper *metrics.CacheWrapper,
	m metrics.Recorder,
	cacheTTL time.Duration,
) {
	activeSessions, err := cacheWrapper.GetActiveSessionsCount(ctx, cacheTTL)
	if err != nil {
		m.RecordDatabaseQueryError("count_active_sessions")
		gaugeErrorLogger.logIfNeeded("count_active_sessions", err)
	} else {
		m.SetActiveSessionsCount(int(activeSessions))
	}

	registeredUsers, err := cacheWrapper.GetRegisteredUsersCount(ctx, cacheTTL)
	if err != nil {
		m.RecordDatabaseQueryError("count_registered_users")
		gaugeErrorLogger.logIfNeeded("count_registered_users", err)
	} else {
		m.SetRegisteredUsersCount(int(registeredUsers))
	}
}
