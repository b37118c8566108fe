package bootstrap

import (
	"context"
	"log"
	"net/http"

	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/core"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/metrics"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/store"
	"github.com/go-authgate/idgate/internal/telemetry"
	"github.com/go-authgate/idgate/internal/tui"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      metrics.Recorder
	MetricsCache         core.Cache[int64]
	MetricsCacheCloser   func() error
	SessionCache         core.Cache[identity.Session]
	SessionCacheCloser   func() error
	RateLimitRedisClient *redis.Client
	TracingShutdown      func(context.Context) error

	// Services
	AuditService *services.AuditService
	LoginService *services.LoginService
	EventService *services.EventService
	Kit          *kit.Kit

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the HTTP server, blocking until shutdown.
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	validateAllConfiguration(cfg)

	// Phase 2-3: Initialize infrastructure and business layer
	if err := app.initialize(ctx); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// RunTerminal runs the login and dashboard screens in the terminal against
// the same services the server uses.
func RunTerminal(ctx context.Context, cfg *config.Config, deviceID, token string) error {
	app := &Application{Config: cfg}

	validateAllConfiguration(cfg)

	if err := app.initialize(ctx); err != nil {
		return err
	}
	defer app.release()

	return tui.Run(ctx, tui.Options{
		Login:    app.LoginService,
		Events:   app.EventService,
		DeviceID: deviceID,
		Token:    token,
	})
}

// initialize builds infrastructure and services. On failure everything
// opened so far is released before the error is returned.
func (app *Application) initialize(ctx context.Context) error {
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.release()
		return err
	}
	if err := app.initializeBusinessLayer(ctx); err != nil {
		app.release()
		return err
	}
	return nil
}

// initializeInfrastructure sets up database, metrics, caches, and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Tracing
	app.TracingShutdown = telemetry.Setup(ctx, app.Config.OTELServiceName)

	// Database
	app.DB, err = initializeDatabase(app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Session cache
	app.SessionCache, app.SessionCacheCloser, err = initializeSessionCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer(ctx context.Context) error {
	// Audit service (required by other services)
	app.AuditService = services.NewAuditService(
		app.DB,
		app.Config.EnableAuditLogging,
		app.Config.AuditLogBufferSize,
	)

	var err error
	app.LoginService, app.EventService, app.Kit, err = initializeServices(
		ctx,
		app.Config,
		app.DB,
		app.SessionCache,
		app.AuditService,
		app.MetricsRecorder,
	)
	return err
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.LoginService,
		app.EventService,
		app.AuditService,
	)

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.AuditService,
		app.RateLimitRedisClient,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addEventServiceShutdownJob(m, app.Config, app.EventService)
	addAuditServiceShutdownJob(m, app.Config, app.AuditService)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addAuditLogCleanupJob(m, app.Config, app.AuditService)
	addSessionCleanupJob(m, app.LoginService, app.SessionCache)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, "metrics", app.MetricsCacheCloser)
	addCacheCleanupJob(m, "session", app.SessionCacheCloser)
	addTracingShutdownJob(m, app.TracingShutdown)

	<-m.Done()

	// Shutdown jobs run concurrently; the audit flush needs the database
	if err := app.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// release flushes services and closes whatever was opened, in the order the
// graceful manager would. Components that were never initialized are skipped.
func (app *Application) release() {
	var steps []func() error
	if app.EventService != nil {
		steps = append(steps, func() error {
			return shutdownWithTimeout(app.Config.KitShutdownTimeout, app.EventService.Shutdown)
		})
	}
	if app.AuditService != nil {
		steps = append(steps, func() error {
			return shutdownWithTimeout(app.Config.AuditShutdownTimeout, app.AuditService.Shutdown)
		})
	}
	steps = append(steps,
		closerOrNil(app.RateLimitRedisClient),
		app.MetricsCacheCloser,
		app.SessionCacheCloser,
		func() error { return shutdownWithTimeout(app.Config.ServerShutdownTimeout, app.TracingShutdown) },
	)
	if app.DB != nil {
		steps = append(steps, app.DB.Close)
	}

	for _, fn := range steps {
		if fn == nil {
			continue
		}
		if err := fn(); err != nil {
			log.Printf("Error releasing resources: %v", err)
		}
	}
}

func closerOrNil(c *redis.Client) func() error {
	if c == nil {
		return nil
	}
	return c.Close
}
