package bootstrap

import (
	"log"
	"net/http"

	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/metrics"
	"github.com/go-authgate/idgate/internal/middleware"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/store"
	"github.com/go-authgate/idgate/internal/util"
	"github.com/go-authgate/idgate/internal/version"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	prometheusMetrics metrics.Recorder,
	auditService *services.AuditService,
	rateLimitRedisClient *redis.Client,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(util.IPMiddleware())

	setupSessionMiddleware(r, cfg)
	r.Use(middleware.DeviceMiddleware(), middleware.LoadSession(h.loginService))

	r.GET("/health", createHealthCheckHandler(db))

	setupMetricsEndpoint(r, cfg)

	rateLimiters := setupRateLimiting(cfg, auditService, rateLimitRedisClient)

	setupAllRoutes(r, cfg, h, rateLimiters)

	logServerStartup(cfg, h)

	return r
}

// setupSessionMiddleware configures the cookie session holding the session
// token, the device id and flashes
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionCookieName, sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// auditAccess protects the audit API with the metrics token when one is
// configured; without it the audit API is not exposed.
func auditAccess(cfg *config.Config) (gin.HandlerFunc, bool) {
	if cfg.MetricsToken == "" {
		return nil, false
	}
	return middleware.MetricsAuthMiddleware(cfg.MetricsToken), true
}

// setupAllRoutes configures all application routes
func setupAllRoutes(
	r *gin.Engine,
	cfg *config.Config,
	h handlerSet,
	rateLimiters rateLimitMiddlewares,
) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})

	// Swagger documentation (development only)
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Printf("Swagger UI enabled at: %s/swagger/index.html", cfg.BaseURL)
	}

	// Login screen
	web := r.Group("")
	web.Use(middleware.CSRFMiddleware())
	{
		web.GET("/login", h.login.ShowLogin)
		web.POST("/login", rateLimiters.login, h.login.Login)
	}

	// Main screen (requires an authenticated session)
	protected := r.Group("")
	protected.Use(middleware.RequireSession(), middleware.CSRFMiddleware())
	{
		protected.GET("/dashboard", h.dashboard.Show)
		protected.POST("/dashboard/events", h.dashboard.LogEvent)
		protected.POST("/dashboard/purchase", h.dashboard.LogPurchase)
		protected.POST("/logout", h.dashboard.Logout)
	}

	// JSON API (bearer session token)
	api := r.Group("/api/v1")
	{
		identityAPI := api.Group("/identity")
		identityAPI.GET("/current", h.identityAPI.Current)
		identityAPI.POST("/login", rateLimiters.identity, h.identityAPI.Login)
		identityAPI.POST("/identify", rateLimiters.identity, h.identityAPI.Identify)
		identityAPI.POST("/logout", middleware.RequireAPISession(), h.identityAPI.Logout)
		identityAPI.POST("/modify", h.identityAPI.Modify)

		api.POST("/events", h.eventAPI.LogEvent)
		api.POST("/events/commerce", h.eventAPI.LogCommerceEvent)
		api.POST("/events/attributes", h.eventAPI.SetUserAttribute)
		api.POST("/push/registration", h.eventAPI.RegisterPush)
		api.POST("/push/message", h.eventAPI.PushMessage)

		if guard, ok := auditAccess(cfg); ok {
			api.GET("/audit", guard, h.audit.ListAuditLogs)
			api.GET("/audit/export", guard, h.audit.ExportAuditLogs)
		} else {
			log.Printf("Audit API disabled (set METRICS_TOKEN to enable)")
		}
	}
}

// createHealthCheckHandler creates health check endpoint handler
// healthCheck godoc
//
//	@Summary		Health check
//	@Description	Check server and database health status
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	object{status=string,database=string,version=string}	"Service is healthy"
//	@Failure		503	{object}	object{status=string,database=string}	"Service is unhealthy"
//	@Router			/health [get]
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
				"version":  version.Short(),
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction()]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction()])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config, h handlerSet) {
	log.Printf("Identity mode: %s (provider: %s)", cfg.IdentityMode, h.loginService.ProviderName())
	log.Printf("IDGate server starting on %s", cfg.ServerAddr)
	log.Printf("Login screen: %s/login", cfg.BaseURL)
}
