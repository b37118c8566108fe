package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity mode constants
const (
	IdentityModeLocal   = "local"
	IdentityModeHTTPAPI = "http_api"
	IdentityModeKratos  = "kratos"
)

// Session cache type constants
const (
	SessionCacheTypeMemory     = "memory"
	SessionCacheTypeRedis      = "redis"
	SessionCacheTypeRedisAside = "redis-aside"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Environment constants
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

type Config struct {
	// Server settings
	ServerAddr  string
	BaseURL     string
	Environment string

	// Session settings
	SessionSecret     string
	SessionMaxAge     int // seconds
	SessionCookieName string

	// Session tokens
	JWTSecret  string
	SessionTTL time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string

	// Identity backend
	IdentityMode         string // "local", "http_api" or "kratos"
	IdentityAutoRegister bool   // local mode: create accounts for unknown emails

	// HTTP API identity backend
	IdentityAPIURL                string
	IdentityAPITimeout            time.Duration
	IdentityAPIInsecureSkipVerify bool
	IdentityAPIAuthMode           string // "none", "simple" or "hmac"
	IdentityAPIAuthSecret         string
	IdentityAPIAuthHeader         string
	IdentityAPIMaxRetries         int
	IdentityAPIRetryDelay         time.Duration
	IdentityAPIMaxRetryDelay      time.Duration

	// OAuth2 client credentials for the HTTP API backend (optional)
	IdentityAPITokenURL     string
	IdentityAPIClientID     string
	IdentityAPIClientSecret string
	IdentityAPIScopes       []string

	// Kratos identity backend
	KratosPublicURL     string
	KratosAdminURL      string
	KratosSessionCookie string

	// Session cache
	SessionCacheType string
	SessionCacheTTL  time.Duration

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	EnableRateLimit bool
	RateLimitStore  string
	LoginRateLimit  int // requests per minute

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration

	// Audit
	EnableAuditLogging    bool
	AuditLogBufferSize    int
	AuditLogRetention     time.Duration
	AuditLogCleanupPeriod time.Duration

	// Engagement kit
	KitEnabled      bool
	KitAPIURL       string
	KitSettingsFile string
	KitTimeout      time.Duration
	KitMaxRetries   int

	// Tracing
	OTELServiceName string

	// Timeouts
	DBInitTimeout         time.Duration
	DBCloseTimeout        time.Duration
	RedisConnTimeout      time.Duration
	RedisCloseTimeout     time.Duration
	CacheInitTimeout      time.Duration
	CacheCloseTimeout     time.Duration
	ServerShutdownTimeout time.Duration
	AuditShutdownTimeout  time.Duration
	KitShutdownTimeout    time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "idgate.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		Environment: getEnv("ENVIRONMENT", EnvironmentDevelopment),

		SessionSecret:     getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		SessionMaxAge:     getEnvInt("SESSION_MAX_AGE", 86400),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "idgate_session"),

		JWTSecret:  getEnv("JWT_SECRET", "your-256-bit-secret-change-in-production"),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		IdentityMode:         getEnv("IDENTITY_MODE", IdentityModeLocal),
		IdentityAutoRegister: getEnvBool("IDENTITY_AUTO_REGISTER", true),

		IdentityAPIURL:                getEnv("IDENTITY_API_URL", ""),
		IdentityAPITimeout:            getEnvDuration("IDENTITY_API_TIMEOUT", 10*time.Second),
		IdentityAPIInsecureSkipVerify: getEnvBool("IDENTITY_API_INSECURE_SKIP_VERIFY", false),
		IdentityAPIAuthMode:           getEnv("IDENTITY_API_AUTH_MODE", "none"),
		IdentityAPIAuthSecret:         getEnv("IDENTITY_API_AUTH_SECRET", ""),
		IdentityAPIAuthHeader:         getEnv("IDENTITY_API_AUTH_HEADER", "X-API-Secret"),
		IdentityAPIMaxRetries:         getEnvInt("IDENTITY_API_MAX_RETRIES", 3),
		IdentityAPIRetryDelay:         getEnvDuration("IDENTITY_API_RETRY_DELAY", 1*time.Second),
		IdentityAPIMaxRetryDelay: getEnvDuration(
			"IDENTITY_API_MAX_RETRY_DELAY",
			10*time.Second,
		),

		IdentityAPITokenURL:     getEnv("IDENTITY_API_TOKEN_URL", ""),
		IdentityAPIClientID:     getEnv("IDENTITY_API_CLIENT_ID", ""),
		IdentityAPIClientSecret: getEnv("IDENTITY_API_CLIENT_SECRET", ""),
		IdentityAPIScopes:       getEnvSlice("IDENTITY_API_SCOPES", nil),

		KratosPublicURL:     getEnv("KRATOS_PUBLIC_URL", "http://localhost:4433"),
		KratosAdminURL:      getEnv("KRATOS_ADMIN_URL", "http://localhost:4434"),
		KratosSessionCookie: getEnv("KRATOS_SESSION_COOKIE", "ory_kratos_session"),

		SessionCacheType: getEnv("SESSION_CACHE_TYPE", SessionCacheTypeMemory),
		SessionCacheTTL:  getEnvDuration("SESSION_CACHE_TTL", 5*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EnableRateLimit: getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:  getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),

		MetricsEnabled:            getEnvBool("METRICS_ENABLED", false),
		MetricsToken:              getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled: getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration(
			"METRICS_GAUGE_UPDATE_INTERVAL",
			5*time.Minute,
		),

		EnableAuditLogging:    getEnvBool("ENABLE_AUDIT_LOGGING", true),
		AuditLogBufferSize:    getEnvInt("AUDIT_LOG_BUFFER_SIZE", 1000),
		AuditLogRetention:     getEnvDuration("AUDIT_LOG_RETENTION", 90*24*time.Hour),
		AuditLogCleanupPeriod: getEnvDuration("AUDIT_LOG_CLEANUP_PERIOD", 24*time.Hour),

		KitEnabled:      getEnvBool("KIT_ENABLED", false),
		KitAPIURL:       getEnv("KIT_API_URL", ""),
		KitSettingsFile: getEnv("KIT_SETTINGS_FILE", "kit.yaml"),
		KitTimeout:      getEnvDuration("KIT_TIMEOUT", 10*time.Second),
		KitMaxRetries:   getEnvInt("KIT_MAX_RETRIES", 3),

		OTELServiceName: getEnv("OTEL_SERVICE_NAME", "idgate"),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DBCloseTimeout:        getEnvDuration("DB_CLOSE_TIMEOUT", 5*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout:     getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		CacheCloseTimeout:     getEnvDuration("CACHE_CLOSE_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		AuditShutdownTimeout:  getEnvDuration("AUDIT_SHUTDOWN_TIMEOUT", 10*time.Second),
		KitShutdownTimeout:    getEnvDuration("KIT_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// Validate checks enum-valued settings and cross-field requirements.
func (c *Config) Validate() error {
	switch c.IdentityMode {
	case IdentityModeLocal, IdentityModeKratos:
	case IdentityModeHTTPAPI:
		if c.IdentityAPIURL == "" {
			return fmt.Errorf("IDENTITY_MODE=http_api requires IDENTITY_API_URL")
		}
	default:
		return fmt.Errorf("invalid IDENTITY_MODE value: %q", c.IdentityMode)
	}

	switch c.SessionCacheType {
	case SessionCacheTypeMemory, SessionCacheTypeRedis, SessionCacheTypeRedisAside:
	default:
		return fmt.Errorf("invalid SESSION_CACHE_TYPE value: %q", c.SessionCacheType)
	}
	if c.SessionCacheType != SessionCacheTypeMemory && c.RedisAddr == "" {
		return fmt.Errorf("SESSION_CACHE_TYPE=%q requires REDIS_ADDR", c.SessionCacheType)
	}
	if c.SessionCacheTTL <= 0 {
		return fmt.Errorf(
			"SESSION_CACHE_TTL must be a positive duration, got %s",
			c.SessionCacheTTL,
		)
	}

	switch c.RateLimitStore {
	case RateLimitStoreMemory:
	case RateLimitStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("RATE_LIMIT_STORE=%q requires REDIS_ADDR", c.RateLimitStore)
		}
	default:
		return fmt.Errorf("invalid RATE_LIMIT_STORE value: %q", c.RateLimitStore)
	}

	if c.KitEnabled && c.KitAPIURL == "" {
		return fmt.Errorf("KIT_ENABLED=true requires KIT_API_URL")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if parts := splitAndTrim(value, ","); len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
