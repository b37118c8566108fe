package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Login screen
	RecordLogin(provider string, success bool, duration time.Duration)
	RecordLogout(sessionDuration time.Duration)
	RecordIdentityOperation(operation string, success bool)
	RecordSessionLookup(result string)
	RecordExternalAPICall(provider string, duration time.Duration)

	// Engagement kit
	RecordKitEvent(kind, result string)
	RecordKitBatchFlush(size int, success bool)

	// Gauge Setters (for periodic updates)
	SetActiveSessionsCount(count int)
	SetRegisteredUsersCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by CacheWrapper.
type MetricsStore interface {
	CountActiveSessions() (int64, error)
	CountUsers() (int64, error)
}
