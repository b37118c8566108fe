package metrics

import (
	"sync"
	"time"

	"github.com/go-authgate/idgate/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics interface used across the application.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Identity Metrics
	LoginTotal               *prometheus.CounterVec
	LoginDuration            *prometheus.HistogramVec
	LogoutTotal              prometheus.Counter
	IdentityOperationsTotal  *prometheus.CounterVec
	SessionLookupsTotal      *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec
	SessionsActive           prometheus.Gauge
	SessionDuration          prometheus.Histogram
	UsersRegistered          prometheus.Gauge
	DatabaseQueryErrorsTotal *prometheus.CounterVec

	// Kit Metrics
	KitEventsTotal     *prometheus.CounterVec
	KitBatchFlushTotal *prometheus.CounterVec
	KitBatchSize       prometheus.Histogram

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag.
// Prometheus collectors are registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		LoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idgate_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"provider", "result"}, // result: success, failure
		),
		LoginDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idgate_login_duration_seconds",
				Help:    "Time taken to resolve a login request",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		LogoutTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "idgate_logout_total",
				Help: "Total number of logouts",
			},
		),
		IdentityOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idgate_identity_operations_total",
				Help: "Total number of identify, modify and resume operations",
			},
			[]string{"operation", "result"},
		),
		SessionLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idgate_session_lookups_total",
				Help: "Total number of current-session lookups",
			},
			[]string{"result"}, // authenticated, anonymous, missing, expired, invalid, error
		),
		ExternalAPIDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idgate_external_api_duration_seconds",
				Help:    "Duration of calls to external identity backends",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "idgate_sessions_active",
				Help: "Current number of authenticated, unexpired sessions",
			},
		),
		SessionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "idgate_session_duration_seconds",
				Help:    "Lifetime of sessions ended by logout",
				Buckets: []float64{60, 300, 900, 3600, 4 * 3600, 24 * 3600},
			},
		),
		UsersRegistered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "idgate_users_registered",
				Help: "Current number of user accounts",
			},
		),
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idgate_database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),

		KitEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idgate_kit_events_total",
				Help: "Total number of events handed to the engagement kit",
			},
			[]string{"kind", "result"}, // result: sent, queued, skipped, dropped, error
		),
		KitBatchFlushTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idgate_kit_batch_flush_total",
				Help: "Total number of kit batch flushes",
			},
			[]string{"result"},
		),
		KitBatchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "idgate_kit_batch_size",
				Help:    "Number of events per kit batch",
				Buckets: []float64{1, 5, 10, 25, 50, 100},
			},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
	}
}

func resultLabel(success bool) string {
	if success {
		return resultSuccess
	}
	return resultFailure
}

// RecordLogin records a login attempt and how long the provider took
func (m *Metrics) RecordLogin(provider string, success bool, duration time.Duration) {
	m.LoginTotal.WithLabelValues(provider, resultLabel(success)).Inc()
	m.LoginDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if success {
		m.SessionsActive.Inc()
	}
}

// RecordLogout records logout
func (m *Metrics) RecordLogout(sessionDuration time.Duration) {
	m.LogoutTotal.Inc()
	m.SessionsActive.Dec()
	m.SessionDuration.Observe(sessionDuration.Seconds())
}

func (m *Metrics) RecordIdentityOperation(operation string, success bool) {
	m.IdentityOperationsTotal.WithLabelValues(operation, resultLabel(success)).Inc()
}

func (m *Metrics) RecordSessionLookup(result string) {
	m.SessionLookupsTotal.WithLabelValues(result).Inc()
}

// RecordExternalAPICall records external API call duration
func (m *Metrics) RecordExternalAPICall(provider string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordKitEvent(kind, result string) {
	m.KitEventsTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) RecordKitBatchFlush(size int, success bool) {
	m.KitBatchFlushTotal.WithLabelValues(resultLabel(success)).Inc()
	m.KitBatchSize.Observe(float64(size))
}

// SetActiveSessionsCount sets the current count of active sessions (for periodic updates)
func (m *Metrics) SetActiveSessionsCount(count int) {
	m.SessionsActive.Set(float64(count))
}

func (m *Metrics) SetRegisteredUsersCount(count int) {
	m.UsersRegistered.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
