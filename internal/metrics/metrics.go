package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the shiftdesk server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Scheduling backend metrics.
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	DroppedRecordsTotal    *prometheus.CounterVec

	// Scheduling domain metrics.
	LockTransitionsTotal       *prometheus.CounterVec
	EligibilityRejectionsTotal prometheus.Counter

	// Auth metrics.
	AuthFailuresTotal  prometheus.Counter
	AuthSuccessesTotal prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftdesk_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		BackendRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftdesk_backend_requests_total",
			Help: "Total number of scheduling backend requests by action and outcome.",
		}, []string{"action", "outcome"}),

		BackendRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftdesk_backend_request_duration_seconds",
			Help:    "Scheduling backend request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),

		DroppedRecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftdesk_backend_dropped_records_total",
			Help: "Total number of malformed backend records dropped during normalization.",
		}, []string{"action"}),

		LockTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftdesk_lock_transitions_total",
			Help: "Total number of week lock transitions by resulting status.",
		}, []string{"status"}),

		EligibilityRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftdesk_eligibility_rejections_total",
			Help: "Total number of availability edits rejected for ineligible employees.",
		}),

		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftdesk_auth_failures_total",
			Help: "Total number of failed logins.",
		}),

		AuthSuccessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftdesk_auth_successes_total",
			Help: "Total number of successful logins.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shiftdesk_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	// Register all metrics.
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BackendRequestsTotal,
		m.BackendRequestDuration,
		m.DroppedRecordsTotal,
		m.LockTransitionsTotal,
		m.EligibilityRejectionsTotal,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.ServerStartTime,
	)

	// Set server start time.
	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterSessionsCollector registers a collector exposing the live session
// count without importing the auth package.
func (m *Metrics) RegisterSessionsCollector(countFunc SessionCountFunc) {
	m.registry.MustRegister(NewSessionsCollector(countFunc))
}

// ObserveBackendRequest records one backend round trip.
func (m *Metrics) ObserveBackendRequest(action, outcome string, seconds float64) {
	m.BackendRequestsTotal.WithLabelValues(action, outcome).Inc()
	m.BackendRequestDuration.WithLabelValues(action).Observe(seconds)
}

// IncDroppedRecord counts one malformed record dropped while decoding a
// backend response.
func (m *Metrics) IncDroppedRecord(action string) {
	m.DroppedRecordsTotal.WithLabelValues(action).Inc()
}

// IncLockTransition counts one week lock flip to the given status.
func (m *Metrics) IncLockTransition(status string) {
	m.LockTransitionsTotal.WithLabelValues(status).Inc()
}

// IncEligibilityRejection counts one rejected availability edit.
func (m *Metrics) IncEligibilityRejection() {
	m.EligibilityRejectionsTotal.Inc()
}

// IncAuthFailure increments the failed login counter.
func (m *Metrics) IncAuthFailure() {
	m.AuthFailuresTotal.Inc()
}

// IncAuthSuccess increments the successful login counter.
func (m *Metrics) IncAuthSuccess() {
	m.AuthSuccessesTotal.Inc()
}
