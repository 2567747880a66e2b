package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	tokenLookups    *prometheus.CounterVec
	gateDecisions   *prometheus.CounterVec
	logins          *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sms_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sms_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sms_http_errors_total",
			Help: "HTTP error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		tokenLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sms_token_lookups_total",
			Help: "Token cache lookups by result (absent, hit, miss, error).",
		}, []string{"result"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sms_authz_decisions_total",
			Help: "Authorization gate decisions by route, role and decision.",
		}, []string{"route", "role", "decision"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sms_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.tokenLookups,
		m.gateDecisions,
		m.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(route, method, code).Inc()
}

// RecordTokenLookup counts identity filter outcomes.
func (m *Metrics) RecordTokenLookup(result string) {
	if m == nil {
		return
	}
	m.tokenLookups.WithLabelValues(result).Inc()
}

// RecordGateDecision counts authorization outcomes.
func (m *Metrics) RecordGateDecision(route, role, decision string) {
	if m == nil {
		return
	}
	if role == "" {
		role = "anonymous"
	}
	m.gateDecisions.WithLabelValues(route, role, decision).Inc()
}

// RecordLogin counts login attempts.
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}
