package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the auth service.
// It owns a private registry so tests can create instances freely without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	Logins          *prometheus.CounterVec
	Registrations   prometheus.Counter
	SessionsPurged  prometheus.Counter
	SessionsCreated prometheus.Counter
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Name:      "logins_total",
			Help:      "Login attempts by result (success or failure)",
		}, []string{"result"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Name:      "registrations_total",
			Help:      "Successfully registered users",
		}),
		SessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Name:      "sessions_purged_total",
			Help:      "Expired sessions removed by the background purge",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Name:      "sessions_created_total",
			Help:      "Sessions created on successful login",
		}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.Logins,
		m.Registrations,
		m.SessionsPurged,
		m.SessionsCreated,
	)

	return m
}

// ObserveRequest records one completed HTTP request
func (m *Metrics) ObserveRequest(method string, statusCode int) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// ObserveLogin records a login attempt outcome
func (m *Metrics) ObserveLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.Logins.WithLabelValues(result).Inc()
}

// Handler returns the /metrics endpoint for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
