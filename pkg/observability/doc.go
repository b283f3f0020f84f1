// Package observability provides structured logging, Prometheus metrics,
// and health check endpoints for the authentication service.
//
// # Logging
//
// Logger wraps stdlib slog with a JSON handler. Components receive a Logger
// and narrow it with WithField/WithError:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("username", name).Info("user registered")
//
// # Metrics
//
// Metrics owns a private Prometheus registry with counters for HTTP
// requests, login outcomes, registrations, and purged sessions. Expose it
// on the health listener:
//
//	mux.Handle("/metrics", metrics.Handler())
//
// # Health
//
// HealthChecker probes the SQL database and the optional Redis session
// store. Liveness always returns 200; Readiness returns 503 when the
// database is unreachable and degrades (but stays 200) when only Redis is
// down.
package observability
