// Package telemetry provides application-level observability for saasbase.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<SB_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090.  The endpoint returns data in the Prometheus text exposition
// format and is intended to be scraped by a Prometheus server every 15–60 seconds.
// It is NOT served by the Gin router, so it never passes through authentication,
// tenant scoping, or rate limiting.
//
// # Metric Groups
//
//   - HTTP request counters and latency histograms (labelled by route template, not raw URL)
//   - Login attempt counters (success/failure)
//   - API key verification counters (success/failure)
//   - Audit event counters and audit write failure counters
//   - Rate limit rejection counters
//   - Database connection pool gauge (polled every 30 s)
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /v1/projects/:id)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as entity IDs.  No metric is ever labelled
// by organization or user ID for the same reason.
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// HTTPRequestsTotal is a CounterVec with labels {method, path, status}.
// The path label holds the Gin route template (e.g. /v1/api-keys/:id/rotate),
// NOT the raw URL, to prevent unbounded cardinality.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - Requests by route:                 sum by (path) (rate(http_requests_total[5m]))
//
// HTTPRequestDuration is a HistogramVec with labels {method, path} and exponential-ish
// buckets from 5 ms to 30 s.  Use histogram_quantile to compute latency percentiles.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Authentication metrics.
//
// LoginAttemptsTotal is a CounterVec with label {result} ("success" or "failure").
// Failures are not labelled by reason; unknown-email and wrong-password failures are
// deliberately indistinguishable, matching the API's uniform 401 response.
//
// APIKeyVerificationsTotal is a CounterVec with label {result} ("success" or
// "failure") incremented on every X-API-Key authentication attempt.
//
// Example PromQL queries:
//   - Failed login rate:         rate(login_attempts_total{result="failure"}[5m])
//   - Alert on credential stuffing: increase(login_attempts_total{result="failure"}[10m]) > 100
var (
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of password login attempts, by result.",
		},
		[]string{"result"},
	)

	APIKeyVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apikey_verifications_total",
			Help: "Total number of API key authentication attempts, by result.",
		},
		[]string{"result"},
	)
)

// Audit metrics.
//
// AuditEventsTotal is a CounterVec with label {action} (the audit action tag, e.g.
// "apikey.rotated").  Action tags come from a small fixed vocabulary so cardinality
// is bounded.
//
// AuditWriteFailuresTotal is a plain Counter incremented whenever a fire-and-forget
// audit write fails.  Audit writes never fail the request that triggered them, so
// this counter is the only operational signal that events are being dropped.
// An alert on increase(audit_write_failures_total[15m]) > 0 is recommended.
var (
	AuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Total number of audit events recorded, by action tag.",
		},
		[]string{"action"},
	)

	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Total number of audit events dropped because the database write failed.",
		},
	)
)

// RateLimitRejectionsTotal is a plain Counter incremented once per request rejected
// with 429 by the rate limiting middleware (either backend).
var RateLimitRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter.",
	},
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool.  It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
//
// Example PromQL queries:
//   - Pool utilisation (%): db_open_connections / <SB_DATABASE_MAX_CONNECTIONS> * 100
//   - Alert on near-exhaustion: db_open_connections > 20  (for max_connections=25)
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds and updates the DBOpenConnections gauge.
// The goroutine exits cleanly when the database becomes unreachable (db.Ping fails),
// which happens automatically when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database)
func StartDBStatsCollector(db *sql.DB) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()
}
