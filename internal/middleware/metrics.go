package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/telemetry"
)

// Metrics records Prometheus counters and latency histograms for every
// request that passes through the router:
//
//   - http_requests_total{method, path, status}
//   - http_request_duration_seconds{method, path}
//
// The path label uses c.FullPath(), the matched route template
// (e.g. /api/v1/projects/:projectId) rather than the raw URL, so per-entity
// ids never become label values. Requests that match no route use the literal
// "<no-route>" to keep unhandled paths from inflating label cardinality.
// Register after gin.Recovery and RequestID so statuses set by error handlers
// are captured.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}

		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
