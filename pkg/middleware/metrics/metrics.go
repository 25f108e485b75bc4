// Package metrics records Prometheus metrics for every HTTP request.
package metrics

import (
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/observability/metrics"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// Metrics creates middleware that records a duration histogram, a request
// counter, and an in-flight gauge, labeled by method, path, and status.
func Metrics() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			metrics.IncrementInFlight()
			defer metrics.DecrementInFlight()

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			metrics.RecordHTTPMetrics(
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Status(),
				duration,
			)

			return err
		}
	}
}
