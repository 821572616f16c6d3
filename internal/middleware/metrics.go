package middleware

import (
	"strconv"
	"time"

	"github.com/deppfellow/askmate/internal/lib/metrics"
	"github.com/labstack/echo/v4"
)

type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Prometheus records request count, latency and in-flight requests per
// route template. The /metrics endpoint itself is not recorded.
func (mm *MetricsMiddleware) Prometheus() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == "/metrics" {
				return next(c)
			}

			mm.metrics.RequestsInFlight.Inc()
			defer mm.metrics.RequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}

			method := c.Request().Method
			mm.metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			mm.metrics.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

			return err
		}
	}
}
