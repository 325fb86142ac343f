package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travelagency/booking-api/internal/pkg/metrics"
)

// Metrics records request count and latency per route template. Errors are
// rendered here so the recorded status matches the response, then returned
// so outer middleware can still log them.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
