package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/groupledger/internal/metrics"
)

// RequestLogger logs every request and records its latency. Handler errors
// are rendered here through the echo error handler so the logged status is
// the one the client sees.
func RequestLogger(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			duration := time.Since(start)

			m.RequestDuration.
				WithLabelValues(req.Method, route, strconv.Itoa(status)).
				Observe(duration.Seconds())

			attrs := []any{
				"method", req.Method,
				"route", route,
				"status", status,
				"user_id", GetUserID(req.Context()), // empty if pre-auth
				"duration_ms", duration.Milliseconds(),
			}
			switch {
			case status >= http.StatusInternalServerError:
				slog.Error("HTTP error", append(attrs, "error", err)...)
			case err != nil:
				slog.Warn("HTTP error", append(attrs, "error", err)...)
			default:
				slog.Info("HTTP ok", attrs...)
			}
			return nil
		}
	}
}
