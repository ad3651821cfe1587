package middleware

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/logger"
	"github.com/iliyamo/cinereview/internal/metrics"
)

// RequestID takes X-Request-Id from the client or generates one, echoes it
// back and attaches it to the request context for logging.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
			return next(c)
		}
	}
}

// RequestLogger writes one structured line per request and records the
// request in the HTTP metrics.  Routes are labelled by their pattern, not
// the raw path, to keep metric cardinality bounded.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is known.
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			elapsed := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			metrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(req.Method, route).Observe(elapsed.Seconds())

			ev := logger.Info(req.Context())
			switch {
			case status >= 500:
				ev = logger.Error(req.Context())
			case status >= 400:
				ev = logger.Warn(req.Context())
			}
			ev.Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", route).
				Int("status", status).
				Int64("duration_ms", elapsed.Milliseconds()).
				Int64("bytes_out", c.Response().Size).
				Str("ip", c.RealIP()).
				Err(err).
				Msg("request completed")
			return nil
		}
	}
}
