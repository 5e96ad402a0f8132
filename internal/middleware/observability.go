package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/observability"
)

// Observability records request counters and latency histograms for every route.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		method := c.Method()
		elapsed := time.Since(start)

		observability.HTTPRequests().WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		observability.HTTPLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())

		if status >= fiber.StatusInternalServerError {
			logger.Warn().
				Str("method", method).
				Str("route", route).
				Int("status", status).
				Dur("elapsed", elapsed).
				Str("correlation_id", GetCorrelationID(c)).
				Msg("request completed with server error")
		}

		return err
	}
}
