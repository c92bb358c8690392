package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tair/commodity-tracker/pkg/logger"
)

// StructuredLoggingMiddleware logs one line per completed request, at warn
// for 4xx and error for 5xx
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		statusCode := c.Response().StatusCode()
		log := logger.WithContext(c.UserContext())

		var event *zerolog.Event
		switch {
		case err != nil || statusCode >= fiber.StatusInternalServerError:
			event = log.Error().Err(err)
		case statusCode >= fiber.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("ip", c.IP()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("Gateway request completed")

		return err
	}
}
