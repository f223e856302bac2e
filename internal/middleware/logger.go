package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoggerMiddleware writes one structured line per request. Auth runs deeper
// in the chain, so by the time Next returns the actor's role is available on
// authenticated routes.
func LoggerMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		reqID, _ := c.Locals(CtxRequestID).(string)
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if role, ok := c.Locals(CtxRole).(string); ok && role != "" {
			fields = append(fields, zap.String("role", role))
		}
		log.Info("request", fields...)

		return err
	}
}
