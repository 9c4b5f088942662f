package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one entry per request with request_id, method, path,
// status and latency_ms. 5xx responses log at error, 4xx at warn.
// Strings are copied out of the request so cores that retain entries stay valid.
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler runs after middleware; report what it will send
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		if ce := log.Check(level, "http_request"); ce != nil {
			ce.Write(
				zap.String("request_id", RequestIDFromCtx(c)),
				zap.String("method", utils.CopyString(c.Method())),
				zap.String("path", utils.CopyString(c.Path())),
				zap.Int("status", status),
				zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			)
		}

		return err
	}
}
