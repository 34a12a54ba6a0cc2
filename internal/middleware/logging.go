package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sharebox/backend/pkg/logger"
)

func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		details := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status_code": c.Response().StatusCode(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		}

		if user := GetCurrentUser(c); user != nil {
			logger.InfoWithUser(user.ID.String(), "http_request", details)
		} else {
			logger.Info("http_request", details)
		}

		return err
	}
}

// SecurityLogger records denied requests separately so authorization
// failures are easy to audit in the log stream.
func SecurityLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		statusCode := c.Response().StatusCode()
		if statusCode != fiber.StatusForbidden && statusCode != fiber.StatusUnauthorized {
			return err
		}

		details := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status_code": statusCode,
			"ip":          c.IP(),
		}

		if user := GetCurrentUser(c); user != nil {
			logger.WarnWithUser(user.ID.String(), "access_denied", details)
		} else {
			logger.Warn("access_denied", details)
		}

		return err
	}
}
