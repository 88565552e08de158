package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lessonhub/lessonhub-api/internal/utils"
)

// CronSecret guards the scheduled maintenance endpoints. The external
// scheduler authenticates with a shared secret header instead of a user JWT.
func CronSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "scheduled jobs are not configured")
		}

		provided := strings.TrimSpace(c.Get("X-Cron-Secret"))
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid cron secret")
		}

		return c.Next()
	}
}
