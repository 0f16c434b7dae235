// middleware/auth.go
package middleware

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the resolved Telegram identity set by the
// Gateway. The id must be present and numeric on every secured route; the
// service itself never parses Telegram init data.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawID := c.Get("X-User-ID")
		if rawID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			log.Printf("❌ [USER_CTX] X-User-ID is not a Telegram id: %q on %s", rawID, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "malformed X-User-ID",
			})
		}

		// Attach to ctx for handlers
		c.Locals("user_id", userID)
		c.Locals("username", c.Get("X-User-Name"))

		return c.Next()
	}
}
