// middleware/admin.go
package middleware

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminOnlyMiddleware gates the admin surface (task management, stats) behind
// the configured set of administrative Telegram ids. The set comes from the
// ADMIN_USER_IDS env var (comma-separated), never from a literal in handler
// logic. Must run after UserContextMiddleware.
func AdminOnlyMiddleware() fiber.Handler {
	admins := map[int64]struct{}{}
	for _, raw := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("⚠️  [ADMIN] Ignoring malformed admin id %q in ADMIN_USER_IDS", raw)
			continue
		}
		admins[id] = struct{}{}
	}
	if len(admins) == 0 {
		log.Println("⚠️  [ADMIN] ADMIN_USER_IDS is empty — all admin routes will be denied")
	}

	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(int64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user context",
			})
		}
		if _, isAdmin := admins[userID]; !isAdmin {
			log.Printf("🚫 [ADMIN] User %d denied on %s", userID, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}
