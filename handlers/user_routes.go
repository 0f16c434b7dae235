// handlers/user_routes.go
package handlers

import (
	"errors"
	"strconv"

	"blaze-rewards-service/middleware"
	"blaze-rewards-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	userCtx := middleware.UserContextMiddleware()

	// Fetching your own record creates it on first sight — this is the
	// identity bootstrap path for the mini app.
	app.Get("/user/:id", userCtx, func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}

		callerID := c.Locals("user_id").(int64)
		if id == callerID {
			username, _ := c.Locals("username").(string)
			user, err := userService.EnsureUser(id, username)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load user"})
			}
			return c.JSON(user)
		}

		user, err := userService.GetUser(id)
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load user"})
		}
		return c.JSON(user)
	})
}
