// handlers/fren_routes.go
package handlers

import (
	"errors"

	"blaze-rewards-service/middleware"
	"blaze-rewards-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFrenRoutes(app *fiber.App, referralService *services.ReferralService,
	progressionService *services.ProgressionService, userService *services.UserService) {

	userCtx := middleware.UserContextMiddleware()

	app.Get("/frens", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		frens, err := referralService.ListFrens(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list frens"})
		}
		return c.JSON(frens)
	})

	app.Post("/invite", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)
		username, _ := c.Locals("username").(string)

		user, err := userService.EnsureUser(userID, username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load user"})
		}
		return c.JSON(fiber.Map{"invite_link": referralService.InviteLink(user)})
	})

	// Idempotent by design: reloading the deep link must never error or
	// double-credit, so duplicates come back as a plain success.
	app.Post("/invite/resolve", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)
		username, _ := c.Locals("username").(string)

		var req struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil || req.Code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		err := progressionService.ResolveInvite(req.Code, userID, username)
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invite code not recognized"})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve invite"})
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
