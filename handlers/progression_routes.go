// handlers/progression_routes.go
package handlers

import (
	"errors"

	"blaze-rewards-service/middleware"
	"blaze-rewards-service/models"
	"blaze-rewards-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	// 🔐 Secured routes — require user context (userID), enforced per route
	userCtx := middleware.UserContextMiddleware()

	app.Post("/tasks/:id/complete", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		user, err := progressionService.CompleteTask(userID, c.Params("id"))
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		case errors.Is(err, services.ErrAlreadyCompleted):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task already completed"})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete task"})
		}
		return c.JSON(user)
	})

	app.Post("/level-up", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int64)

		var req struct {
			NewLevel models.Level `json:"new_level"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		user, err := progressionService.LevelUp(userID, req.NewLevel)
		switch {
		case errors.Is(err, services.ErrUnknownLevel):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown level"})
		case errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You can only upgrade to the next level"})
		case errors.Is(err, services.ErrInsufficientBalance):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You don't have enough $BLAZE to level up."})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to level up"})
		}
		return c.JSON(user)
	})
}
