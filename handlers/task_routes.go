// handlers/task_routes.go
package handlers

import (
	"strconv"

	"blaze-rewards-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService) {
	// 🔓 Task list is public behind the gateway — completed flags appear when
	// the gateway forwarded a user identity.
	app.Get("/tasks", func(c *fiber.Ctx) error {
		var forUser int64
		if raw := c.Get("X-User-ID"); raw != "" {
			forUser, _ = strconv.ParseInt(raw, 10, 64)
		}

		tasks, err := taskService.ListTasks(forUser)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list tasks"})
		}
		return c.JSON(tasks)
	})
}
