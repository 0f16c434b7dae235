// handlers/admin_routes.go
package handlers

import (
	"errors"
	"strconv"

	"blaze-rewards-service/middleware"
	"blaze-rewards-service/models"
	"blaze-rewards-service/services"
	"blaze-rewards-service/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, taskService *services.TaskService, statsService *services.StatsService) {
	// 🔐 Admin surface — user context + configured admin id set
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminOnlyMiddleware())

	// Accepts JSON, or multipart when the task ships with an image file
	// (uploaded to R2, public URL stored on the task).
	admin.Post("/tasks", func(c *fiber.Ctx) error {
		var in services.CreateTaskInput

		if c.Is("json") {
			if err := c.BodyParser(&in); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
			}
		} else {
			reward, _ := strconv.ParseInt(c.FormValue("reward"), 10, 64)
			in = services.CreateTaskInput{
				Header:      c.FormValue("header"),
				Description: c.FormValue("description"),
				ImageURL:    c.FormValue("image_url"),
				Link:        c.FormValue("link"),
				Type:        models.TaskType(c.FormValue("type")),
				Reward:      reward,
			}
			if file, err := c.FormFile("image"); err == nil {
				url, err := utils.UploadTaskImage(file, in.Header)
				if err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload task image"})
				}
				in.ImageURL = url
			}
		}

		task, err := taskService.CreateTask(in)
		if errors.Is(err, services.ErrInvalidTask) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create task"})
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	admin.Delete("/tasks/:id", func(c *fiber.Ctx) error {
		err := taskService.RemoveTask(c.Params("id"))
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to remove task"})
		}
		return c.JSON(fiber.Map{"success": true})
	})

	admin.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := statsService.AdminStats()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute stats"})
		}
		return c.JSON(stats)
	})
}
