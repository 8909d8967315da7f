package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(analysisEnabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "healthy",
			"analysis_enabled": analysisEnabled,
			"time":             time.Now(),
		})
	}
}
