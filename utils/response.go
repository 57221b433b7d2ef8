package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse writes {"error": message}. Server-side failures are logged
// with err attached; err never reaches the client.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	if err != nil && status >= fiber.StatusInternalServerError {
		LogError("http_request", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// MessageResponse writes {"message": message} with a 200 status.
func MessageResponse(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"message": message,
	})
}
