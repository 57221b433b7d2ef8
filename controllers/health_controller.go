package controller

import (
	"github.com/gofiber/fiber/v2"
	"projecttracker/repository"
	"projecttracker/utils"
)

type HealthController struct {
	DB      repository.Pinger
	Version string
}

func NewHealthController(db repository.Pinger, version string) *HealthController {
	return &HealthController{DB: db, Version: version}
}

// Root is the service banner.
func (hc *HealthController) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"version": hc.Version,
	})
}

func (hc *HealthController) Health(c *fiber.Ctx) error {
	if err := hc.DB.Ping(c.UserContext()); err != nil {
		utils.LogError("health_check", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":   "error",
			"database": "disconnected",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "connected",
	})
}
