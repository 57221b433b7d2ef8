package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"projecttracker/reports"
	"projecttracker/repository"
	"projecttracker/utils"
)

type ReportController struct {
	Allocations repository.AllocationRepo
}

func NewReportController(allocations repository.AllocationRepo) *ReportController {
	return &ReportController{Allocations: allocations}
}

// GetSummary aggregates allocations per member, per project or per month,
// narrowed by the same query filters as the allocation list.
func (rc *ReportController) GetSummary(c *fiber.Ctx) error {
	f, ok, err := filterFromQuery(c)
	if !ok {
		return err
	}
	allocations, err := rc.Allocations.List(c.UserContext(), f)
	if err != nil {
		return repoError(c, "Allocation", "Failed to build summary", err)
	}

	summary, err := reports.Summary(c.Query("view", reports.ViewMember), allocations)
	if errors.Is(err, reports.ErrUnknownView) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build summary", err)
	}
	return c.JSON(summary)
}
