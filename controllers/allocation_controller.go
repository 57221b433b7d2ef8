package controller

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"projecttracker/models"
	"projecttracker/realtime"
	"projecttracker/reports"
	"projecttracker/repository"
	"projecttracker/utils"
)

// AllocationRequest accepts percentage as a JSON number or a numeric string.
type AllocationRequest struct {
	UserID       string           `json:"userId" validate:"required,uuid"`
	ProjectID    string           `json:"projectId" validate:"required,uuid"`
	EmployeeName string           `json:"employeeName" validate:"max=255"`
	ProjectName  string           `json:"projectName" validate:"max=255"`
	Month        string           `json:"month" validate:"required,month"`
	Year         int              `json:"year" validate:"required,min=1900,max=9999"`
	Percentage   *decimal.Decimal `json:"percentage" validate:"required"`
}

type AllocationController struct {
	Repo     repository.AllocationRepo
	Members  repository.TeamMemberRepo
	Projects repository.ProjectRepo
	changes  changes
}

func NewAllocationController(repos *repository.Repositories, pub realtime.Publisher) *AllocationController {
	return &AllocationController{
		Repo:     repos.Allocations,
		Members:  repos.TeamMembers,
		Projects: repos.Projects,
		changes:  changes{pub: pub, entity: "allocation"},
	}
}

// filterFromQuery reads month, year, userId and projectId. On invalid input it
// writes the 400 and ok is false.
func filterFromQuery(c *fiber.Ctx) (f repository.AllocationFilter, ok bool, err error) {
	f = repository.AllocationFilter{
		Month:     c.Query("month"),
		UserID:    c.Query("userId"),
		ProjectID: c.Query("projectId"),
	}
	bad := func(msg string) (repository.AllocationFilter, bool, error) {
		return f, false, utils.ErrorResponse(c, fiber.StatusBadRequest, msg, nil)
	}

	if f.Month != "" && models.MonthIndex(f.Month) < 0 {
		return bad("month must be a full English month name")
	}
	if y := c.Query("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year <= 0 {
			return bad("year must be a positive integer")
		}
		f.Year = year
	}
	if f.UserID != "" && !models.IsValidID(f.UserID) {
		return bad("userId must be a valid id")
	}
	if f.ProjectID != "" && !models.IsValidID(f.ProjectID) {
		return bad("projectId must be a valid id")
	}
	return f, true, nil
}

func (ac *AllocationController) GetAllocations(c *fiber.Ctx) error {
	f, ok, err := filterFromQuery(c)
	if !ok {
		return err
	}
	allocations, err := ac.Repo.List(c.UserContext(), f)
	if err != nil {
		return repoError(c, "Allocation", "Failed to fetch allocations", err)
	}
	return c.JSON(allocations)
}

// GetOverAllocated reports person-months whose allocations add up to more than 100%.
func (ac *AllocationController) GetOverAllocated(c *fiber.Ctx) error {
	f, ok, err := filterFromQuery(c)
	if !ok {
		return err
	}
	allocations, err := ac.Repo.List(c.UserContext(), f)
	if err != nil {
		return repoError(c, "Allocation", "Failed to fetch allocations", err)
	}

	over := reports.FindOverAllocated(allocations)
	if over == nil {
		over = []reports.MemberMonth{}
	}
	return c.JSON(over)
}

func (ac *AllocationController) GetAllocation(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Allocation")
	if !ok {
		return err
	}
	allocation, err := ac.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return repoError(c, "Allocation", "Failed to fetch allocation", err)
	}
	return c.JSON(allocation)
}

func (ac *AllocationController) CreateAllocation(c *fiber.Ctx) error {
	allocation, ok, err := ac.fromRequest(c, "")
	if !ok {
		return err
	}
	if err := ac.Repo.Create(c.UserContext(), allocation); err != nil {
		return repoError(c, "Allocation", "Failed to create allocation", err)
	}

	ac.changes.emit(realtime.ActionCreate, allocation.ID)
	return c.Status(fiber.StatusCreated).JSON(allocation)
}

func (ac *AllocationController) UpdateAllocation(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Allocation")
	if !ok {
		return err
	}
	allocation, ok, err := ac.fromRequest(c, id)
	if !ok {
		return err
	}
	if err := ac.Repo.Update(c.UserContext(), allocation); err != nil {
		return repoError(c, "Allocation", "Failed to update allocation", err)
	}

	ac.changes.emit(realtime.ActionUpdate, id)
	return c.JSON(allocation)
}

func (ac *AllocationController) DeleteAllocation(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Allocation")
	if !ok {
		return err
	}
	if err := ac.Repo.Delete(c.UserContext(), id); err != nil {
		return repoError(c, "Allocation", "Failed to delete allocation", err)
	}

	ac.changes.emit(realtime.ActionDelete, id)
	return deleted(c, "Allocation")
}

// fromRequest validates the body and fills in the member and project names
// from their current rows, falling back to the names the client sent.
func (ac *AllocationController) fromRequest(c *fiber.Ctx, id string) (*models.Allocation, bool, error) {
	var req AllocationRequest
	if ok, err := parseBody(c, &req); !ok {
		return nil, false, err
	}

	pct := reports.RoundPercentage(*req.Percentage)
	if pct.IsNegative() || pct.GreaterThan(models.MaxPercentage) {
		return nil, false, utils.ErrorResponse(c, fiber.StatusBadRequest, "percentage must be between 0 and 100", nil)
	}

	ctx := c.UserContext()
	employeeName, err := ac.memberName(ctx, req.UserID, trim(req.EmployeeName))
	if err != nil {
		return nil, false, repoError(c, "Team member", "Failed to look up team member", err)
	}
	projectName, err := ac.projectName(ctx, req.ProjectID, trim(req.ProjectName))
	if err != nil {
		return nil, false, repoError(c, "Project", "Failed to look up project", err)
	}
	if employeeName == "" {
		return nil, false, utils.ErrorResponse(c, fiber.StatusBadRequest, "employeeName is required when userId matches no team member", nil)
	}
	if projectName == "" {
		return nil, false, utils.ErrorResponse(c, fiber.StatusBadRequest, "projectName is required when projectId matches no project", nil)
	}

	return &models.Allocation{
		Model:        models.Model{ID: id},
		UserID:       req.UserID,
		ProjectID:    req.ProjectID,
		EmployeeName: employeeName,
		ProjectName:  projectName,
		Month:        req.Month,
		Year:         req.Year,
		Percentage:   pct,
	}, true, nil
}

func (ac *AllocationController) memberName(ctx context.Context, id, fallback string) (string, error) {
	m, err := ac.Members.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return m.Name, nil
}

func (ac *AllocationController) projectName(ctx context.Context, id, fallback string) (string, error) {
	p, err := ac.Projects.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}
