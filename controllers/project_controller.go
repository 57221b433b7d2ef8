package controller

import (
	"github.com/gofiber/fiber/v2"
	"projecttracker/models"
	"projecttracker/realtime"
	"projecttracker/repository"
	"projecttracker/utils"
)

type ProjectRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Client      string       `json:"client" validate:"required,max=255"`
	StartDate   *models.Date `json:"startDate" validate:"required"`
	EndDate     *models.Date `json:"endDate"`
	Status      string       `json:"status" validate:"omitempty,project_status"`
	Priority    string       `json:"priority" validate:"omitempty,project_priority"`
	Description string       `json:"description"`
}

// check covers the rules the struct tags cannot express.
func (r ProjectRequest) check() string {
	if r.StartDate.IsZero() {
		return "startDate is required"
	}
	if r.EndDate != nil && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate.Time) {
		return "endDate must not be before startDate"
	}
	return ""
}

func (r ProjectRequest) apply(p *models.Project) {
	p.Name = trim(r.Name)
	p.Client = trim(r.Client)
	p.StartDate = *r.StartDate
	p.EndDate = nil
	if r.EndDate != nil && !r.EndDate.IsZero() {
		end := *r.EndDate
		p.EndDate = &end
	}
	p.Status = r.Status
	if p.Status == "" {
		p.Status = models.ProjectPlanning
	}
	p.Priority = r.Priority
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	p.Description = r.Description
}

type ProjectController struct {
	Repo    repository.ProjectRepo
	changes changes
}

func NewProjectController(repo repository.ProjectRepo, pub realtime.Publisher) *ProjectController {
	return &ProjectController{
		Repo:    repo,
		changes: changes{pub: pub, entity: "project"},
	}
}

func (pc *ProjectController) GetProjects(c *fiber.Ctx) error {
	projects, err := pc.Repo.List(c.UserContext())
	if err != nil {
		return repoError(c, "Project", "Failed to fetch projects", err)
	}
	return c.JSON(projects)
}

func (pc *ProjectController) GetProject(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Project")
	if !ok {
		return err
	}
	project, err := pc.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return repoError(c, "Project", "Failed to fetch project", err)
	}
	return c.JSON(project)
}

func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	var req ProjectRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	if msg := req.check(); msg != "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, nil)
	}

	var project models.Project
	req.apply(&project)
	if err := pc.Repo.Create(c.UserContext(), &project); err != nil {
		return repoError(c, "Project", "Failed to create project", err)
	}

	pc.changes.emit(realtime.ActionCreate, project.ID)
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (pc *ProjectController) UpdateProject(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Project")
	if !ok {
		return err
	}
	var req ProjectRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	if msg := req.check(); msg != "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, nil)
	}

	project := models.Project{Model: models.Model{ID: id}}
	req.apply(&project)
	if err := pc.Repo.Update(c.UserContext(), &project); err != nil {
		return repoError(c, "Project", "Failed to update project", err)
	}

	pc.changes.emit(realtime.ActionUpdate, id)
	return c.JSON(project)
}

func (pc *ProjectController) DeleteProject(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Project")
	if !ok {
		return err
	}
	if err := pc.Repo.Delete(c.UserContext(), id); err != nil {
		return repoError(c, "Project", "Failed to delete project", err)
	}

	pc.changes.emit(realtime.ActionDelete, id)
	return deleted(c, "Project")
}
