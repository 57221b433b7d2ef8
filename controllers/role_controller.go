package controller

import (
	"github.com/gofiber/fiber/v2"
	"projecttracker/models"
	"projecttracker/realtime"
	"projecttracker/repository"
)

type RoleRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Department  string `json:"department" validate:"max=255"`
	Description string `json:"description"`
}

type RoleController struct {
	Repo    repository.RoleRepo
	changes changes
}

func NewRoleController(repo repository.RoleRepo, pub realtime.Publisher) *RoleController {
	return &RoleController{
		Repo:    repo,
		changes: changes{pub: pub, entity: "role"},
	}
}

func (rc *RoleController) GetRoles(c *fiber.Ctx) error {
	roles, err := rc.Repo.List(c.UserContext())
	if err != nil {
		return repoError(c, "Role", "Failed to fetch roles", err)
	}
	return c.JSON(roles)
}

func (rc *RoleController) GetRole(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Role")
	if !ok {
		return err
	}
	role, err := rc.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return repoError(c, "Role", "Failed to fetch role", err)
	}
	return c.JSON(role)
}

func (rc *RoleController) CreateRole(c *fiber.Ctx) error {
	var req RoleRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	role := models.Role{
		Name:        trim(req.Name),
		Department:  trim(req.Department),
		Description: req.Description,
	}
	if err := rc.Repo.Create(c.UserContext(), &role); err != nil {
		return repoError(c, "Role", "Failed to create role", err)
	}

	rc.changes.emit(realtime.ActionCreate, role.ID)
	return c.Status(fiber.StatusCreated).JSON(role)
}

// UpdateRole also renames the role on every member holding the old name.
func (rc *RoleController) UpdateRole(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Role")
	if !ok {
		return err
	}
	var req RoleRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	role := models.Role{
		Model:       models.Model{ID: id},
		Name:        trim(req.Name),
		Department:  trim(req.Department),
		Description: req.Description,
	}
	if err := rc.Repo.Update(c.UserContext(), &role); err != nil {
		return repoError(c, "Role", "Failed to update role", err)
	}

	rc.changes.emit(realtime.ActionUpdate, id)
	return c.JSON(role)
}

func (rc *RoleController) DeleteRole(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Role")
	if !ok {
		return err
	}
	if err := rc.Repo.Delete(c.UserContext(), id); err != nil {
		return repoError(c, "Role", "Failed to delete role", err)
	}

	rc.changes.emit(realtime.ActionDelete, id)
	return deleted(c, "Role")
}
