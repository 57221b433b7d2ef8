package controller

import (
	"github.com/gofiber/fiber/v2"
	"projecttracker/models"
	"projecttracker/realtime"
	"projecttracker/repository"
	"projecttracker/utils"
)

// passwordUnchanged is what the admin form sends when the password field is left alone.
const passwordUnchanged = "unchanged"

type CreateAdminUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,password_bytes"`
	Email    string `json:"email" validate:"omitempty,email_format"`
	Role     string `json:"role" validate:"omitempty,admin_role"`
	IsActive *bool  `json:"isActive"`
}

type UpdateAdminUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"password_bytes"`
	Email    string `json:"email" validate:"omitempty,email_format"`
	Role     string `json:"role" validate:"omitempty,admin_role"`
	IsActive *bool  `json:"isActive"`
}

type AdminUserController struct {
	Repo    repository.AdminUserRepo
	changes changes
}

func NewAdminUserController(repo repository.AdminUserRepo, pub realtime.Publisher) *AdminUserController {
	return &AdminUserController{
		Repo:    repo,
		changes: changes{pub: pub, entity: "admin_user"},
	}
}

func (ac *AdminUserController) GetAdminUsers(c *fiber.Ctx) error {
	users, err := ac.Repo.List(c.UserContext())
	if err != nil {
		return repoError(c, "Admin user", "Failed to fetch admin users", err)
	}
	return c.JSON(users)
}

func (ac *AdminUserController) GetAdminUser(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Admin user")
	if !ok {
		return err
	}
	user, err := ac.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return repoError(c, "Admin user", "Failed to fetch admin user", err)
	}
	return c.JSON(user)
}

func (ac *AdminUserController) CreateAdminUser(c *fiber.Ctx) error {
	var req CreateAdminUserRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create admin user", err)
	}

	user := models.AdminUser{
		Username:     trim(req.Username),
		PasswordHash: hash,
		Email:        trim(req.Email),
		Role:         roleOrDefault(req.Role),
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := ac.Repo.Create(c.UserContext(), &user); err != nil {
		return repoError(c, "Admin user", "Failed to create admin user", err)
	}

	utils.LogEvent("admin_user_created", map[string]interface{}{
		"admin_user_id": user.ID,
		"username":      user.Username,
		"role":          user.Role,
	})
	ac.changes.emit(realtime.ActionCreate, user.ID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateAdminUser keeps the stored password when the request leaves it empty
// or sends the "unchanged" placeholder.
func (ac *AdminUserController) UpdateAdminUser(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Admin user")
	if !ok {
		return err
	}
	var req UpdateAdminUserRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	// The admin form leaves isActive out, so an absent flag keeps the stored one.
	current, err := ac.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return repoError(c, "Admin user", "Failed to update admin user", err)
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := models.AdminUser{
		Model:    models.Model{ID: id},
		Username: trim(req.Username),
		Email:    trim(req.Email),
		Role:     roleOrDefault(req.Role),
		IsActive: isActive,
	}

	withPassword := req.Password != "" && req.Password != passwordUnchanged
	if withPassword {
		if len(req.Password) < 6 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "password must be at least 6 characters", nil)
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update admin user", err)
		}
		user.PasswordHash = hash
	}

	if err := ac.Repo.Update(c.UserContext(), &user, withPassword); err != nil {
		return repoError(c, "Admin user", "Failed to update admin user", err)
	}

	ac.changes.emit(realtime.ActionUpdate, id)
	return c.JSON(user)
}

func (ac *AdminUserController) DeleteAdminUser(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Admin user")
	if !ok {
		return err
	}
	if err := ac.Repo.Delete(c.UserContext(), id); err != nil {
		return repoError(c, "Admin user", "Failed to delete admin user", err)
	}

	ac.changes.emit(realtime.ActionDelete, id)
	return deleted(c, "Admin user")
}

func roleOrDefault(role string) string {
	if role == "" {
		return models.AdminRoleMember
	}
	return role
}
