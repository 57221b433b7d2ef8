package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"projecttracker/models"
	"projecttracker/repository"
	"projecttracker/utils"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the user record, plus a session token when sessions are configured.
type LoginResponse struct {
	*models.AdminUser
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type AuthController struct {
	Users           repository.AdminUserRepo
	SessionSecret   string
	SessionDuration time.Duration

	checkPassword func(stored, password string) bool
}

func NewAuthController(users repository.AdminUserRepo, secret string, duration time.Duration) *AuthController {
	return &AuthController{
		Users:           users,
		SessionSecret:   secret,
		SessionDuration: duration,
		checkPassword:   utils.CheckPassword,
	}
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	user, err := ac.Users.GetByUsername(ctx, trim(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		// Spend a hash comparison anyway so response times do not reveal which usernames exist.
		ac.checkPassword(utils.DummyPasswordHash(), req.Password)
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", err)
	}

	if !ac.checkPassword(user.PasswordHash, req.Password) {
		utils.LogEvent("login_failed", map[string]interface{}{
			"username": user.Username,
			"ip":       c.IP(),
		})
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
	}

	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is not active", nil)
	}

	// Digests imported from the old store are replaced once the password is known.
	if utils.NeedsRehash(user.PasswordHash) {
		if hash, err := utils.HashPassword(req.Password); err == nil {
			if err := ac.Users.SetPassword(ctx, user.ID, hash); err != nil {
				utils.LogError("password_upgrade", err, map[string]interface{}{"admin_user_id": user.ID})
			}
		}
	}

	if err := ac.Users.RecordLogin(ctx, user.ID); err != nil {
		utils.LogError("record_login", err, map[string]interface{}{"admin_user_id": user.ID})
	} else {
		now := time.Now().UTC()
		user.LastLogin = &now
	}

	resp := LoginResponse{AdminUser: user}
	if ac.SessionSecret != "" {
		token, expiresAt, err := utils.GenerateSessionToken(user, ac.SessionSecret, ac.SessionDuration)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate session", err)
		}
		resp.Token = token
		resp.ExpiresAt = &expiresAt
	}

	utils.LogEvent("login_succeeded", map[string]interface{}{
		"admin_user_id": user.ID,
		"username":      user.Username,
		"role":          user.Role,
	})
	return c.JSON(resp)
}
