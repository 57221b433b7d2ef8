package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"projecttracker/models"
	"projecttracker/repository"
	"projecttracker/utils"
)

const (
	claimsKey = "claims"
	userKey   = "user"
)

// Auth gates routes behind session tokens. When disabled every handler it
// returns passes requests straight through.
type Auth struct {
	enabled bool
	secret  string
	users   repository.AdminUserRepo
}

func NewAuth(enabled bool, secret string, users repository.AdminUserRepo) *Auth {
	return &Auth{enabled: enabled, secret: secret, users: users}
}

func (a *Auth) Enabled() bool {
	return a.enabled
}

// Authenticated requires a valid Bearer token for an account that still exists
// and is active. The stored account and the token claims go on the context.
func (a *Auth) Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !a.enabled {
			return c.Next()
		}

		var token string
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid authorization format",
				})
			}
			token = tokenParts[1]
		} else if websocket.IsWebSocketUpgrade(c) {
			// Browsers cannot set headers on a websocket handshake.
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization required",
			})
		}

		claims, err := utils.ParseSessionToken(token, a.secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		user, err := a.users.GetByID(c.UserContext(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to verify session", err)
		}

		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is not active",
			})
		}

		c.Locals(claimsKey, claims)
		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireRole admits only accounts whose current role is listed. Run it after Authenticated.
func (a *Auth) RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if !a.enabled {
			return c.Next()
		}

		user, ok := UserFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization required",
			})
		}
		if _, ok := allowed[user.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}
		return c.Next()
	}
}

// ClaimsFrom returns the session claims Authenticated stored, if any.
func ClaimsFrom(c *fiber.Ctx) (*utils.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*utils.Claims)
	return claims, ok && claims != nil
}

// UserFrom returns the account Authenticated loaded, if any.
func UserFrom(c *fiber.Ctx) (*models.AdminUser, bool) {
	user, ok := c.Locals(userKey).(*models.AdminUser)
	return user, ok && user != nil
}
