package routes

import (
	"time"

	controller "projecttracker/controllers"
	"projecttracker/metrics"
	"projecttracker/middleware"
	"projecttracker/models"
	"projecttracker/realtime"
	"projecttracker/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

// Options carries the settings routes need beyond the stores.
type Options struct {
	Version         string
	SessionSecret   string
	SessionDuration time.Duration
	LoginRateLimit  int
	RateLimitStore  fiber.Storage
	// RequestLog turns on per-request log lines.
	RequestLog bool
}

func SetupRoutes(app *fiber.App, repos *repository.Repositories, hub *realtime.Hub, auth *middleware.Auth, opts Options) {
	health := controller.NewHealthController(repos.Health, opts.Version)
	app.Get("/", health.Root)
	app.Get("/metrics", metrics.Handler())

	var api fiber.Router
	if opts.RequestLog {
		api = app.Group("/api", logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	} else {
		api = app.Group("/api")
	}

	// Public endpoints
	api.Get("/health", health.Health)
	authController := controller.NewAuthController(repos.AdminUsers, opts.SessionSecret, opts.SessionDuration)
	api.Post("/auth/login", middleware.LoginRateLimiter(opts.LoginRateLimit, opts.RateLimitStore), authController.Login)

	protected := api.Group("", auth.Authenticated())
	manage := auth.RequireRole(models.AdminRoleSuperAdmin, models.AdminRoleAdmin)

	setupEntityRoutes(protected, repos, hub, manage)

	reportController := controller.NewReportController(repos.Allocations)
	protected.Get("/reports/summary", reportController.GetSummary)

	adminController := controller.NewAdminUserController(repos.AdminUsers, hub)
	admins := protected.Group("/admin-users", auth.RequireRole(models.AdminRoleSuperAdmin))
	admins.Get("/", adminController.GetAdminUsers)
	admins.Post("/", adminController.CreateAdminUser)
	admins.Get("/:id", adminController.GetAdminUser)
	admins.Put("/:id", adminController.UpdateAdminUser)
	admins.Delete("/:id", adminController.DeleteAdminUser)

	// Change feed
	protected.Get("/ws/changes", realtime.RequireUpgrade(), hub.Handler())

	logrus.WithField("auth_required", auth.Enabled()).Info("API routes initialized")

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}

func setupEntityRoutes(api fiber.Router, repos *repository.Repositories, hub *realtime.Hub, manage fiber.Handler) {
	memberController := controller.NewTeamMemberController(repos.TeamMembers, hub)
	members := api.Group("/team-members")
	members.Get("/", memberController.GetTeamMembers)
	members.Post("/", manage, memberController.CreateTeamMember)
	members.Get("/:id", memberController.GetTeamMember)
	members.Put("/:id", manage, memberController.UpdateTeamMember)
	members.Delete("/:id", manage, memberController.DeleteTeamMember)

	projectController := controller.NewProjectController(repos.Projects, hub)
	projects := api.Group("/projects")
	projects.Get("/", projectController.GetProjects)
	projects.Post("/", manage, projectController.CreateProject)
	projects.Get("/:id", projectController.GetProject)
	projects.Put("/:id", manage, projectController.UpdateProject)
	projects.Delete("/:id", manage, projectController.DeleteProject)

	roleController := controller.NewRoleController(repos.Roles, hub)
	roles := api.Group("/roles")
	roles.Get("/", roleController.GetRoles)
	roles.Post("/", manage, roleController.CreateRole)
	roles.Get("/:id", roleController.GetRole)
	roles.Put("/:id", manage, roleController.UpdateRole)
	roles.Delete("/:id", manage, roleController.DeleteRole)

	allocationController := controller.NewAllocationController(repos, hub)
	allocations := api.Group("/allocations")
	allocations.Get("/", allocationController.GetAllocations)
	allocations.Post("/", manage, allocationController.CreateAllocation)
	// Registered before /:id so it is not read as an id.
	allocations.Get("/over-allocated", allocationController.GetOverAllocated)
	allocations.Get("/:id", allocationController.GetAllocation)
	allocations.Put("/:id", manage, allocationController.UpdateAllocation)
	allocations.Delete("/:id", manage, allocationController.DeleteAllocation)
}
