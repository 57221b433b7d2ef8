package repository

import (
	"context"

	"projecttracker/models"
)

// AllocationFilter narrows an allocation listing. Zero fields match everything.
type AllocationFilter struct {
	Month     string
	Year      int
	UserID    string
	ProjectID string
}

type TeamMemberRepo interface {
	List(ctx context.Context) ([]models.TeamMember, error)
	GetByID(ctx context.Context, id string) (*models.TeamMember, error)
	Create(ctx context.Context, m *models.TeamMember) error
	// Update also rewrites the member's name on their allocations.
	Update(ctx context.Context, m *models.TeamMember) error
	// Delete removes the member and their allocations.
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	List(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	// Update also rewrites the project's name on its allocations.
	Update(ctx context.Context, p *models.Project) error
	// Delete removes the project and its allocations.
	Delete(ctx context.Context, id string) error
}

type RoleRepo interface {
	List(ctx context.Context) ([]models.Role, error)
	GetByID(ctx context.Context, id string) (*models.Role, error)
	Create(ctx context.Context, r *models.Role) error
	// Update renames the role on every team member holding the old name.
	Update(ctx context.Context, r *models.Role) error
	// Delete fails with *RoleInUseError while members hold the role.
	Delete(ctx context.Context, id string) error
}

type AllocationRepo interface {
	List(ctx context.Context, f AllocationFilter) ([]models.Allocation, error)
	GetByID(ctx context.Context, id string) (*models.Allocation, error)
	Create(ctx context.Context, a *models.Allocation) error
	Update(ctx context.Context, a *models.Allocation) error
	Delete(ctx context.Context, id string) error
}

type AdminUserRepo interface {
	List(ctx context.Context) ([]models.AdminUser, error)
	GetByID(ctx context.Context, id string) (*models.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Create(ctx context.Context, u *models.AdminUser) error
	// Update writes profile fields; the password column changes only when withPassword is set.
	Update(ctx context.Context, u *models.AdminUser, withPassword bool) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	RecordLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repositories bundles the stores the HTTP layer and CLI depend on.
type Repositories struct {
	TeamMembers TeamMemberRepo
	Projects    ProjectRepo
	Roles       RoleRepo
	Allocations AllocationRepo
	AdminUsers  AdminUserRepo
	Health      Pinger
}
