package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"projecttracker/models"
)

func NewTestMember(name string) *models.TeamMember {
	return &models.TeamMember{
		Name:       name,
		Role:       "Engineer",
		Email:      "",
		Department: "Engineering",
		Status:     models.MemberStatusActive,
	}
}

func NewTestProject(name string) *models.Project {
	return &models.Project{
		Name:      name,
		Client:    "Acme",
		StartDate: models.NewDate(2025, time.January, 1),
		Status:    models.ProjectActive,
		Priority:  models.PriorityMedium,
	}
}

// Allocation options
type AllocationOption func(*models.Allocation)

func WithPeriod(month string, year int) AllocationOption {
	return func(a *models.Allocation) {
		a.Month = month
		a.Year = year
	}
}

func NewTestAllocation(member *models.TeamMember, project *models.Project, pct string, opts ...AllocationOption) *models.Allocation {
	a := &models.Allocation{
		UserID:       member.ID,
		ProjectID:    project.ID,
		EmployeeName: member.Name,
		ProjectName:  project.Name,
		Month:        "March",
		Year:         2025,
		Percentage:   decimal.RequireFromString(pct),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewTestAdmin hashes password at the minimum bcrypt cost to keep tests fast.
func NewTestAdmin(t *testing.T, username, password, role string) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}
	return &models.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
}

// Seed stores every fixture in order, failing the test on the first error.
func (s *MemStore) Seed(t *testing.T, fixtures ...interface{}) {
	t.Helper()
	repos := s.Repositories()
	ctx := context.Background()

	for _, f := range fixtures {
		var err error
		switch v := f.(type) {
		case *models.TeamMember:
			err = repos.TeamMembers.Create(ctx, v)
		case *models.Project:
			err = repos.Projects.Create(ctx, v)
		case *models.Role:
			err = repos.Roles.Create(ctx, v)
		case *models.Allocation:
			err = repos.Allocations.Create(ctx, v)
		case *models.AdminUser:
			err = repos.AdminUsers.Create(ctx, v)
		default:
			t.Fatalf("cannot seed %T", f)
		}
		if err != nil {
			t.Fatalf("seeding %T: %v", f, err)
		}
	}
}
