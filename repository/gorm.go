package repository

import (
	"context"

	"gorm.io/gorm"
)

// NewGormRepositories wires every store onto one GORM handle.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		TeamMembers: NewGormTeamMemberRepo(db),
		Projects:    NewGormProjectRepo(db),
		Roles:       NewGormRoleRepo(db),
		Allocations: NewGormAllocationRepo(db),
		AdminUsers:  NewGormAdminUserRepo(db),
		Health:      &gormPinger{db: db},
	}
}

type gormPinger struct {
	db *gorm.DB
}

func (p *gormPinger) Ping(ctx context.Context) error {
	return p.db.WithContext(ctx).Exec("SELECT 1").Error
}
