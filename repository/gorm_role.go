package repository

import (
	"context"

	"gorm.io/gorm"
	"projecttracker/models"
)

// GormRoleRepo implements RoleRepo on Postgres.
type GormRoleRepo struct {
	db *gorm.DB
}

func NewGormRoleRepo(db *gorm.DB) *GormRoleRepo {
	return &GormRoleRepo{db: db}
}

func (r *GormRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, translate("listing roles", err)
	}
	return roles, nil
}

func (r *GormRoleRepo) GetByID(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		return nil, translate("fetching role", err)
	}
	return &role, nil
}

func (r *GormRoleRepo) Create(ctx context.Context, role *models.Role) error {
	return translate("inserting role", r.db.WithContext(ctx).Create(role).Error)
}

func (r *GormRoleRepo) Update(ctx context.Context, role *models.Role) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Role
		if err := tx.Where("id = ?", role.ID).First(&current).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Role{}).Where("id = ?", role.ID).Updates(map[string]interface{}{
			"name":        role.Name,
			"department":  role.Department,
			"description": role.Description,
		}).Error; err != nil {
			return err
		}

		// Members hold a copy of the name, so a rename has to follow them.
		if current.Name != role.Name {
			if err := tx.Model(&models.TeamMember{}).
				Where("role = ?", current.Name).
				Update("role", role.Name).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", role.ID).First(role).Error
	})
	return translate("updating role", err)
}

func (r *GormRoleRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("id = ?", id).First(&role).Error; err != nil {
			return err
		}

		var members int64
		if err := tx.Model(&models.TeamMember{}).Where("role = ?", role.Name).Count(&members).Error; err != nil {
			return err
		}
		if members > 0 {
			return &RoleInUseError{Name: role.Name, Members: members}
		}

		return tx.Where("id = ?", id).Delete(&models.Role{}).Error
	})
	return translate("deleting role", err)
}
