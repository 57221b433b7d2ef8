package repository

import (
	"context"

	"gorm.io/gorm"
	"projecttracker/models"
)

// GormTeamMemberRepo implements TeamMemberRepo on Postgres.
type GormTeamMemberRepo struct {
	db *gorm.DB
}

func NewGormTeamMemberRepo(db *gorm.DB) *GormTeamMemberRepo {
	return &GormTeamMemberRepo{db: db}
}

func (r *GormTeamMemberRepo) List(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&members).Error; err != nil {
		return nil, translate("listing team members", err)
	}
	return members, nil
}

func (r *GormTeamMemberRepo) GetByID(ctx context.Context, id string) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate("fetching team member", err)
	}
	return &m, nil
}

func (r *GormTeamMemberRepo) Create(ctx context.Context, m *models.TeamMember) error {
	return translate("inserting team member", r.db.WithContext(ctx).Create(m).Error)
}

func (r *GormTeamMemberRepo) Update(ctx context.Context, m *models.TeamMember) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TeamMember{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"name":       m.Name,
			"role":       m.Role,
			"email":      m.Email,
			"department": m.Department,
			"status":     m.Status,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&models.Allocation{}).
			Where("user_id = ?", m.ID).
			Update("employee_name", m.Name).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", m.ID).First(m).Error
	})
	return translate("updating team member", err)
}

func (r *GormTeamMemberRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.TeamMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("user_id = ?", id).Delete(&models.Allocation{}).Error
	})
	return translate("deleting team member", err)
}
