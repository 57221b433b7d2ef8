package repository

import (
	"context"

	"gorm.io/gorm"
	"projecttracker/models"
)

// GormProjectRepo implements ProjectRepo on Postgres.
type GormProjectRepo struct {
	db *gorm.DB
}

func NewGormProjectRepo(db *gorm.DB) *GormProjectRepo {
	return &GormProjectRepo{db: db}
}

func (r *GormProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, translate("listing projects", err)
	}
	return projects, nil
}

func (r *GormProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate("fetching project", err)
	}
	return &p, nil
}

func (r *GormProjectRepo) Create(ctx context.Context, p *models.Project) error {
	return translate("inserting project", r.db.WithContext(ctx).Create(p).Error)
}

func (r *GormProjectRepo) Update(ctx context.Context, p *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":        p.Name,
			"client":      p.Client,
			"start_date":  p.StartDate,
			"end_date":    p.EndDate,
			"status":      p.Status,
			"priority":    p.Priority,
			"description": p.Description,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&models.Allocation{}).
			Where("project_id = ?", p.ID).
			Update("project_name", p.Name).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", p.ID).First(p).Error
	})
	return translate("updating project", err)
}

func (r *GormProjectRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("project_id = ?", id).Delete(&models.Allocation{}).Error
	})
	return translate("deleting project", err)
}
