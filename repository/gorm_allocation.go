package repository

import (
	"context"

	"gorm.io/gorm"
	"projecttracker/models"
)

// GormAllocationRepo implements AllocationRepo on Postgres.
type GormAllocationRepo struct {
	db *gorm.DB
}

func NewGormAllocationRepo(db *gorm.DB) *GormAllocationRepo {
	return &GormAllocationRepo{db: db}
}

func (r *GormAllocationRepo) List(ctx context.Context, f AllocationFilter) ([]models.Allocation, error) {
	query := r.db.WithContext(ctx).Model(&models.Allocation{})
	if f.Month != "" {
		query = query.Where("month = ?", f.Month)
	}
	if f.Year != 0 {
		query = query.Where("year = ?", f.Year)
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.ProjectID != "" {
		query = query.Where("project_id = ?", f.ProjectID)
	}

	var allocations []models.Allocation
	if err := query.Order("updated_at ASC").Order("created_at ASC").Find(&allocations).Error; err != nil {
		return nil, translate("listing allocations", err)
	}
	return allocations, nil
}

func (r *GormAllocationRepo) GetByID(ctx context.Context, id string) (*models.Allocation, error) {
	var a models.Allocation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate("fetching allocation", err)
	}
	return &a, nil
}

func (r *GormAllocationRepo) Create(ctx context.Context, a *models.Allocation) error {
	return translate("inserting allocation", r.db.WithContext(ctx).Create(a).Error)
}

func (r *GormAllocationRepo) Update(ctx context.Context, a *models.Allocation) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Allocation{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"user_id":       a.UserID,
		"project_id":    a.ProjectID,
		"employee_name": a.EmployeeName,
		"project_name":  a.ProjectName,
		"month":         a.Month,
		"year":          a.Year,
		"percentage":    a.Percentage,
	})
	if res.Error != nil {
		return translate("updating allocation", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return translate("reloading allocation", db.Where("id = ?", a.ID).First(a).Error)
}

func (r *GormAllocationRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Allocation{})
	if res.Error != nil {
		return translate("deleting allocation", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
