package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"projecttracker/models"
)

// GormAdminUserRepo implements AdminUserRepo on Postgres.
type GormAdminUserRepo struct {
	db *gorm.DB
}

func NewGormAdminUserRepo(db *gorm.DB) *GormAdminUserRepo {
	return &GormAdminUserRepo{db: db}
}

func (r *GormAdminUserRepo) List(ctx context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translate("listing admin users", err)
	}
	return users, nil
}

func (r *GormAdminUserRepo) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate("fetching admin user", err)
	}
	return &u, nil
}

func (r *GormAdminUserRepo) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate("fetching admin user by username", err)
	}
	return &u, nil
}

func (r *GormAdminUserRepo) Create(ctx context.Context, u *models.AdminUser) error {
	return translate("inserting admin user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *GormAdminUserRepo) Update(ctx context.Context, u *models.AdminUser, withPassword bool) error {
	updates := map[string]interface{}{
		"username":  u.Username,
		"email":     u.Email,
		"role":      u.Role,
		"is_active": u.IsActive,
	}
	if withPassword {
		updates["password"] = u.PasswordHash
	}

	db := r.db.WithContext(ctx)
	res := db.Model(&models.AdminUser{}).Where("id = ?", u.ID).Updates(updates)
	if res.Error != nil {
		return translate("updating admin user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return translate("reloading admin user", db.Where("id = ?", u.ID).First(u).Error)
}

func (r *GormAdminUserRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return translate("setting admin password", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAdminUserRepo) RecordLogin(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("last_login", time.Now().UTC()).Error
	return translate("recording login", err)
}

func (r *GormAdminUserRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminUser{})
	if res.Error != nil {
		return translate("deleting admin user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAdminUserRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.AdminUser{})
	if res.Error != nil {
		return 0, translate("deleting admin users", res.Error)
	}
	return res.RowsAffected, nil
}
