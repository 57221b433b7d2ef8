package models

import "time"

const (
	AdminRoleSuperAdmin = "super_admin"
	AdminRoleAdmin      = "admin"
	AdminRoleMember     = "member"
)

// AdminUser is an account that can sign in to the admin UI.
type AdminUser struct {
	Model
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password;not null" json:"-"`
	Email        string     `json:"email"`
	Role         string     `gorm:"not null" json:"role"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

func IsValidAdminRole(s string) bool {
	return s == AdminRoleSuperAdmin || s == AdminRoleAdmin || s == AdminRoleMember
}

// CanManageEntities reports whether the role may create, edit and delete tracker data.
func CanManageEntities(role string) bool {
	return role == AdminRoleSuperAdmin || role == AdminRoleAdmin
}
