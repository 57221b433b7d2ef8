package models

const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

// TeamMember is a person whose time is allocated to projects.
// Role holds a copy of a Role name, not a reference.
type TeamMember struct {
	Model
	Name       string `gorm:"not null" json:"name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Status     string `gorm:"not null" json:"status"`
}

func IsValidMemberStatus(s string) bool {
	return s == MemberStatusActive || s == MemberStatusInactive
}
