package models

// Role is a job title. Team members copy its name; renaming a role
// rewrites the copies.
type Role struct {
	Model
	Name        string `gorm:"not null" json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
}
