package models

const (
	ProjectPlanning  = "Planning"
	ProjectActive    = "Active"
	ProjectOnHold    = "On Hold"
	ProjectCompleted = "Completed"
	ProjectCancelled = "Cancelled"
)

const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

var (
	projectStatuses   = []string{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled}
	projectPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
)

// Project is a client engagement that team members are allocated to.
type Project struct {
	Model
	Name        string `gorm:"not null" json:"name"`
	Client      string `json:"client"`
	StartDate   Date   `json:"startDate"`
	EndDate     *Date  `json:"endDate"`
	Status      string `gorm:"not null" json:"status"`
	Priority    string `gorm:"not null" json:"priority"`
	Description string `json:"description"`
}

func IsValidProjectStatus(s string) bool {
	return contains(projectStatuses, s)
}

func IsValidProjectPriority(s string) bool {
	return contains(projectPriorities, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
