package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxPercentage is the ceiling for a single allocation and for a person's monthly total.
var MaxPercentage = decimal.NewFromInt(100)

// Months lists month names in calendar order. Allocations store the name, not the number.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Allocation assigns a percentage of one member's month to one project.
// EmployeeName and ProjectName are copied from the member and project at write time.
type Allocation struct {
	Model
	UserID       string          `gorm:"type:uuid;index" json:"userId"`
	ProjectID    string          `gorm:"type:uuid;index" json:"projectId"`
	EmployeeName string          `json:"employeeName"`
	ProjectName  string          `json:"projectName"`
	Month        string          `gorm:"index:idx_allocations_period" json:"month"`
	Year         int             `gorm:"index:idx_allocations_period" json:"year"`
	Percentage   decimal.Decimal `gorm:"type:numeric(5,2)" json:"percentage"`
}

// MonthIndex returns the zero-based position of a month name, or -1.
func MonthIndex(name string) int {
	for i, m := range Months {
		if m == name {
			return i
		}
	}
	return -1
}

// MonthName returns the English name of m.
func MonthName(m time.Month) string {
	return Months[m-1]
}
