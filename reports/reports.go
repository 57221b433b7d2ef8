// Package reports aggregates allocations into per-person, per-project and
// per-month totals. Nothing here writes or rejects data.
package reports

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"projecttracker/models"
)

const (
	StatusOver  = "over"
	StatusFull  = "full"
	StatusUnder = "under"
)

const (
	ViewMember  = "member"
	ViewProject = "project"
	ViewMonthly = "monthly"
)

var ErrUnknownView = errors.New("view must be member, project or monthly")

// MemberMonth is one person's total for one month with a per-project breakdown.
type MemberMonth struct {
	EmployeeName    string                     `json:"employeeName"`
	Month           string                     `json:"month"`
	Year            int                        `json:"year"`
	TotalPercentage decimal.Decimal            `json:"totalPercentage"`
	Status          string                     `json:"status"`
	Projects        map[string]decimal.Decimal `json:"projects"`
}

// ProjectMonth is one project's total for one month with a per-member breakdown.
type ProjectMonth struct {
	ProjectName     string                     `json:"projectName"`
	Month           string                     `json:"month"`
	Year            int                        `json:"year"`
	TotalPercentage decimal.Decimal            `json:"totalPercentage"`
	Members         map[string]decimal.Decimal `json:"members"`
}

// MonthSummary rolls up every allocation in one month.
type MonthSummary struct {
	Month           string                     `json:"month"`
	Year            int                        `json:"year"`
	TotalPercentage decimal.Decimal            `json:"totalPercentage"`
	MemberCount     int                        `json:"memberCount"`
	ProjectCount    int                        `json:"projectCount"`
	Members         map[string]decimal.Decimal `json:"members"`
	Projects        map[string]decimal.Decimal `json:"projects"`
}

// RoundPercentage rounds to two decimal places, half away from zero.
func RoundPercentage(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// StatusOf classifies a rounded monthly total against 100%.
func StatusOf(total decimal.Decimal) string {
	switch RoundPercentage(total).Cmp(models.MaxPercentage) {
	case 1:
		return StatusOver
	case 0:
		return StatusFull
	default:
		return StatusUnder
	}
}

type periodKey struct {
	name  string
	month string
	year  int
}

// MemberMonthTotals groups allocations by (employeeName, month, year). Sums are
// exact; only the reported totals are rounded.
func MemberMonthTotals(allocations []models.Allocation) []MemberMonth {
	groups := make(map[periodKey]*MemberMonth)
	for _, a := range allocations {
		k := periodKey{name: a.EmployeeName, month: a.Month, year: a.Year}
		g, ok := groups[k]
		if !ok {
			g = &MemberMonth{
				EmployeeName: a.EmployeeName,
				Month:        a.Month,
				Year:         a.Year,
				Projects:     make(map[string]decimal.Decimal),
			}
			groups[k] = g
		}
		g.TotalPercentage = g.TotalPercentage.Add(a.Percentage)
		g.Projects[a.ProjectName] = g.Projects[a.ProjectName].Add(a.Percentage)
	}

	out := make([]MemberMonth, 0, len(groups))
	for _, g := range groups {
		g.TotalPercentage = RoundPercentage(g.TotalPercentage)
		g.Status = StatusOf(g.TotalPercentage)
		roundAll(g.Projects)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return nameThenPeriodLess(out[i].EmployeeName, out[i].Year, out[i].Month, out[j].EmployeeName, out[j].Year, out[j].Month)
	})
	return out
}

// FindOverAllocated returns the person-months whose rounded total exceeds 100.
func FindOverAllocated(allocations []models.Allocation) []MemberMonth {
	var over []MemberMonth
	for _, g := range MemberMonthTotals(allocations) {
		if g.Status == StatusOver {
			over = append(over, g)
		}
	}
	return over
}

func ProjectMonthTotals(allocations []models.Allocation) []ProjectMonth {
	groups := make(map[periodKey]*ProjectMonth)
	for _, a := range allocations {
		k := periodKey{name: a.ProjectName, month: a.Month, year: a.Year}
		g, ok := groups[k]
		if !ok {
			g = &ProjectMonth{
				ProjectName: a.ProjectName,
				Month:       a.Month,
				Year:        a.Year,
				Members:     make(map[string]decimal.Decimal),
			}
			groups[k] = g
		}
		g.TotalPercentage = g.TotalPercentage.Add(a.Percentage)
		g.Members[a.EmployeeName] = g.Members[a.EmployeeName].Add(a.Percentage)
	}

	out := make([]ProjectMonth, 0, len(groups))
	for _, g := range groups {
		g.TotalPercentage = RoundPercentage(g.TotalPercentage)
		roundAll(g.Members)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return nameThenPeriodLess(out[i].ProjectName, out[i].Year, out[i].Month, out[j].ProjectName, out[j].Year, out[j].Month)
	})
	return out
}

func MonthSummaries(allocations []models.Allocation) []MonthSummary {
	groups := make(map[periodKey]*MonthSummary)
	for _, a := range allocations {
		k := periodKey{month: a.Month, year: a.Year}
		g, ok := groups[k]
		if !ok {
			g = &MonthSummary{
				Month:    a.Month,
				Year:     a.Year,
				Members:  make(map[string]decimal.Decimal),
				Projects: make(map[string]decimal.Decimal),
			}
			groups[k] = g
		}
		g.TotalPercentage = g.TotalPercentage.Add(a.Percentage)
		g.Members[a.EmployeeName] = g.Members[a.EmployeeName].Add(a.Percentage)
		g.Projects[a.ProjectName] = g.Projects[a.ProjectName].Add(a.Percentage)
	}

	out := make([]MonthSummary, 0, len(groups))
	for _, g := range groups {
		g.TotalPercentage = RoundPercentage(g.TotalPercentage)
		g.MemberCount = len(g.Members)
		g.ProjectCount = len(g.Projects)
		roundAll(g.Members)
		roundAll(g.Projects)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return periodLess(out[i].Year, out[i].Month, out[j].Year, out[j].Month)
	})
	return out
}

// Summary builds the report for view.
func Summary(view string, allocations []models.Allocation) (interface{}, error) {
	switch view {
	case ViewMember, "":
		return MemberMonthTotals(allocations), nil
	case ViewProject:
		return ProjectMonthTotals(allocations), nil
	case ViewMonthly:
		return MonthSummaries(allocations), nil
	default:
		return nil, ErrUnknownView
	}
}

func roundAll(m map[string]decimal.Decimal) {
	for k, v := range m {
		m[k] = RoundPercentage(v)
	}
}

func periodLess(y1 int, m1 string, y2 int, m2 string) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return models.MonthIndex(m1) < models.MonthIndex(m2)
}

func nameThenPeriodLess(n1 string, y1 int, m1 string, n2 string, y2 int, m2 string) bool {
	if c := strings.Compare(n1, n2); c != 0 {
		return c < 0
	}
	return periodLess(y1, m1, y2, m2)
}
