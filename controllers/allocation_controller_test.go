package controller

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"projecttracker/models"
	"projecttracker/reports"
	"projecttracker/testutil"
)

func seedPair(t *testing.T, env *testEnv) (*models.TeamMember, *models.Project) {
	t.Helper()
	member := testutil.NewTestMember("Ann")
	project := testutil.NewTestProject("Apollo")
	env.store.Seed(t, member, project)
	return member, project
}

func TestAllocations_CreateDenormalizesNames(t *testing.T) {
	env := newTestEnv(t)
	member, project := seedPair(t, env)

	var created models.Allocation
	status := env.do(t, http.MethodPost, "/allocations", map[string]interface{}{
		"userId":       member.ID,
		"projectId":    project.ID,
		"employeeName": "stale name",
		"month":        "March",
		"year":         2025,
		"percentage":   "33.335",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Ann", created.EmployeeName)
	assert.Equal(t, "Apollo", created.ProjectName)
	assert.True(t, created.Percentage.Equal(decimal.RequireFromString("33.34")), created.Percentage.String())
}

func TestAllocations_CreateFallsBackToRequestNames(t *testing.T) {
	env := newTestEnv(t)

	var created models.Allocation
	status := env.do(t, http.MethodPost, "/allocations", `{
		"userId": "`+missingID+`",
		"projectId": "`+missingID+`",
		"employeeName": "Legacy Person",
		"projectName": "Legacy Project",
		"month": "July",
		"year": 2024,
		"percentage": 25
	}`, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Legacy Person", created.EmployeeName)
	assert.Equal(t, "Legacy Project", created.ProjectName)
	assert.True(t, created.Percentage.Equal(decimal.NewFromInt(25)))
}

func TestAllocations_Validation(t *testing.T) {
	env := newTestEnv(t)
	member, project := seedPair(t, env)

	valid := func() map[string]interface{} {
		return map[string]interface{}{
			"userId":     member.ID,
			"projectId":  project.ID,
			"month":      "March",
			"year":       2025,
			"percentage": 50,
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		want   string
	}{
		{"percentage above 100", func(b map[string]interface{}) { b["percentage"] = 100.5 }, "percentage must be between 0 and 100"},
		{"negative percentage", func(b map[string]interface{}) { b["percentage"] = -1 }, "percentage must be between 0 and 100"},
		{"missing percentage", func(b map[string]interface{}) { delete(b, "percentage") }, ""},
		{"abbreviated month", func(b map[string]interface{}) { b["month"] = "Mar" }, ""},
		{"missing user", func(b map[string]interface{}) { delete(b, "userId") }, ""},
		{"user id not a uuid", func(b map[string]interface{}) { b["userId"] = "7" }, ""},
		{"unknown member without name", func(b map[string]interface{}) { b["userId"] = missingID }, "employeeName is required when userId matches no team member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.mutate(body)
			var resp map[string]string
			assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/allocations", body, &resp))
			if tt.want != "" {
				assert.Equal(t, tt.want, resp["error"])
			}
		})
	}
}

func TestAllocations_ListFiltersAndOrder(t *testing.T) {
	env := newTestEnv(t)
	member, project := seedPair(t, env)
	first := testutil.NewTestAllocation(member, project, "10")
	second := testutil.NewTestAllocation(member, project, "20", testutil.WithPeriod("April", 2025))
	third := testutil.NewTestAllocation(member, project, "30", testutil.WithPeriod("March", 2024))
	env.store.Seed(t, first, second, third)

	var all []models.Allocation
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/allocations", nil, &all))
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, third.ID, all[2].ID)

	var march []models.Allocation
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/allocations?month=March&year=2025", nil, &march))
	require.Len(t, march, 1)
	assert.Equal(t, first.ID, march[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/allocations?year=twenty", nil, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/allocations?month=Smarch", nil, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/allocations?userId=1", nil, nil))
}

func TestAllocations_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	member, project := seedPair(t, env)
	alloc := testutil.NewTestAllocation(member, project, "40")
	env.store.Seed(t, alloc)

	var updated models.Allocation
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/allocations/"+alloc.ID, map[string]interface{}{
		"userId":     member.ID,
		"projectId":  project.ID,
		"month":      "May",
		"year":       2025,
		"percentage": 60,
	}, &updated))
	assert.Equal(t, alloc.ID, updated.ID)
	assert.Equal(t, "May", updated.Month)
	assert.Equal(t, "60", updated.Percentage.String())

	var msg map[string]string
	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/allocations/"+alloc.ID, nil, &msg))
	assert.Equal(t, "Allocation deleted successfully", msg["message"])

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/allocations/"+alloc.ID, nil, &body))
	assert.Equal(t, "Allocation not found", body["error"])
}

func TestAllocations_OverAllocated(t *testing.T) {
	env := newTestEnv(t)
	ann, apollo := seedPair(t, env)
	bob := testutil.NewTestMember("Bob")
	gemini := testutil.NewTestProject("Gemini")
	env.store.Seed(t, bob, gemini)
	env.store.Seed(t,
		testutil.NewTestAllocation(ann, apollo, "60"),
		testutil.NewTestAllocation(ann, gemini, "40.5"),
		testutil.NewTestAllocation(ann, apollo, "90", testutil.WithPeriod("April", 2025)),
		testutil.NewTestAllocation(bob, apollo, "50"),
		testutil.NewTestAllocation(bob, gemini, "50"),
	)

	var over []reports.MemberMonth
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/allocations/over-allocated", nil, &over))
	require.Len(t, over, 1)
	assert.Equal(t, "Ann", over[0].EmployeeName)
	assert.Equal(t, "March", over[0].Month)
	assert.Equal(t, "100.5", over[0].TotalPercentage.String())
	assert.Equal(t, reports.StatusOver, over[0].Status)

	var none []reports.MemberMonth
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/allocations/over-allocated?month=April", nil, &none))
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAllocations_RoundsBeforeRangeCheck(t *testing.T) {
	env := newTestEnv(t)
	member, project := seedPair(t, env)

	body := func(pct string) string {
		return `{"userId":"` + member.ID + `","projectId":"` + project.ID + `","month":"June","year":2025,"percentage":` + pct + `}`
	}

	var created models.Allocation
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/allocations", body("100.004"), &created))
	assert.True(t, created.Percentage.Equal(decimal.NewFromInt(100)), created.Percentage.String())

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/allocations", body("-0.004"), &created))
	assert.True(t, created.Percentage.IsZero(), created.Percentage.String())

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/allocations", body("100.005"), nil))
}
