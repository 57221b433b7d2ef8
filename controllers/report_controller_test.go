package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"projecttracker/reports"
	"projecttracker/testutil"
)

func TestReports_Summary(t *testing.T) {
	env := newTestEnv(t)
	ann, apollo := seedPair(t, env)
	bob := testutil.NewTestMember("Bob")
	env.store.Seed(t, bob)
	env.store.Seed(t,
		testutil.NewTestAllocation(ann, apollo, "60"),
		testutil.NewTestAllocation(bob, apollo, "25"),
	)

	var members []reports.MemberMonth
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/reports/summary", nil, &members))
	require.Len(t, members, 2)
	assert.Equal(t, "Ann", members[0].EmployeeName)
	assert.Equal(t, reports.StatusUnder, members[0].Status)

	var projects []reports.ProjectMonth
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/reports/summary?view=project", nil, &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "85", projects[0].TotalPercentage.String())
	assert.Len(t, projects[0].Members, 2)

	var months []reports.MonthSummary
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/reports/summary?view=monthly&year=2025", nil, &months))
	require.Len(t, months, 1)
	assert.Equal(t, 2, months[0].MemberCount)
	assert.Equal(t, 1, months[0].ProjectCount)
}

func TestReports_UnknownView(t *testing.T) {
	env := newTestEnv(t)

	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/reports/summary?view=weekly", nil, &body))
	assert.Equal(t, reports.ErrUnknownView.Error(), body["error"])
}
