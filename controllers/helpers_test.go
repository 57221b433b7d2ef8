package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"projecttracker/realtime"
	"projecttracker/testutil"
)

const (
	missingID  = "3f1c7a52-0000-4000-8000-000000000000"
	testSecret = "test-session-secret"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(e realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Event(nil), p.events...)
}

type testEnv struct {
	app   *fiber.App
	store *testutil.MemStore
	pub   *recordingPublisher
}

// newTestEnv mounts every controller on a bare app backed by an in-memory store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewMemStore()
	repos := store.Repositories()
	pub := &recordingPublisher{}
	app := fiber.New()

	members := NewTeamMemberController(repos.TeamMembers, pub)
	app.Get("/team-members", members.GetTeamMembers)
	app.Post("/team-members", members.CreateTeamMember)
	app.Get("/team-members/:id", members.GetTeamMember)
	app.Put("/team-members/:id", members.UpdateTeamMember)
	app.Delete("/team-members/:id", members.DeleteTeamMember)

	projects := NewProjectController(repos.Projects, pub)
	app.Get("/projects", projects.GetProjects)
	app.Post("/projects", projects.CreateProject)
	app.Get("/projects/:id", projects.GetProject)
	app.Put("/projects/:id", projects.UpdateProject)
	app.Delete("/projects/:id", projects.DeleteProject)

	roles := NewRoleController(repos.Roles, pub)
	app.Get("/roles", roles.GetRoles)
	app.Post("/roles", roles.CreateRole)
	app.Get("/roles/:id", roles.GetRole)
	app.Put("/roles/:id", roles.UpdateRole)
	app.Delete("/roles/:id", roles.DeleteRole)

	allocations := NewAllocationController(repos, pub)
	app.Get("/allocations", allocations.GetAllocations)
	app.Post("/allocations", allocations.CreateAllocation)
	app.Get("/allocations/over-allocated", allocations.GetOverAllocated)
	app.Get("/allocations/:id", allocations.GetAllocation)
	app.Put("/allocations/:id", allocations.UpdateAllocation)
	app.Delete("/allocations/:id", allocations.DeleteAllocation)

	app.Get("/reports/summary", NewReportController(repos.Allocations).GetSummary)

	admins := NewAdminUserController(repos.AdminUsers, pub)
	app.Get("/admin-users", admins.GetAdminUsers)
	app.Post("/admin-users", admins.CreateAdminUser)
	app.Get("/admin-users/:id", admins.GetAdminUser)
	app.Put("/admin-users/:id", admins.UpdateAdminUser)
	app.Delete("/admin-users/:id", admins.DeleteAdminUser)

	auth := NewAuthController(repos.AdminUsers, testSecret, time.Hour)
	app.Post("/auth/login", auth.Login)

	health := NewHealthController(repos.Health, "test")
	app.Get("/", health.Root)
	app.Get("/health", health.Health)

	return &testEnv{app: app, store: store, pub: pub}
}

// do sends body (marshalled unless it is already a string) and decodes the JSON reply into out.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	return doRequest(t, e.app, method, path, body, out)
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp.StatusCode
}
