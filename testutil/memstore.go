package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"projecttracker/models"
	"projecttracker/repository"
)

// MemStore is an in-memory stand-in for the Postgres repositories. It keeps the
// same ordering, cascade and rename rules so handlers can be tested without a database.
type MemStore struct {
	mu          sync.Mutex
	clock       time.Time
	members     map[string]models.TeamMember
	projects    map[string]models.Project
	roles       map[string]models.Role
	allocations map[string]models.Allocation
	admins      map[string]models.AdminUser

	// Err, when set, is returned by every repository call.
	Err error
	// PingErr is returned by the health check.
	PingErr error
}

func NewMemStore() *MemStore {
	return &MemStore{
		clock:       time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC),
		members:     make(map[string]models.TeamMember),
		projects:    make(map[string]models.Project),
		roles:       make(map[string]models.Role),
		allocations: make(map[string]models.Allocation),
		admins:      make(map[string]models.AdminUser),
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *MemStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		TeamMembers: memberRepo{s},
		Projects:    projectRepo{s},
		Roles:       roleRepo{s},
		Allocations: allocationRepo{s},
		AdminUsers:  adminRepo{s},
		Health:      pinger{s},
	}
}

// tick advances a fake clock so timestamps are strictly ordered.
func (s *MemStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *MemStore) stamp(m *models.Model) {
	now := s.tick()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.UpdatedAt = now
}

type pinger struct{ s *MemStore }

func (p pinger) Ping(context.Context) error {
	return p.s.PingErr
}

type memberRepo struct{ s *MemStore }

func (r memberRepo) List(context.Context) ([]models.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.TeamMember, 0, len(r.s.members))
	for _, m := range r.s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memberRepo) GetByID(_ context.Context, id string) (*models.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	m, ok := r.s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r memberRepo) Create(_ context.Context, m *models.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.stamp(&m.Model)
	r.s.members[m.ID] = *m
	return nil
}

func (r memberRepo) Update(_ context.Context, m *models.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.members[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	m.CreatedAt = cur.CreatedAt
	m.UpdatedAt = r.s.tick()
	r.s.members[m.ID] = *m

	for id, a := range r.s.allocations {
		if a.UserID == m.ID {
			a.EmployeeName = m.Name
			a.UpdatedAt = m.UpdatedAt
			r.s.allocations[id] = a
		}
	}
	return nil
}

func (r memberRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.members, id)
	for aid, a := range r.s.allocations {
		if a.UserID == id {
			delete(r.s.allocations, aid)
		}
	}
	return nil
}

type projectRepo struct{ s *MemStore }

func (r projectRepo) List(context.Context) ([]models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r projectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r projectRepo) Create(_ context.Context, p *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.stamp(&p.Model)
	r.s.projects[p.ID] = *p
	return nil
}

func (r projectRepo) Update(_ context.Context, p *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.projects[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = r.s.tick()
	r.s.projects[p.ID] = *p

	for id, a := range r.s.allocations {
		if a.ProjectID == p.ID {
			a.ProjectName = p.Name
			a.UpdatedAt = p.UpdatedAt
			r.s.allocations[id] = a
		}
	}
	return nil
}

func (r projectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.projects, id)
	for aid, a := range r.s.allocations {
		if a.ProjectID == id {
			delete(r.s.allocations, aid)
		}
	}
	return nil
}

type roleRepo struct{ s *MemStore }

func (r roleRepo) List(context.Context) ([]models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r roleRepo) GetByID(_ context.Context, id string) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	role, ok := r.s.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &role, nil
}

func (r roleRepo) Create(_ context.Context, role *models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.stamp(&role.Model)
	r.s.roles[role.ID] = *role
	return nil
}

func (r roleRepo) Update(_ context.Context, role *models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.roles[role.ID]
	if !ok {
		return repository.ErrNotFound
	}
	role.CreatedAt = cur.CreatedAt
	role.UpdatedAt = r.s.tick()
	r.s.roles[role.ID] = *role

	if cur.Name != role.Name {
		for id, m := range r.s.members {
			if m.Role == cur.Name {
				m.Role = role.Name
				m.UpdatedAt = role.UpdatedAt
				r.s.members[id] = m
			}
		}
	}
	return nil
}

func (r roleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	role, ok := r.s.roles[id]
	if !ok {
		return repository.ErrNotFound
	}
	var holders int64
	for _, m := range r.s.members {
		if m.Role == role.Name {
			holders++
		}
	}
	if holders > 0 {
		return &repository.RoleInUseError{Name: role.Name, Members: holders}
	}
	delete(r.s.roles, id)
	return nil
}

type allocationRepo struct{ s *MemStore }

func (r allocationRepo) List(_ context.Context, f repository.AllocationFilter) ([]models.Allocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Allocation, 0, len(r.s.allocations))
	for _, a := range r.s.allocations {
		if f.Month != "" && a.Month != f.Month {
			continue
		}
		if f.Year != 0 && a.Year != f.Year {
			continue
		}
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.ProjectID != "" && a.ProjectID != f.ProjectID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r allocationRepo) GetByID(_ context.Context, id string) (*models.Allocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	a, ok := r.s.allocations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r allocationRepo) Create(_ context.Context, a *models.Allocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.stamp(&a.Model)
	r.s.allocations[a.ID] = *a
	return nil
}

func (r allocationRepo) Update(_ context.Context, a *models.Allocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.allocations[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	a.CreatedAt = cur.CreatedAt
	a.UpdatedAt = r.s.tick()
	r.s.allocations[a.ID] = *a
	return nil
}

func (r allocationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.allocations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.allocations, id)
	return nil
}

type adminRepo struct{ s *MemStore }

func (r adminRepo) List(context.Context) ([]models.AdminUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.AdminUser, 0, len(r.s.admins))
	for _, u := range r.s.admins {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r adminRepo) GetByID(_ context.Context, id string) (*models.AdminUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r adminRepo) GetByUsername(_ context.Context, username string) (*models.AdminUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.admins {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r adminRepo) usernameTaken(username, exceptID string) bool {
	for id, u := range r.s.admins {
		if u.Username == username && id != exceptID {
			return true
		}
	}
	return false
}

func (r adminRepo) Create(_ context.Context, u *models.AdminUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.usernameTaken(u.Username, "") {
		return repository.ErrDuplicate
	}
	r.s.stamp(&u.Model)
	r.s.admins[u.ID] = *u
	return nil
}

func (r adminRepo) Update(_ context.Context, u *models.AdminUser, withPassword bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.admins[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.usernameTaken(u.Username, u.ID) {
		return repository.ErrDuplicate
	}
	if !withPassword {
		u.PasswordHash = cur.PasswordHash
	}
	u.LastLogin = cur.LastLogin
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.s.tick()
	r.s.admins[u.ID] = *u
	return nil
}

func (r adminRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	u, ok := r.s.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.tick()
	r.s.admins[id] = u
	return nil
}

func (r adminRepo) RecordLogin(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	u, ok := r.s.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := r.s.tick()
	u.LastLogin = &now
	r.s.admins[id] = u
	return nil
}

func (r adminRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.admins[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.admins, id)
	return nil
}

func (r adminRepo) DeleteAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	n := int64(len(r.s.admins))
	r.s.admins = make(map[string]models.AdminUser)
	return n, nil
}
