// Package memrepo keeps users, roles and permissions in process memory.
// It backs the "memory" storage driver and service tests.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
)

// Store is the shared in-memory backing for the three repositories.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*models.User
	roles       map[string]*models.Role
	permissions map[string]*models.Permission
	seq         int64
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]*models.User),
		roles:       make(map[string]*models.Role),
		permissions: make(map[string]*models.Permission),
		now:         time.Now,
	}
}

// Users returns the user repository view of s.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Roles() *RoleRepository { return &RoleRepository{s: s} }

func (s *Store) Permissions() *PermissionRepository { return &PermissionRepository{s: s} }

// stamp fills id and timestamps. Callers hold s.mu.
func (s *Store) stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = models.NewID()
	}
	now := s.now()
	s.seq++
	// Keep insertion order stable even when the clock does not move.
	*created = now.Add(time.Duration(s.seq))
	*updated = *created
}

type UserRepository struct{ s *Store }

var _ repos.IUserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return coreerrors.Newf(coreerrors.CodeAlreadyExists, "user %s already exists", user.Username)
		}
	}
	r.s.stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	cp := *user
	cp.RoleIDs = append([]string(nil), user.RoleIDs...)
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) Get(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, coreerrors.Newf(coreerrors.CodeNotFound, "user %s not found", id)
	}
	return copyUser(u), nil
}

func (r *UserRepository) FindByLogin(_ context.Context, login string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.sortedUsers() {
		if u.Email == login || u.Username == login {
			return copyUser(u), nil
		}
	}
	return nil, coreerrors.Newf(coreerrors.CodeNotFound, "user %s not found", login)
}

func (r *UserRepository) FindConflicts(_ context.Context, email, username string) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*models.User
	for _, u := range r.sortedUsers() {
		if u.Email == email || u.Username == username {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) SetRoles(_ context.Context, id string, roleIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return coreerrors.Newf(coreerrors.CodeNotFound, "user %s not found", id)
	}
	u.RoleIDs = append([]string(nil), roleIDs...)
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *UserRepository) sortedUsers() []*models.User {
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.RoleIDs = append([]string(nil), u.RoleIDs...)
	return &cp
}

type RoleRepository struct{ s *Store }

var _ repos.IRoleRepository = (*RoleRepository)(nil)

func (r *RoleRepository) Create(_ context.Context, role *models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if role.Status == "" {
		role.Status = models.StatusActive
	}
	if role.Status == models.StatusActive {
		for _, existing := range r.s.roles {
			if existing.Status == models.StatusActive && existing.Name == role.Name {
				return coreerrors.Newf(coreerrors.CodeAlreadyExists, "role %s already exists", role.Name)
			}
		}
	}
	r.s.stamp(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	r.s.roles[role.ID] = copyRole(role)
	return nil
}

func (r *RoleRepository) FindActiveByName(_ context.Context, name string) (*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.Status == models.StatusActive && role.Name == name {
			return copyRole(role), nil
		}
	}
	return nil, coreerrors.Newf(coreerrors.CodeNotFound, "role %s not found", name)
}

func (r *RoleRepository) List(_ context.Context, filter repos.RoleFilter) ([]*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*models.Role{}
	for _, role := range r.sorted() {
		if filter.Name != "" && role.Name != filter.Name {
			continue
		}
		if filter.Status != "" && role.Status != filter.Status {
			continue
		}
		out = append(out, copyRole(role))
	}
	return out, nil
}

func (r *RoleRepository) ListByIDs(_ context.Context, ids []string, status models.Status) ([]*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []*models.Role{}
	for _, role := range r.sorted() {
		if want[role.ID] && (status == "" || role.Status == status) {
			out = append(out, copyRole(role))
		}
	}
	return out, nil
}

func (r *RoleRepository) sorted() []*models.Role {
	out := make([]*models.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func copyRole(role *models.Role) *models.Role {
	cp := *role
	cp.PermissionIDs = append([]string(nil), role.PermissionIDs...)
	return &cp
}

type PermissionRepository struct{ s *Store }

var _ repos.IPermissionRepository = (*PermissionRepository)(nil)

func (r *PermissionRepository) Create(_ context.Context, p *models.Permission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	if p.Status == models.StatusActive {
		for _, existing := range r.s.permissions {
			if existing.Status == models.StatusActive && strings.EqualFold(existing.Name, p.Name) {
				return coreerrors.Newf(coreerrors.CodeAlreadyExists, "permission %s already exists", p.Name)
			}
		}
	}
	r.s.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	cp := *p
	r.s.permissions[p.ID] = &cp
	return nil
}

func (r *PermissionRepository) FindActiveByName(_ context.Context, name string) (*models.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.permissions {
		if p.Status == models.StatusActive && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, coreerrors.Newf(coreerrors.CodeNotFound, "permission %s not found", name)
}

func (r *PermissionRepository) List(_ context.Context, filter repos.PermissionFilter) ([]*models.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*models.Permission, 0, len(r.s.permissions))
	for _, p := range r.s.permissions {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	out := []*models.Permission{}
	for _, p := range all {
		if filter.Name != "" && p.Name != filter.Name {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
