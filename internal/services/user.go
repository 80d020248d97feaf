package services

import (
	"context"
	"fmt"
	"strings"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
)

type AddRolesInput struct {
	Roles []string `json:"roles"`
}

// UserRef is the {_id, username} projection of a user.
type UserRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type AddRolesResult struct {
	User  UserRef          `json:"user"`
	Roles []models.RoleRef `json:"roles"`
}

// PermissionCheckInput names permissions either by id or by name. IDs
// take precedence when both are given.
type PermissionCheckInput struct {
	IDs         []string `json:"ids"`
	Permissions []string `json:"permissions"`
}

// PermissionStatus reports whether a user holds one permission. ID or
// Permission is nil when it does not match the catalog.
type PermissionStatus struct {
	Allow      bool    `json:"allow"`
	ID         *string `json:"id"`
	Permission *string `json:"permission"`
}

// UserService assigns roles to users and answers permission queries.
type UserService struct {
	base
	users       repos.IUserRepository
	roles       repos.IRoleRepository
	permissions repos.IPermissionRepository
}

func NewUserService(users repos.IUserRepository, roles repos.IRoleRepository, permissions repos.IPermissionRepository, apiErr coreerrors.APIError, logger corelog.Logger) *UserService {
	return &UserService{
		base:        newBase(UserServiceName, apiErr, logger),
		users:       users,
		roles:       roles,
		permissions: permissions,
	}
}

// AddRoles replaces the roles of userID with the named active roles.
func (s *UserService) AddRoles(ctx context.Context, userID string, in AddRolesInput) (*AddRolesResult, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, s.fail("AddRoles", err)
	}
	if len(in.Roles) == 0 {
		return nil, s.fail("AddRoles", s.apiErr(coreerrors.CodeInvalidUserRoles, nil,
			"The roles must be an Array type with at least 1 role"))
	}

	active, err := s.roles.List(ctx, repos.RoleFilter{Status: models.StatusActive})
	if err != nil {
		return nil, s.fail("AddRoles", err)
	}

	var (
		ids     []string
		refs    []models.RoleRef
		invalid []string
	)
	for _, name := range in.Roles {
		matched := false
		for _, r := range active {
			if r.Name == name {
				ids = append(ids, r.ID)
				refs = append(refs, r.Ref())
				matched = true
			}
		}
		if !matched {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return nil, s.fail("AddRoles", s.apiErr(coreerrors.CodeInputRoleNotFound,
			map[string][]string{"invalidRoles": invalid},
			fmt.Sprintf("The role of [%s] not found in system", strings.Join(invalid, ", "))))
	}

	if err := s.users.SetRoles(ctx, user.ID, ids); err != nil {
		return nil, s.fail("AddRoles", err)
	}
	s.logger.WithFields(map[string]any{"user": user.ID, "roles": len(ids)}).Info("user roles replaced")
	return &AddRolesResult{
		User:  UserRef{ID: user.ID, Username: user.Username},
		Roles: refs,
	}, nil
}

// CheckPermissionStatus reports, per requested permission, whether any
// active role of userID grants it.
func (s *UserService) CheckPermissionStatus(ctx context.Context, userID string, in PermissionCheckInput) ([]PermissionStatus, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, s.fail("CheckPermissionStatus", err)
	}
	out := []PermissionStatus{}
	if len(in.IDs) == 0 && len(in.Permissions) == 0 {
		return out, nil
	}

	granted, err := s.grantedPermissions(ctx, user.RoleIDs)
	if err != nil {
		return nil, s.fail("CheckPermissionStatus", err)
	}
	catalog, err := s.permissions.List(ctx, repos.PermissionFilter{Status: models.StatusActive})
	if err != nil {
		return nil, s.fail("CheckPermissionStatus", err)
	}

	if len(in.IDs) > 0 {
		byID := make(map[string]string, len(catalog))
		for _, p := range catalog {
			byID[p.ID] = p.Name
		}
		for _, id := range in.IDs {
			st := PermissionStatus{ID: ptr(id)}
			if name, ok := byID[id]; ok {
				st.Permission = ptr(name)
				st.Allow = granted[id]
			}
			out = append(out, st)
		}
		return out, nil
	}

	byName := make(map[string]string, len(catalog))
	for _, p := range catalog {
		byName[p.Name] = p.ID
	}
	for _, name := range in.Permissions {
		st := PermissionStatus{Permission: ptr(name)}
		if id, ok := byName[models.NormalizePermissionName(name)]; ok {
			st.ID = ptr(id)
			st.Allow = granted[id]
		}
		out = append(out, st)
	}
	return out, nil
}

// GetUserRoles lists the active roles of userID.
func (s *UserService) GetUserRoles(ctx context.Context, userID string) ([]models.RoleRef, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, s.fail("GetUserRoles", err)
	}
	refs := []models.RoleRef{}
	if len(user.RoleIDs) == 0 {
		return refs, nil
	}
	roles, err := s.roles.ListByIDs(ctx, user.RoleIDs, models.StatusActive)
	if err != nil {
		return nil, s.fail("GetUserRoles", err)
	}
	for _, r := range roles {
		refs = append(refs, r.Ref())
	}
	return refs, nil
}

func (s *UserService) user(ctx context.Context, id string) (*models.User, error) {
	if !models.ValidID(id) {
		return nil, s.apiErr(coreerrors.CodeInvalidObjectID, nil, fmt.Sprintf("The id %q is not valid", id))
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if coreerrors.IsCode(err, coreerrors.CodeNotFound) {
			return nil, s.apiErr(coreerrors.CodeUserIDNotFound, nil, fmt.Sprintf("The user with id %q is not found", id))
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) grantedPermissions(ctx context.Context, roleIDs []string) (map[string]bool, error) {
	granted := make(map[string]bool)
	if len(roleIDs) == 0 {
		return granted, nil
	}
	roles, err := s.roles.ListByIDs(ctx, roleIDs, models.StatusActive)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		for _, id := range r.PermissionIDs {
			granted[id] = true
		}
	}
	return granted, nil
}

func ptr(s string) *string { return &s }
