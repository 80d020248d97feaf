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

type CreateRoleInput struct {
	Name        string        `json:"name" validate:"required,max=128"`
	Permissions []string      `json:"permissions"`
	Status      models.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
}

// RoleQuery filters GetRoles.
type RoleQuery struct {
	Name   string        `json:"name"`
	Status models.Status `json:"status"`
}

// RoleService manages roles and their permission sets.
type RoleService struct {
	base
	roles       repos.IRoleRepository
	permissions repos.IPermissionRepository
}

func NewRoleService(roles repos.IRoleRepository, permissions repos.IPermissionRepository, apiErr coreerrors.APIError, logger corelog.Logger) *RoleService {
	return &RoleService{
		base:        newBase(RoleServiceName, apiErr, logger),
		roles:       roles,
		permissions: permissions,
	}
}

// CreateRole stores a role granting the named active permissions. Every
// permission must exist; unknown names are reported together.
func (s *RoleService) CreateRole(ctx context.Context, in CreateRoleInput) (*models.Role, error) {
	status := in.Status
	if status == "" {
		status = models.StatusActive
	}
	if !status.Valid() {
		return nil, s.fail("CreateRole", s.apiErr(coreerrors.CodeValidationError, nil,
			fmt.Sprintf("The status %q is not valid", status)))
	}

	_, err := s.roles.FindActiveByName(ctx, in.Name)
	switch {
	case err == nil:
		return nil, s.fail("CreateRole", s.exists(in.Name))
	case !coreerrors.IsCode(err, coreerrors.CodeNotFound):
		return nil, s.fail("CreateRole", err)
	}

	ids, err := s.resolvePermissions(ctx, in.Permissions)
	if err != nil {
		return nil, s.fail("CreateRole", err)
	}

	role := &models.Role{Name: in.Name, Status: status, PermissionIDs: ids}
	if err := s.roles.Create(ctx, role); err != nil {
		if coreerrors.IsCode(err, coreerrors.CodeAlreadyExists) {
			err = s.exists(in.Name)
		}
		return nil, s.fail("CreateRole", err)
	}
	s.logger.WithFields(map[string]any{"role": role.Name, "permissions": len(ids)}).Info("role created")
	return role, nil
}

// GetRoles lists roles matching q without their permission ids.
func (s *RoleService) GetRoles(ctx context.Context, q RoleQuery) ([]*models.Role, error) {
	roles, err := s.roles.List(ctx, repos.RoleFilter{Name: q.Name, Status: q.Status})
	if err != nil {
		return nil, s.fail("GetRoles", err)
	}
	for _, r := range roles {
		r.PermissionIDs = nil
	}
	return roles, nil
}

func (s *RoleService) resolvePermissions(ctx context.Context, names []string) ([]string, error) {
	ids := []string{}
	if len(names) == 0 {
		return ids, nil
	}
	catalog, err := s.permissions.List(ctx, repos.PermissionFilter{Status: models.StatusActive})
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(catalog))
	for _, p := range catalog {
		byName[p.Name] = p.ID
	}

	var invalid []string
	for _, name := range names {
		id, ok := byName[models.NormalizePermissionName(name)]
		if !ok {
			invalid = append(invalid, name)
			continue
		}
		ids = append(ids, id)
	}
	if len(invalid) > 0 {
		return nil, s.apiErr(coreerrors.CodeInputPermissionNotFound,
			map[string][]string{"invalidPermissions": invalid},
			fmt.Sprintf("The permission of [%s] not found in system", strings.Join(invalid, ", ")))
	}
	return ids, nil
}

func (s *RoleService) exists(name string) error {
	return s.apiErr(coreerrors.CodeRoleAlreadyExists, nil,
		fmt.Sprintf("The role %q already existed in the database", name))
}
