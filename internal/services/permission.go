package services

import (
	"context"
	"fmt"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
)

type CreatePermissionInput struct {
	Name   string        `json:"name" validate:"required,max=128"`
	Status models.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
}

// PermissionQuery filters GetPermissions.
type PermissionQuery struct {
	Name string `json:"name"`
}

// PermissionService manages the permission catalog.
type PermissionService struct {
	base
	permissions repos.IPermissionRepository
}

func NewPermissionService(permissions repos.IPermissionRepository, apiErr coreerrors.APIError, logger corelog.Logger) *PermissionService {
	return &PermissionService{
		base:        newBase(PermissionServiceName, apiErr, logger),
		permissions: permissions,
	}
}

// CreatePermission stores a lower-cased permission. Only one active
// permission may carry a given name.
func (s *PermissionService) CreatePermission(ctx context.Context, in CreatePermissionInput) (*models.Permission, error) {
	name := models.NormalizePermissionName(in.Name)
	status := in.Status
	if status == "" {
		status = models.StatusActive
	}
	if !status.Valid() {
		return nil, s.fail("CreatePermission", s.apiErr(coreerrors.CodeValidationError, nil,
			fmt.Sprintf("The status %q is not valid", status)))
	}

	_, err := s.permissions.FindActiveByName(ctx, name)
	switch {
	case err == nil:
		return nil, s.fail("CreatePermission", s.exists(name))
	case !coreerrors.IsCode(err, coreerrors.CodeNotFound):
		return nil, s.fail("CreatePermission", err)
	}

	p := &models.Permission{Name: name, Status: status}
	if err := s.permissions.Create(ctx, p); err != nil {
		if coreerrors.IsCode(err, coreerrors.CodeAlreadyExists) {
			err = s.exists(name)
		}
		return nil, s.fail("CreatePermission", err)
	}
	s.logger.WithField("permission", name).Info("permission created")
	return p, nil
}

// GetPermissions lists active permissions matching q.
func (s *PermissionService) GetPermissions(ctx context.Context, q PermissionQuery) ([]*models.Permission, error) {
	filter := repos.PermissionFilter{Status: models.StatusActive}
	if q.Name != "" {
		filter.Name = models.NormalizePermissionName(q.Name)
	}
	out, err := s.permissions.List(ctx, filter)
	if err != nil {
		return nil, s.fail("GetPermissions", err)
	}
	return out, nil
}

func (s *PermissionService) exists(name string) error {
	return s.apiErr(coreerrors.CodePermissionAlreadyExists, nil,
		fmt.Sprintf("The permission %q already existed in the database", name))
}
