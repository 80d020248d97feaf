package api

import (
	"context"
	"net/http"

	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/models"
	"gatehouse/internal/routing"
	"gatehouse/internal/services"
)

type RoleAPI interface {
	CreateRole(ctx context.Context, in services.CreateRoleInput) (*models.Role, error)
	GetRoles(ctx context.Context, q services.RoleQuery) ([]*models.Role, error)
}

type PermissionAPI interface {
	CreatePermission(ctx context.Context, in services.CreatePermissionInput) (*models.Permission, error)
	GetPermissions(ctx context.Context, q services.PermissionQuery) ([]*models.Permission, error)
}

// RoleController serves the role catalog.
type RoleController struct {
	responder
	roles     RoleAPI
	validator *Validator
}

func NewRoleController(roles RoleAPI, v *Validator, logger corelog.Logger) *RoleController {
	return &RoleController{responder: newResponder(RoleControllerName, logger), roles: roles, validator: v}
}

func (c *RoleController) Routes() []routing.Descriptor {
	return []routing.Descriptor{
		{Method: http.MethodGet, Path: "/roles", Handler: c.list},
		{Method: http.MethodPost, Path: "/role", Handler: c.create},
	}
}

func (c *RoleController) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := c.roles.GetRoles(r.Context(), services.RoleQuery{
		Name:   q.Get("name"),
		Status: models.Status(q.Get("status")),
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}

func (c *RoleController) create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateRoleInput
	if err := decodeJSON(w, r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	if err := c.validator.Struct(&in); err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.roles.CreateRole(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}

// PermissionController serves the permission catalog.
type PermissionController struct {
	responder
	permissions PermissionAPI
	validator   *Validator
}

func NewPermissionController(permissions PermissionAPI, v *Validator, logger corelog.Logger) *PermissionController {
	return &PermissionController{
		responder:   newResponder(PermissionControllerName, logger),
		permissions: permissions,
		validator:   v,
	}
}

func (c *PermissionController) Routes() []routing.Descriptor {
	return []routing.Descriptor{
		{Method: http.MethodGet, Path: "/permissions", Handler: c.list},
		{Method: http.MethodPost, Path: "/permission", Handler: c.create},
	}
}

func (c *PermissionController) list(w http.ResponseWriter, r *http.Request) {
	res, err := c.permissions.GetPermissions(r.Context(), services.PermissionQuery{Name: r.URL.Query().Get("name")})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}

func (c *PermissionController) create(w http.ResponseWriter, r *http.Request) {
	var in services.CreatePermissionInput
	if err := decodeJSON(w, r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	if err := c.validator.Struct(&in); err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.permissions.CreatePermission(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}
