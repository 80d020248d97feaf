package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/models"
	"gatehouse/internal/routing"
	"gatehouse/internal/services"
)

type UserAPI interface {
	AddRoles(ctx context.Context, userID string, in services.AddRolesInput) (*services.AddRolesResult, error)
	CheckPermissionStatus(ctx context.Context, userID string, in services.PermissionCheckInput) ([]services.PermissionStatus, error)
	GetUserRoles(ctx context.Context, userID string) ([]models.RoleRef, error)
}

// UserController serves role assignment and permission checks.
type UserController struct {
	responder
	users UserAPI
}

func NewUserController(users UserAPI, logger corelog.Logger) *UserController {
	return &UserController{responder: newResponder(UserControllerName, logger), users: users}
}

func (c *UserController) Routes() []routing.Descriptor {
	return []routing.Descriptor{
		{Method: http.MethodGet, Path: "/users/{id}/roles", Handler: c.getRoles},
		{Method: http.MethodPost, Path: "/users/{id}/roles", Handler: c.addRoles},
		{Method: http.MethodPost, Path: "/users/{id}/permissions", Handler: c.checkPermissions},
	}
}

func (c *UserController) getRoles(w http.ResponseWriter, r *http.Request) {
	res, err := c.users.GetUserRoles(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}

func (c *UserController) addRoles(w http.ResponseWriter, r *http.Request) {
	var in services.AddRolesInput
	if err := decodeJSON(w, r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.users.AddRoles(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}

func (c *UserController) checkPermissions(w http.ResponseWriter, r *http.Request) {
	var in services.PermissionCheckInput
	if err := decodeJSON(w, r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.users.CheckPermissionStatus(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.ok(w, res)
}
