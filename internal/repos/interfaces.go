// Package repos defines the identity repositories shared by every storage
// driver, plus a cached view of the permission catalog.
package repos

import (
	"context"
	"time"

	"gatehouse/internal/models"
)

// Provider names under which drivers export their repositories.
const (
	UserRepo       = "UserRepo"
	RoleRepo       = "RoleRepo"
	PermissionRepo = "PermissionRepo"
	TokenRepo      = "TokenRepo"
)

// RoleFilter narrows List. Zero fields match everything.
type RoleFilter struct {
	Name   string
	Status models.Status
}

// PermissionFilter narrows List. Zero fields match everything.
type PermissionFilter struct {
	Name   string
	Status models.Status
}

// IUserRepository stores user accounts.
//
// Lookups that miss return a coreerrors.CodeNotFound error.
type IUserRepository interface {
	// Create inserts user; a taken email or username is CodeAlreadyExists.
	Create(ctx context.Context, user *models.User) error

	Get(ctx context.Context, id string) (*models.User, error)

	// FindByLogin matches login against email or username.
	FindByLogin(ctx context.Context, login string) (*models.User, error)

	// FindConflicts returns users owning email or username.
	FindConflicts(ctx context.Context, email, username string) ([]*models.User, error)

	// SetRoles replaces the user's role ids.
	SetRoles(ctx context.Context, id string, roleIDs []string) error
}

// IRoleRepository stores roles.
type IRoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	FindActiveByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context, filter RoleFilter) ([]*models.Role, error)
	// ListByIDs returns roles among ids with the given status, in storage order.
	ListByIDs(ctx context.Context, ids []string, status models.Status) ([]*models.Role, error)
}

// IPermissionRepository stores permissions.
type IPermissionRepository interface {
	Create(ctx context.Context, permission *models.Permission) error
	FindActiveByName(ctx context.Context, name string) (*models.Permission, error)
	List(ctx context.Context, filter PermissionFilter) ([]*models.Permission, error)
}

// ITokenRepository tracks issued access tokens so they can be revoked
// before they expire.
type ITokenRepository interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	// Active reports whether tokenID was issued and not revoked or expired.
	Active(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}
