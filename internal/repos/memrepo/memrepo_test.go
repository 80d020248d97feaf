package memrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
	"gatehouse/internal/wiring"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	u := &models.User{Email: "ada@example.com", Username: "ada", Password: "hash"}
	require.NoError(t, users.Create(ctx, u))
	assert.True(t, models.ValidID(u.ID))
	assert.Equal(t, models.StatusActive, u.Status)

	err := users.Create(ctx, &models.User{Email: "ada@example.com", Username: "other"})
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeAlreadyExists))

	byEmail, err := users.FindByLogin(ctx, "ada@example.com")
	require.NoError(t, err)
	byName, err := users.FindByLogin(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, byName.ID)

	_, err = users.FindByLogin(ctx, "nobody")
	assert.True(t, coreerrors.IsNotFound(err))

	conflicts, err := users.FindConflicts(ctx, "x@example.com", "ada")
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)

	require.NoError(t, users.SetRoles(ctx, u.ID, []string{"r1", "r2"}))
	got, err := users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, got.RoleIDs)

	got.RoleIDs[0] = "mutated"
	again, _ := users.Get(ctx, u.ID)
	assert.Equal(t, "r1", again.RoleIDs[0], "returned users are copies")

	assert.True(t, coreerrors.IsNotFound(users.SetRoles(ctx, "missing", nil)))
}

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	roles := NewStore().Roles()

	admin := &models.Role{Name: "admin", PermissionIDs: []string{"p1"}}
	require.NoError(t, roles.Create(ctx, admin))
	require.NoError(t, roles.Create(ctx, &models.Role{Name: "old", Status: models.StatusDeleted}))
	require.NoError(t, roles.Create(ctx, &models.Role{Name: "old"}), "deleted names can be reused")

	err := roles.Create(ctx, &models.Role{Name: "admin"})
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeAlreadyExists))

	found, err := roles.FindActiveByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	all, err := roles.List(ctx, repos.RoleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "admin", all[0].Name, "insertion order")

	active, err := roles.List(ctx, repos.RoleFilter{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	byIDs, err := roles.ListByIDs(ctx, []string{admin.ID, "ghost"}, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, []string{"p1"}, byIDs[0].PermissionIDs)
}

func TestPermissionRepository(t *testing.T) {
	ctx := context.Background()
	perms := NewStore().Permissions()

	require.NoError(t, perms.Create(ctx, &models.Permission{Name: "users:read"}))
	require.NoError(t, perms.Create(ctx, &models.Permission{Name: "users:write", Status: models.StatusInactive}))

	err := perms.Create(ctx, &models.Permission{Name: "users:read"})
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeAlreadyExists))

	_, err = perms.FindActiveByName(ctx, "users:write")
	assert.True(t, coreerrors.IsNotFound(err))

	active, err := perms.List(ctx, repos.PermissionFilter{Status: models.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "users:read", active[0].Name)
}

func TestComponentsBuildFromStore(t *testing.T) {
	store := NewStore()
	seed := wiring.NewPool("storage", map[string]any{Provider: store})
	result, err := wiring.NewAssembler(wiring.NewPool("core", nil)).
		Assemble(seed, wiring.Layer{Kind: wiring.KindRepository, Components: Components()})
	require.NoError(t, err)

	layer, ok := result.Layer(wiring.KindRepository)
	require.True(t, ok)
	assert.Equal(t, []string{repos.UserRepo, repos.RoleRepo, repos.PermissionRepo}, layer.Order)

	users, err := wiring.Get[repos.IUserRepository](wiring.NewProviders(layer.Pool), repos.UserRepo)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &models.User{Email: "a@b.c", Username: "a"}))
}
