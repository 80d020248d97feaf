package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/models"
	"gatehouse/internal/services"
)

func TestAddRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "ada")
	reader := f.role(t, "reader")
	writer := f.role(t, "writer")

	res, err := f.users.AddRoles(ctx, user.ID, services.AddRolesInput{Roles: []string{"writer", "reader"}})
	require.NoError(t, err)
	assert.Equal(t, services.UserRef{ID: user.ID, Username: "ada"}, res.User)
	assert.Equal(t, []models.RoleRef{writer.Ref(), reader.Ref()}, res.Roles)

	stored, err := f.store.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{writer.ID, reader.ID}, stored.RoleIDs)

	res, err = f.users.AddRoles(ctx, user.ID, services.AddRolesInput{Roles: []string{"reader"}})
	require.NoError(t, err)
	assert.Len(t, res.Roles, 1)
}

func TestAddRoles_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "ada")
	f.role(t, "reader")
	missing := models.NewID()

	tests := []struct {
		name    string
		userID  string
		roles   []string
		code    coreerrors.ErrorCode
		message string
	}{
		{"unknown user", missing, []string{"reader"}, coreerrors.CodeUserIDNotFound, `The user with id "` + missing + `" is not found`},
		{"malformed id", "zz", []string{"reader"}, coreerrors.CodeInvalidObjectID, ""},
		{"no roles", user.ID, nil, coreerrors.CodeInvalidUserRoles, "The roles must be an Array type with at least 1 role"},
		{"unknown roles", user.ID, []string{"reader", "ghost", "root"}, coreerrors.CodeInputRoleNotFound, "The role of [ghost, root] not found in system"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.AddRoles(ctx, tt.userID, services.AddRolesInput{Roles: tt.roles})
			e := apiError(t, err)
			assert.Equal(t, tt.code, e.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, e.Message)
			}
		})
	}

	_, err := f.users.AddRoles(ctx, user.ID, services.AddRolesInput{Roles: []string{"ghost"}})
	e := apiError(t, err)
	assert.Equal(t, map[string][]string{"invalidRoles": {"ghost"}}, e.Data)

	stored, err := f.store.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RoleIDs)
}

func TestCheckPermissionStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "ada")
	read := f.permission(t, "read")
	write := f.permission(t, "write")
	f.role(t, "reader", "read")
	_, err := f.users.AddRoles(ctx, user.ID, services.AddRolesInput{Roles: []string{"reader"}})
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		unknown := models.NewID()
		out, err := f.users.CheckPermissionStatus(ctx, user.ID, services.PermissionCheckInput{
			IDs: []string{read.ID, write.ID, unknown},
		})
		require.NoError(t, err)
		require.Len(t, out, 3)

		assert.True(t, out[0].Allow)
		assert.Equal(t, "read", *out[0].Permission)
		assert.False(t, out[1].Allow)
		assert.Equal(t, "write", *out[1].Permission)
		assert.False(t, out[2].Allow)
		assert.Equal(t, unknown, *out[2].ID)
		assert.Nil(t, out[2].Permission)
	})

	t.Run("by name", func(t *testing.T) {
		out, err := f.users.CheckPermissionStatus(ctx, user.ID, services.PermissionCheckInput{
			Permissions: []string{"READ", "write", "fly"},
		})
		require.NoError(t, err)
		require.Len(t, out, 3)

		assert.True(t, out[0].Allow)
		assert.Equal(t, read.ID, *out[0].ID)
		assert.Equal(t, "READ", *out[0].Permission)
		assert.False(t, out[1].Allow)
		assert.Equal(t, write.ID, *out[1].ID)
		assert.False(t, out[2].Allow)
		assert.Nil(t, out[2].ID)
	})

	t.Run("empty", func(t *testing.T) {
		out, err := f.users.CheckPermissionStatus(ctx, user.ID, services.PermissionCheckInput{})
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.users.CheckPermissionStatus(ctx, models.NewID(), services.PermissionCheckInput{IDs: []string{read.ID}})
		assert.True(t, coreerrors.IsCode(err, coreerrors.CodeUserIDNotFound))
	})
}

func TestGetUserRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "ada")

	roles, err := f.users.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, roles)
	assert.Empty(t, roles)

	reader := f.role(t, "reader")
	_, err = f.users.AddRoles(ctx, user.ID, services.AddRolesInput{Roles: []string{"reader"}})
	require.NoError(t, err)

	roles, err = f.users.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.RoleRef{reader.Ref()}, roles)
}
