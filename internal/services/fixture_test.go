package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/models"
	"gatehouse/internal/repos/memrepo"
	"gatehouse/internal/security"
	"gatehouse/internal/services"
)

type tokenStore struct {
	mu     sync.Mutex
	active map[string]string
}

func newTokenStore() *tokenStore {
	return &tokenStore{active: make(map[string]string)}
}

func (s *tokenStore) Save(_ context.Context, tokenID, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[tokenID] = userID
	return nil
}

func (s *tokenStore) Active(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[tokenID]
	return ok, nil
}

func (s *tokenStore) Revoke(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, tokenID)
	return nil
}

type fixture struct {
	store       *memrepo.Store
	tokens      *tokenStore
	issuer      *security.Tokens
	hasher      *security.Hasher
	guard       *security.LoginGuard
	auth        *services.AuthService
	users       *services.UserService
	roles       *services.RoleService
	permissions *services.PermissionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	issuer, err := security.NewTokens(security.TokenConfig{Secret: "test-secret", Expiry: time.Hour})
	require.NoError(t, err)

	f := &fixture{
		store:  memrepo.NewStore(),
		tokens: newTokenStore(),
		issuer: issuer,
		hasher: security.NewHasher(4),
		guard:  security.NewLoginGuard(security.LoginGuardConfig{MaxFailures: 3, Window: time.Minute, LockDuration: time.Minute}),
	}
	apiErr := coreerrors.NewAPIError()
	logger := corelog.NewTestLogger(t)

	f.auth = services.NewAuthService(services.AuthDeps{
		Users:  f.store.Users(),
		Roles:  f.store.Roles(),
		Tokens: f.tokens,
		Hasher: f.hasher,
		Issuer: f.issuer,
		Guard:  f.guard,
		ApiErr: apiErr,
		Logger: logger,
	})
	f.users = services.NewUserService(f.store.Users(), f.store.Roles(), f.store.Permissions(), apiErr, logger)
	f.roles = services.NewRoleService(f.store.Roles(), f.store.Permissions(), apiErr, logger)
	f.permissions = services.NewPermissionService(f.store.Permissions(), apiErr, logger)
	return f
}

func (f *fixture) signup(t *testing.T, username string) *services.SignupResult {
	t.Helper()
	res, err := f.auth.Signup(context.Background(), services.SignupInput{
		Email:    username + "@example.com",
		Username: username,
		Password: "s3cret!",
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) permission(t *testing.T, name string) *models.Permission {
	t.Helper()
	p, err := f.permissions.CreatePermission(context.Background(), services.CreatePermissionInput{Name: name})
	require.NoError(t, err)
	return p
}

func (f *fixture) role(t *testing.T, name string, permissions ...string) *models.Role {
	t.Helper()
	r, err := f.roles.CreateRole(context.Background(), services.CreateRoleInput{Name: name, Permissions: permissions})
	require.NoError(t, err)
	return r
}

func apiError(t *testing.T, err error) *coreerrors.Error {
	t.Helper()
	require.Error(t, err)
	var e *coreerrors.Error
	require.ErrorAs(t, err, &e)
	return e
}
