package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/api"
	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/core/provider"
	"gatehouse/internal/repos"
	"gatehouse/internal/repos/memrepo"
	"gatehouse/internal/routing"
	"gatehouse/internal/security"
	"gatehouse/internal/services"
	"gatehouse/internal/wiring"
)

func corePool(t *testing.T, withLimiter bool) *wiring.Pool {
	t.Helper()
	issuer, err := security.NewTokens(security.TokenConfig{Secret: "test-secret", Expiry: time.Minute})
	require.NoError(t, err)
	entries := map[string]any{
		provider.Log:        corelog.NewNopLogger(),
		provider.ApiError:   coreerrors.NewAPIError(),
		provider.Hasher:     security.NewHasher(4),
		provider.Tokens:     issuer,
		provider.LoginGuard: security.NewLoginGuard(security.DefaultLoginGuardConfig()),
		provider.Validator:  api.NewValidator(),
		provider.Storage:    storageHealth{ready: true},
	}
	if withLimiter {
		entries[provider.RateLimiter] = (*security.RateLimiter)(nil)
	}
	return wiring.NewPool("core", entries)
}

func layers() []wiring.Layer {
	tokenRepo := wiring.Component{
		Name: repos.TokenRepo,
		Build: func(wiring.Providers) (any, error) {
			return &tokenStore{active: make(map[string]bool)}, nil
		},
	}
	return []wiring.Layer{
		{Kind: wiring.KindRepository, Components: append(memrepo.Components(), tokenRepo)},
		{Kind: wiring.KindService, Components: services.Components()},
		{Kind: wiring.KindHandlerGroup, Components: api.Components()},
	}
}

func TestComponents_FullGraph(t *testing.T) {
	a := wiring.NewAssembler(corePool(t, true), wiring.WithLogger(corelog.NewNopLogger()))
	seed := wiring.NewPool("storage", map[string]any{memrepo.Provider: memrepo.NewStore()})

	res, err := a.Assemble(seed, layers()...)
	require.NoError(t, err)

	handlers, ok := res.Layer(wiring.KindHandlerGroup)
	require.True(t, ok)
	routes := routing.Collect("", api.Groups(handlers)...)

	var got []string
	for _, r := range routes {
		got = append(got, r.Method+" "+r.FullPath)
	}
	assert.Equal(t, []string{
		"POST /signup",
		"PUT /login",
		"POST /logout",
		"GET /users/{id}/roles",
		"POST /users/{id}/roles",
		"POST /users/{id}/permissions",
		"GET /roles",
		"POST /role",
		"GET /permissions",
		"POST /permission",
		"GET /health",
	}, got)
	assert.Equal(t, api.AuthControllerName, routes[0].Group)

	auth, err := wiring.Get[*services.AuthService](wiring.NewProviders(mustLayer(t, res, wiring.KindService).Pool), services.AuthServiceName)
	require.NoError(t, err)
	_, err = auth.Signup(context.Background(), services.SignupInput{Email: "a@example.com", Username: "ada", Password: "s3cret!"})
	assert.NoError(t, err)
}

func TestComponents_MissingCoreProvider(t *testing.T) {
	a := wiring.NewAssembler(corePool(t, false), wiring.WithLogger(corelog.NewNopLogger()))
	seed := wiring.NewPool("storage", map[string]any{memrepo.Provider: memrepo.NewStore()})

	_, err := a.Assemble(seed, layers()...)
	var report *wiring.Report
	require.ErrorAs(t, err, &report)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, api.AuthControllerName, report.Errors[0].Component)
	assert.Equal(t, `AuthController requires provider "RateLimiter"`, report.Errors[0].Error())
}

func mustLayer(t *testing.T, res *wiring.Result, kind wiring.Kind) wiring.LayerResult {
	t.Helper()
	l, ok := res.Layer(kind)
	require.True(t, ok)
	return l
}
