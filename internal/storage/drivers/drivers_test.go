package drivers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/config/schema"
	"gatehouse/internal/config/source"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/core/provider"
	"gatehouse/internal/repos"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/testutils"
	"gatehouse/internal/wiring"
)

func testConfig(t *testing.T, drivers string) *schema.Root {
	t.Helper()
	cfg := &schema.Root{}
	require.NoError(t, source.NewDefaultSource().LoadInto(cfg))
	cfg.Storage.Drivers = drivers
	cfg.Storage.HeartbeatInterval = 0
	return cfg
}

func testDeps(t *testing.T) Deps {
	return Deps{Logger: corelog.NewTestLogger(t), Scheduler: testutils.NewManualScheduler()}
}

func TestParse(t *testing.T) {
	assert.Equal(t, []string{"postgres", "redis"}, Parse(" Postgres, redis ,,postgres"))
	assert.Empty(t, Parse(" , "))
}

func TestOpenRejectsUnknownDrivers(t *testing.T) {
	_, err := Open(testConfig(t, "mongodb,redis,mssql"), testDeps(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `database driver "mongodb", "mssql" not found`)
}

func TestOpenRejectsEmptySelection(t *testing.T) {
	_, err := Open(testConfig(t, " "), testDeps(t))
	assert.Error(t, err)
}

func TestOpenRejectsOverlappingDrivers(t *testing.T) {
	_, err := Open(testConfig(t, "redis,embedded-redis"), testDeps(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `both provide "Redis"`)

	cfg := testConfig(t, "memory,postgres")
	cfg.Storage.Postgres.DSN = "postgres://gatehouse@127.0.0.1:1/gatehouse"
	_, err = Open(cfg, testDeps(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `database drivers "memory" and "postgres" both provide "UserRepo"`)
}

type stubDriver struct {
	name   string
	closed bool
}

func (d *stubDriver) Name() string                     { return d.name }
func (d *stubDriver) Exports() map[string]any          { return map[string]any{"Stub": d} }
func (d *stubDriver) Repositories() []wiring.Component { return nil }
func (d *stubDriver) Start(context.Context) error      { return nil }
func (d *stubDriver) Status() connmgr.Status           { return connmgr.Status{Name: d.name, Ready: true} }
func (d *stubDriver) Close() error                     { d.closed = true; return nil }

func withFactories(t *testing.T, factories map[string]Factory) {
	t.Helper()
	for name, f := range factories {
		builtin[name] = f
	}
	t.Cleanup(func() {
		for name := range factories {
			delete(builtin, name)
		}
	})
}

func TestOpenClosesBuiltDriversOnFailure(t *testing.T) {
	first := &stubDriver{name: "stub-a"}
	second := &stubDriver{name: "stub-b"}
	withFactories(t, map[string]Factory{
		"stub-a": func(*schema.Root, Deps) (Driver, error) { return first, nil },
		"stub-b": func(*schema.Root, Deps) (Driver, error) { return second, nil },
		"stub-broken": func(*schema.Root, Deps) (Driver, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := Open(testConfig(t, "stub-a,stub-broken"), testDeps(t))
	require.Error(t, err)
	assert.True(t, first.closed, "driver built before the failing factory is closed")

	first.closed = false
	_, err = Open(testConfig(t, "stub-a,stub-b"), testDeps(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `both provide "Stub"`)
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestOpenPostgresNeedsDSN(t *testing.T) {
	_, err := Open(testConfig(t, "postgres"), testDeps(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres DSN is required")
}

func TestKnown(t *testing.T) {
	assert.Equal(t, []string{"embedded-redis", "memory", "postgres", "redis"}, Known())
}

func TestDefaultSelectionBuildsWithoutConnecting(t *testing.T) {
	cfg := testConfig(t, "postgres,redis")
	cfg.Storage.Postgres.DSN = "postgres://u:p@127.0.0.1:1/gatehouse"

	set, err := Open(cfg, testDeps(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"postgres", "redis"}, set.Names())
	assert.Equal(t, []string{"Postgres", "Redis"}, set.Seed().Names())
	assert.False(t, set.Ready())

	var names []string
	for _, c := range set.RepositoryLayer().Components {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{repos.UserRepo, repos.RoleRepo, repos.PermissionRepo, repos.TokenRepo}, names)
	assert.NoError(t, set.Close())
}

func TestEmbeddedStackEndToEnd(t *testing.T) {
	set, err := Open(testConfig(t, "memory,embedded-redis"), testDeps(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = set.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	set.Start(ctx)
	assert.True(t, set.Ready())

	statuses := set.Status()
	require.Len(t, statuses, 2)
	assert.Equal(t, "memory", statuses[0].Name)
	assert.Equal(t, "embedded-redis", statuses[1].Name)
	assert.Equal(t, "connected", statuses[1].State)

	core := wiring.NewPool("core", map[string]any{provider.Config: testConfig(t, "")})
	result, err := wiring.NewAssembler(core, wiring.WithLogger(corelog.NewTestLogger(t))).
		Assemble(set.Seed(), set.RepositoryLayer())
	require.NoError(t, err)

	layer, _ := result.Layer(wiring.KindRepository)
	tokens, err := wiring.Get[repos.ITokenRepository](wiring.NewProviders(layer.Pool), repos.TokenRepo)
	require.NoError(t, err)
	require.NoError(t, tokens.Save(ctx, "t1", "u1", time.Minute))
	active, err := tokens.Active(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, set.Close())
	assert.False(t, set.Ready())
}
