package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/config/schema"
	coreerrors "gatehouse/internal/core/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatehouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPriorityChain(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 5000
  route_prefix: api
security:
  jwt:
    secret: from-yaml
storage:
  drivers: postgres
`)
	t.Setenv("GHTEST_SERVER_PORT", "6000")

	cfg, err := NewBuilder().
		WithPrefix("GHTEST").
		WithConfigFile(path).
		WithDotEnv(false).
		Build().
		Load()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Server.Port, "env beats yaml")
	assert.Equal(t, "api", cfg.Server.RoutePrefix)
	assert.Equal(t, "from-yaml", cfg.Security.JWT.Secret.Value())
	assert.Equal(t, "postgres", cfg.Storage.Drivers)
	assert.Equal(t, time.Hour, cfg.Security.JWT.Expiry, "defaults fill the rest")
}

func TestLoadFailsValidation(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 4000\n")

	_, err := NewBuilder().
		WithPrefix("GHTEST_NOSECRET").
		WithConfigFile(path).
		WithDotEnv(false).
		Build().
		Load()
	require.Error(t, err)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeConfigError))
	assert.Contains(t, err.Error(), "security.jwt.secret")
}

func TestLoadWithoutValidation(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")

	cfg, err := NewBuilder().
		WithPrefix("GHTEST_NOSECRET").
		WithConfigFile(path).
		WithDotEnv(false).
		WithoutValidation().
		Build().
		Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

type overrideSource struct{ port int }

func (s overrideSource) Name() string  { return "cli" }
func (s overrideSource) Priority() int { return 5 }
func (s overrideSource) LoadInto(cfg *schema.Root) error {
	cfg.Server.Port = s.port
	return nil
}

func TestExtraSourceWins(t *testing.T) {
	t.Setenv("GHTEST_EXTRA_SERVER_PORT", "6000")
	t.Setenv("GHTEST_EXTRA_JWT_SECRET", "x")

	cfg, err := NewBuilder().
		WithPrefix("GHTEST_EXTRA").
		WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")).
		WithDotEnv(false).
		WithSource(overrideSource{port: 7000}).
		Build().
		Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoaderWithoutSources(t *testing.T) {
	_, err := NewLoader().Load()
	require.Error(t, err)
}
