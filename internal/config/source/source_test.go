package source

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/config/schema"
)

func TestByPriority(t *testing.T) {
	sources := []Source{NewEnvSource("X"), NewDefaultSource(), NewYAMLSource(), NewDotEnvSource(nil, "")}
	sort.Sort(ByPriority(sources))

	var names []string
	for _, s := range sources {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"defaults", "yaml", "dotenv", "env"}, names)
}

func TestYAMLSourceOverridesOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gatehouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
storage:
  drivers: embedded-redis
  retry:
    base_wait: 500ms
`), 0o600))

	cfg := &schema.Root{}
	require.NoError(t, NewDefaultSource().LoadInto(cfg))
	require.NoError(t, NewYAMLSource(path, filepath.Join(dir, "missing.yaml")).LoadInto(cfg))

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "embedded-redis", cfg.Storage.Drivers)
	assert.Equal(t, 500*time.Millisecond, cfg.Storage.Retry.BaseWait)
	assert.Equal(t, time.Second, cfg.Storage.Retry.Increment)
}

func TestYAMLSourceRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	err := NewYAMLSource(path).LoadInto(&schema.Root{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML file")
}

func TestEnvSource(t *testing.T) {
	t.Setenv("GH_SERVER_PORT", "9090")
	t.Setenv("GH_JWT_SECRET", "s3cret")
	t.Setenv("GH_RETRY_BASE_WAIT", "2500")
	t.Setenv("GH_RETRY_INCREMENT", "250ms")
	t.Setenv("GH_RATE_LIMIT_ENABLED", "false")
	t.Setenv("GH_REDIS_DB", "not-a-number")

	cfg := &schema.Root{}
	require.NoError(t, NewDefaultSource().LoadInto(cfg))
	require.NoError(t, NewEnvSource("GH").LoadInto(cfg))

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Security.JWT.Secret.Value())
	assert.Equal(t, 2500*time.Millisecond, cfg.Storage.Retry.BaseWait)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.Retry.Increment)
	assert.False(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, 0, cfg.Storage.Redis.DB, "unparsable values are ignored")
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{"FOO=bar", "FOO", "bar", true},
		{"export FOO=bar", "FOO", "bar", true},
		{`FOO="quoted value"`, "FOO", "quoted value", true},
		{"FOO='single'", "FOO", "single", true},
		{"  # comment", "", "", false},
		{"", "", "", false},
		{"NOVALUE", "", "", false},
		{"=orphan", "", "orphan", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, value, ok := parseEnvLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.key, key)
				assert.Equal(t, tt.value, value)
			}
		})
	}
}

func TestDotEnvSourceDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"GH_DOTENV_FRESH=from-file\nGH_DOTENV_SET=from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(
		"GH_DOTENV_APPENV=test-only\n"), 0o600))

	t.Setenv("GH_DOTENV_SET", "from-env")
	// Registered so the values loaded from the file are cleared afterwards.
	t.Setenv("GH_DOTENV_FRESH", "")
	t.Setenv("GH_DOTENV_APPENV", "")
	require.NoError(t, os.Unsetenv("GH_DOTENV_FRESH"))
	require.NoError(t, os.Unsetenv("GH_DOTENV_APPENV"))

	require.NoError(t, NewDotEnvSource([]string{dir}, "test").LoadInto(&schema.Root{}))

	assert.Equal(t, "from-file", os.Getenv("GH_DOTENV_FRESH"))
	assert.Equal(t, "from-env", os.Getenv("GH_DOTENV_SET"))
	assert.Equal(t, "test-only", os.Getenv("GH_DOTENV_APPENV"))
}

func TestFindDotEnvDirs(t *testing.T) {
	dirs := FindDotEnvDirs("/etc/gatehouse/gatehouse.yaml")
	require.NotEmpty(t, dirs)
	assert.Equal(t, "/etc/gatehouse", dirs[0])
}
