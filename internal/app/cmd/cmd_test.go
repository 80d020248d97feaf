package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/wiring"
)

func writeConfig(t *testing.T, drivers string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "storage:\n  drivers: " + drivers + "\n" +
		"security:\n  bcrypt_cost: 4\n  jwt:\n    secret: cli-test-secret\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { configFile, appEnv = "", "" })
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gatehouse ")
}

func TestCheckCommand_PrintsGraph(t *testing.T) {
	out, err := execute(t, "check", "--config", writeConfig(t, "memory,embedded-redis"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ TokenRepo")
	assert.Contains(t, out, "✓ AuthController")
	assert.Contains(t, out, "routes (11):")
	assert.Contains(t, out, "/users/{id}/permissions")
}

func TestCheckCommand_ReportsWiringGaps(t *testing.T) {
	out, err := execute(t, "check", "--config", writeConfig(t, "memory"))
	require.Error(t, err)
	assert.Equal(t, wiring.FailureMessage, err.Error())
	assert.Contains(t, out, `✗ AuthService requires provider "TokenRepo"`)
}

func TestCheckCommand_UnknownDriver(t *testing.T) {
	_, err := execute(t, "check", "--config", writeConfig(t, "cassandra"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"cassandra" not found`)
}
