package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restud-replication-packages/restud/internal/output"
)

// testEnv sets up isolated config dir, viper, and output for testing.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	// Override configDirFunc for tests
	origFunc := configDirFunc
	configDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { configDirFunc = origFunc })

	// Reset viper
	viper.Reset()
	viper.SetDefault("state_dir", dir)
	viper.SetDefault("db_path", filepath.Join(dir, "restud.db"))
	viper.SetDefault("templates_dir", "")
	viper.SetDefault("snippets_path", "")
	viper.SetDefault("github.org", "restud-replication-packages")
	viper.SetDefault("zenodo.base_url", "https://zenodo.org")
	viper.SetDefault("zenodo.community", "restud-replication")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")

	// Initialize output
	ui = output.New()

	return dir
}

func TestConfigInit_CreatesFile(t *testing.T) {
	dir := testEnv(t)

	err := configInitRun()
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "config.yaml")
	_, err = os.Stat(cfgPath)
	assert.NoError(t, err, "config file should exist")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "restud configuration")
	assert.Contains(t, string(data), "zenodo")
	assert.Contains(t, string(data), "restud-replication")
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	dir := testEnv(t)

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("existing"), 0644))

	configForce = false
	err := configInitRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data), "file should be untouched")
}

func TestConfigInit_ForceOverwrites(t *testing.T) {
	dir := testEnv(t)

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("existing"), 0644))

	configForce = true
	t.Cleanup(func() { configForce = false })

	require.NoError(t, configInitRun())

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "restud configuration")
}

func TestConfigShow_NoFile(t *testing.T) {
	testEnv(t)
	assert.NoError(t, configShowRun())
}

func TestDetectSource(t *testing.T) {
	fileValues := map[string]bool{"github.org": true}

	assert.Equal(t, "(file)", detectSource("github.org", "RESTUD_GITHUB_ORG", fileValues))
	assert.Equal(t, "(default)", detectSource("db_path", "RESTUD_DB_PATH", fileValues))

	t.Setenv("RESTUD_GITHUB_ORG", "other-org")
	assert.Equal(t, "(env: RESTUD_GITHUB_ORG)", detectSource("github.org", "RESTUD_GITHUB_ORG", fileValues))
}

func TestFlattenKeys(t *testing.T) {
	result := make(map[string]bool)
	flattenKeys("", map[string]any{
		"db_path": "/tmp/x.db",
		"zenodo": map[string]any{
			"community": "restud-replication",
		},
	}, result)

	assert.True(t, result["db_path"])
	assert.True(t, result["zenodo.community"])
	assert.False(t, result["zenodo"])
}

func TestReadConfigFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("github:\n  org: myorg\n"), 0644))

	values := readConfigFileValues(path)
	assert.True(t, values["github.org"])

	// Missing file yields an empty map, not an error.
	assert.Empty(t, readConfigFileValues(filepath.Join(dir, "missing.yaml")))
}
