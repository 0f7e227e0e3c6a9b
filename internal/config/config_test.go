package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, cfg.AutoSave)
	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, 500*time.Millisecond, cfg.AutoRefreshDebounce)
	assert.Equal(t, "default", cfg.Flow)
	assert.True(t, cfg.UI.ShowStatusBar)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FromYAML(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
data_dir: /tmp/stemma-test
auto_save: false
auto_refresh_debounce: 2s
flow: release-pipeline
ui:
  show_status_bar: false
tracing:
  enabled: true
  endpoint: localhost:4317
`)

	assert.Equal(t, "/tmp/stemma-test", cfg.DataDir)
	assert.False(t, cfg.AutoSave)
	assert.Equal(t, 2*time.Second, cfg.AutoRefreshDebounce)
	assert.Equal(t, "release-pipeline", cfg.Flow)
	assert.False(t, cfg.UI.ShowStatusBar)
	assert.True(t, cfg.UI.ShowHints, "unset fields keep defaults")
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Tracing.Endpoint)
}

func TestLoad_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui: [not: a: map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPaths_ResolveUnderDataDir(t *testing.T) {
	cfg := Defaults()
	cfg.DataDir = "/tmp/stemma-data"

	db, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stemma-data/stemma.db", db)

	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stemma-data/stemma.log", logPath)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg, "template must round-trip to the default config")
}

// loadConfigFromYAML is a helper to load config from a YAML string.
func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(yaml), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	return cfg
}
