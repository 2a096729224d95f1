package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points every XDG tree at a fresh temp dir so tests never touch
// the real user directories.
func isolateXDG(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", base)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	return base
}

func writeConfigFile(t *testing.T, level string) string {
	t.Helper()
	configDir, err := GetConfigDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	path := filepath.Join(configDir, "config.toml")
	content := fmt.Sprintf("[api]\nbase_url = \"http://localhost:8080\"\n\n[logging]\nlevel = %q\n", level)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManager_Load(t *testing.T) {
	isolateXDG(t)
	writeConfigFile(t, "debug")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset values fall back to defaults
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 1500, cfg.Cache.MaxEntries)
	// Database path is derived from XDG when not configured
	assert.Contains(t, cfg.Database.Path, "assetbridge.sqlite")
}

func TestManager_LoadCreatesDefaultConfig(t *testing.T) {
	isolateXDG(t)

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	configFile, err := GetConfigFile()
	require.NoError(t, err)
	assert.FileExists(t, configFile)
	assert.Equal(t, "info", m.Get().Logging.Level)
}

func TestManager_WatchReloadsOnChange(t *testing.T) {
	isolateXDG(t)
	writeConfigFile(t, "info")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())
	require.Equal(t, "info", m.Get().Logging.Level)

	reloaded := make(chan *Config, 1)
	m.OnConfigChange(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, m.Watch())
	// Watch is idempotent
	require.NoError(t, m.Watch())

	writeConfigFile(t, "debug")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.Logging.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config change callback never fired")
	}
	assert.Equal(t, "debug", m.Get().Logging.Level)
}

func TestManager_WatchIgnoresInvalidReload(t *testing.T) {
	isolateXDG(t)
	path := writeConfigFile(t, "info")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	m.OnConfigChange(func(*Config) {
		t.Error("callback fired for a config that fails validation")
	})
	require.NoError(t, m.Watch())

	// An edit that breaks validation must keep the last good config
	bad := "[api]\nbase_url = \"http://localhost:8080\"\n\n[logging]\nlevel = \"loud\"\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, "info", m.Get().Logging.Level)
}
