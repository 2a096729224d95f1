package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetXDGDirs_ExplicitEnv(t *testing.T) {
	base := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	dirs, err := GetXDGDirs()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "config", "assetbridge"), dirs.ConfigHome)
	assert.Equal(t, filepath.Join(base, "data", "assetbridge"), dirs.DataHome)
	assert.Equal(t, filepath.Join(base, "state", "assetbridge"), dirs.StateHome)
}

func TestGetXDGDirs_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", "assetbridge"), dirs.ConfigHome)
	assert.Equal(t, filepath.Join(home, ".local", "share", "assetbridge"), dirs.DataHome)
	assert.Equal(t, filepath.Join(home, ".local", "state", "assetbridge"), dirs.StateHome)
}

func TestGetXDGDirs_DevMode(t *testing.T) {
	t.Setenv("ENV", "dev")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)

	// All three trees collapse into .dev under the working directory
	assert.Equal(t, dirs.ConfigHome, dirs.DataHome)
	assert.Equal(t, dirs.DataHome, dirs.StateHome)
	assert.Contains(t, dirs.ConfigHome, filepath.Join(".dev", "assetbridge"))
}

func TestDerivedPaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	configFile, err := GetConfigFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "config", "assetbridge", "config.toml"), configFile)

	dbFile, err := GetDatabaseFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "data", "assetbridge", "assetbridge.sqlite"), dbFile)

	snapshotDir, err := GetSnapshotDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "state", "assetbridge", "cache"), snapshotDir)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	require.NoError(t, EnsureDirectories())

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	for _, dir := range []string{dirs.ConfigHome, dirs.DataHome, dirs.StateHome} {
		assert.DirExists(t, dir)
	}
}
