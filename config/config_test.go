package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Game.Seed, cfg.Game.Seed)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Game.UserTeamID = "team_7"
	cfg.Server.Port = "9090"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "team_7", loaded.Game.UserTeamID)
	assert.Equal(t, "9090", loaded.Server.Port)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("FM_SEED", "42")
	t.Setenv("FM_USER_TEAM", "team_3")
	t.Setenv("FM_LOG_LEVEL", "DEBUG")
	t.Setenv("FM_AUTO_ADVANCE", "-3")
	t.Setenv("FM_DB_DRIVER", "file")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Game.Seed)
	assert.Equal(t, "team_3", cfg.Game.UserTeamID)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "file", cfg.Database.Driver)
	assert.Zero(t, cfg.Game.AutoAdvanceSeconds)
}
