package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv(EnvPath, "")
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestPath(t *testing.T) {
	home := setupHome(t)

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "flowo", "config.yaml"), p)

	t.Setenv(EnvPath, "/tmp/elsewhere.yaml")
	p, err = Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.yaml", p)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	home := setupHome(t)

	cfg, err := Load(filepath.Join(home, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "flowo", "flowo.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(home, ".config", "flowo", "flowo.log"), cfg.Logging.File)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, home, cfg.Export.Dir)
	assert.Equal(t, 24*time.Hour, cfg.Notifications.Horizon)
	assert.Equal(t, time.Monday, cfg.WeekStart())
}

func TestLoadOverridesDefaults(t *testing.T) {
	home := setupHome(t)
	path := writeConfig(t, `
database:
  path: /data/flowo.db
logging:
  development: true
calendar:
  week_start: Sunday
notifications:
  horizon: 90m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/flowo.db", cfg.Database.Path)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, filepath.Join(home, ".config", "flowo", "flowo.log"), cfg.Logging.File)
	assert.Equal(t, time.Sunday, cfg.WeekStart())
	assert.Equal(t, 90*time.Minute, cfg.Notifications.Horizon)
}

func TestLoadEmptyFile(t *testing.T) {
	setupHome(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "monday", cfg.Calendar.WeekStart)
}

func TestLoadRejectsInvalid(t *testing.T) {
	setupHome(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad week start", "calendar:\n  week_start: friday\n"},
		{"zero horizon", "notifications:\n  horizon: 0s\n"},
		{"malformed yaml", "database: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	setupHome(t)
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Calendar.WeekStart = "sunday"
	cfg.Notifications.Horizon = 2 * time.Hour

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
