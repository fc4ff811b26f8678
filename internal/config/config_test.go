package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/targetrange/server/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaultsForMissingSections(t *testing.T) {
	path := writeConfig(t, `
[server]
name = "test-range"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-range", cfg.Server.Name)
	assert.Equal(t, 50*time.Millisecond, cfg.Sim.TickRate.Duration)
	assert.Equal(t, 2.0, cfg.Movement.DefaultSpeed)
	assert.Equal(t, 20, cfg.Director.IntervalTicks)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NotZero(t, cfg.Server.StartTime)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sim]
tick_rate = "20ms"
data_dir = "custom/data"

[movement]
default_speed = 3.5

[director]
enabled = false
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Sim.TickRate.Duration)
	assert.Equal(t, "custom/data", cfg.Sim.DataDir)
	assert.Equal(t, 3.5, cfg.Movement.DefaultSpeed)
	assert.False(t, cfg.Director.Enabled)
}

func TestLoadRejectsNonPositiveSpeed(t *testing.T) {
	path := writeConfig(t, `
[movement]
default_speed = -1.0
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_speed")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
