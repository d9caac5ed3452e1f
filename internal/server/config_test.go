package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "outbid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
}

func TestLoadConfigFull(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

game {
  starting_money     = 250
  rounds_to_win      = 2
  results_display_ms = 5000
  retention_minutes  = 60
  default_mode       = "vickrey"
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 250, cfg.Game.StartingMoney)
	assert.Equal(t, "vickrey", cfg.Game.DefaultMode)
}

func TestLoadConfigPartialFillsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server {
  port = 9999
}

game {
  starting_money = 50
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Game.StartingMoney)
	assert.Equal(t, 3, cfg.Game.RoundsToWin)
	assert.Equal(t, "all-pay", cfg.Game.DefaultMode)
}

func TestLoadConfigBadSyntax(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `server { port = `)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero results display", func(c *Config) { c.Game.ResultsDisplayMs = 0 }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, false},
		{"zero starting money", func(c *Config) { c.Game.StartingMoney = 0 }, false},
		{"negative rounds to win", func(c *Config) { c.Game.RoundsToWin = -1 }, false},
		{"negative results display", func(c *Config) { c.Game.ResultsDisplayMs = -1 }, false},
		{"zero retention", func(c *Config) { c.Game.RetentionMinutes = 0 }, false},
		{"unknown mode", func(c *Config) { c.Game.DefaultMode = "dutch" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGameConfigConversion(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	gc := cfg.GameConfig()

	assert.Equal(t, 100, gc.StartingMoney)
	assert.Equal(t, 10*time.Second, gc.ResultsDisplay)
	assert.Equal(t, 2*time.Hour, gc.Retention)
	assert.Equal(t, time.Minute, gc.SweepInterval)
	assert.Equal(t, "all-pay", gc.DefaultMode)
}
