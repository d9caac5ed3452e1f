package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/outbidhq/outbid/internal/auction"
)

// Config represents the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains the game rules and housekeeping knobs.
type GameSettings struct {
	StartingMoney    int    `hcl:"starting_money,optional"`
	RoundsToWin      int    `hcl:"rounds_to_win,optional"`
	ResultsDisplayMs int    `hcl:"results_display_ms,optional"`
	RetentionMinutes int    `hcl:"retention_minutes,optional"`
	DefaultMode      string `hcl:"default_mode,optional"`
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			StartingMoney:    100,
			RoundsToWin:      3,
			ResultsDisplayMs: 10000,
			RetentionMinutes: 120,
			DefaultMode:      "all-pay",
		},
	}
}

// LoadConfig loads server configuration from an HCL file, falling back
// to defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.StartingMoney == 0 {
		config.Game.StartingMoney = defaults.Game.StartingMoney
	}
	if config.Game.RoundsToWin == 0 {
		config.Game.RoundsToWin = defaults.Game.RoundsToWin
	}
	if config.Game.ResultsDisplayMs == 0 {
		config.Game.ResultsDisplayMs = defaults.Game.ResultsDisplayMs
	}
	if config.Game.RetentionMinutes == 0 {
		config.Game.RetentionMinutes = defaults.Game.RetentionMinutes
	}
	if config.Game.DefaultMode == "" {
		config.Game.DefaultMode = defaults.Game.DefaultMode
	}

	return &config, nil
}

// Validate validates the server configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.StartingMoney <= 0 {
		return fmt.Errorf("starting money must be positive, got %d", c.Game.StartingMoney)
	}
	if c.Game.RoundsToWin <= 0 {
		return fmt.Errorf("rounds to win must be positive, got %d", c.Game.RoundsToWin)
	}
	if c.Game.ResultsDisplayMs < 0 {
		return fmt.Errorf("results display delay must not be negative, got %d", c.Game.ResultsDisplayMs)
	}
	if c.Game.RetentionMinutes <= 0 {
		return fmt.Errorf("retention must be positive, got %d minutes", c.Game.RetentionMinutes)
	}
	if _, err := auction.ParseMode(c.Game.DefaultMode); err != nil {
		return fmt.Errorf("invalid default mode %q", c.Game.DefaultMode)
	}
	return nil
}

// ListenAddr returns the full listen address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameConfig carries the engine and housekeeping knobs the registry
// needs at runtime.
type GameConfig struct {
	StartingMoney  int
	RoundsToWin    int
	ResultsDisplay time.Duration
	Retention      time.Duration
	SweepInterval  time.Duration
	DefaultMode    string
}

// GameConfig converts the parsed settings into registry configuration.
func (c *Config) GameConfig() GameConfig {
	return GameConfig{
		StartingMoney:  c.Game.StartingMoney,
		RoundsToWin:    c.Game.RoundsToWin,
		ResultsDisplay: time.Duration(c.Game.ResultsDisplayMs) * time.Millisecond,
		Retention:      time.Duration(c.Game.RetentionMinutes) * time.Minute,
		SweepInterval:  time.Minute,
		DefaultMode:    c.Game.DefaultMode,
	}
}
