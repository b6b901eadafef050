// Package config loads the simulation configuration from a YAML file
// with environment variable overrides and sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port     int    `yaml:"port"`
		AdminKey string `yaml:"admin_key"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Game struct {
		Seed          int64   `yaml:"seed"`
		PeriodSeconds int     `yaml:"period_seconds"`
		CycleStep     float64 `yaml:"cycle_step"`
		EventChance   float64 `yaml:"event_chance"`
		BotCount      int     `yaml:"bot_count"`
		BotDifficulty string  `yaml:"bot_difficulty"`
		StartingCash  float64 `yaml:"starting_cash"`
	} `yaml:"game"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is fine; defaults fill every gap.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ECONSIM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ECONSIM_ADMIN_KEY"); v != "" {
		cfg.Server.AdminKey = v
	}
	if v := os.Getenv("ECONSIM_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("ECONSIM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Game.Seed = seed
		}
	}
	if v := os.Getenv("ECONSIM_BOT_DIFFICULTY"); v != "" {
		cfg.Game.BotDifficulty = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/econsim.db"
	}
	if cfg.Game.PeriodSeconds == 0 {
		cfg.Game.PeriodSeconds = 5
	}
	if cfg.Game.CycleStep == 0 {
		cfg.Game.CycleStep = 0.01
	}
	if cfg.Game.EventChance == 0 {
		cfg.Game.EventChance = 0.25
	}
	if cfg.Game.BotCount == 0 {
		cfg.Game.BotCount = 3
	}
	if cfg.Game.BotDifficulty == "" {
		cfg.Game.BotDifficulty = "normal"
	}
	if cfg.Game.StartingCash == 0 {
		cfg.Game.StartingCash = 1500
	}

	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Game.CycleStep <= 0 || c.Game.CycleStep > 0.5 {
		return fmt.Errorf("game.cycle_step must be in (0, 0.5], got %g", c.Game.CycleStep)
	}
	if c.Game.EventChance < 0 || c.Game.EventChance > 1 {
		return fmt.Errorf("game.event_chance must be in [0, 1], got %g", c.Game.EventChance)
	}
	if c.Game.BotCount < 0 {
		return fmt.Errorf("game.bot_count must be non-negative, got %d", c.Game.BotCount)
	}
	return nil
}
