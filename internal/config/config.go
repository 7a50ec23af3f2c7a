// Package config loads the hexsim YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/world"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Map       MapConfig     `yaml:"map"`
	Generator mapgen.Config `yaml:"generator"`
	Units     []UnitConfig  `yaml:"units"`
	Log       LogConfig     `yaml:"log"`
	Entropy   EntropyConfig `yaml:"entropy"`
}

type ServerConfig struct {
	Addr                 string        `yaml:"addr"`
	DBPath               string        `yaml:"dbPath"`
	GenerateLimitPerHour int           `yaml:"generateLimitPerHour"` // POST /api/v1/maps per client
	TurnInterval         time.Duration `yaml:"turnInterval"`         // Zero ends turns only on request
}

type MapConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	Wrapping bool `yaml:"wrapping"`
}

type UnitConfig struct {
	Name        string `yaml:"name"`
	Speed       int    `yaml:"speed"`
	VisionRange int    `yaml:"visionRange"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// EntropyConfig enables random.org seeds when an API key is present.
type EntropyConfig struct {
	RandomOrgKey string `yaml:"randomOrgKey"`
}

// Default returns a configuration that validates as is.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                 ":8080",
			DBPath:               "hexworld.db",
			GenerateLimitPerHour: 30,
		},
		Map: MapConfig{
			Width:  40,
			Height: 30,
		},
		Generator: mapgen.DefaultConfig(),
		Units: []UnitConfig{
			{Name: world.Scout.Name, Speed: world.Scout.Speed, VisionRange: world.Scout.VisionRange},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file if provided, then applies
// environment overrides. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("HEXWORLD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HEXWORLD_DB"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("RANDOM_ORG_API_KEY"); v != "" && cfg.Entropy.RandomOrgKey == "" {
		cfg.Entropy.RandomOrgKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if c.Server.DBPath == "" {
		return errors.New("server.dbPath must be set")
	}
	if c.Server.GenerateLimitPerHour < 0 {
		return errors.New("server.generateLimitPerHour cannot be negative")
	}
	if c.Server.TurnInterval < 0 {
		return errors.New("server.turnInterval cannot be negative")
	}
	if c.Map.Width <= 0 || c.Map.Width%world.ChunkSizeX != 0 {
		return fmt.Errorf("map.width must be a positive multiple of %d", world.ChunkSizeX)
	}
	if c.Map.Height <= 0 || c.Map.Height%world.ChunkSizeZ != 0 {
		return fmt.Errorf("map.height must be a positive multiple of %d", world.ChunkSizeZ)
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if len(c.Units) == 0 {
		return errors.New("units cannot be empty")
	}
	seen := make(map[string]bool, len(c.Units))
	for i, u := range c.Units {
		if u.Name == "" {
			return fmt.Errorf("units[%d].name must be set", i)
		}
		if seen[u.Name] {
			return fmt.Errorf("units[%d].name %q is duplicated", i, u.Name)
		}
		seen[u.Name] = true
		if u.Speed <= 0 {
			return fmt.Errorf("units[%d].speed must be positive", i)
		}
		if u.VisionRange < 0 {
			return fmt.Errorf("units[%d].visionRange cannot be negative", i)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// UnitTypes returns the configured unit types keyed by name.
func (c *Config) UnitTypes() map[string]world.UnitType {
	types := make(map[string]world.UnitType, len(c.Units))
	for _, u := range c.Units {
		types[u.Name] = world.UnitType{Name: u.Name, Speed: u.Speed, VisionRange: u.VisionRange}
	}
	return types
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level %q is not one of debug, info, warn, error", s)
}

// WriteDefault writes the default configuration as YAML.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
