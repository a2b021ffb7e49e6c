package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Rules    RulesConfig    `yaml:"rules"`
	Plans    PlansConfig    `yaml:"plans,omitempty"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	BodyLimitMB  int      `yaml:"body_limit_mb"`
	AllowOrigins []string `yaml:"allow_origins,omitempty"`
}

// DatabaseConfig selects the gorm dialector and connection string.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | mysql | sqlite
	DSN      string `yaml:"dsn"`
	LogLevel string `yaml:"log_level"` // silent | error | warn | info
}

// LogConfig controls application logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

// RulesConfig points at an optional categorization rule book. An empty path
// means the built-in rules are used.
type RulesConfig struct {
	Path string `yaml:"path,omitempty"`
}

// PlansConfig overrides the default plan entitlements: tier name -> feature names.
type PlansConfig struct {
	Entitlements map[string][]string `yaml:"entitlements,omitempty"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for local use.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			BodyLimitMB:  10,
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "tally.db",
			LogLevel: "warn",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnv overrides file settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
		if os.Getenv("TALLY_DB_DRIVER") == "" && (strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://")) {
			c.Database.Driver = "postgres"
		}
	}
	if v := os.Getenv("TALLY_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// LoadOrDefault loads path when it exists, falls back to Default otherwise,
// and applies environment overrides in both cases.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}
