// Package config loads dboutline settings from a YAML file and the
// environment. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of a dboutline run.
type Config struct {
	Driver        string        `yaml:"driver,omitempty"`
	URL           string        `yaml:"url,omitempty"`
	Schemas       []string      `yaml:"schemas,omitempty"`
	ExcludeTables []string      `yaml:"exclude-tables,omitempty"`
	AllSchemas    bool          `yaml:"all-schemas,omitempty"`
	Format        string        `yaml:"format,omitempty"`
	Output        string        `yaml:"output,omitempty"`
	Script        string        `yaml:"script,omitempty"`
	LogLevel      string        `yaml:"log-level,omitempty"`
	MaxSteps      uint64        `yaml:"max-steps,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Driver:   "postgres",
		Format:   "text",
		LogLevel: "warn",
	}
}

// DefaultPath returns ~/.dboutline/config.yaml, or "" when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dboutline", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvURL           = "DATABASE_URL"
	EnvDriver        = "DBOUTLINE_DRIVER"
	EnvSchemas       = "DBOUTLINE_SCHEMAS"
	EnvExcludeTables = "DBOUTLINE_EXCLUDE_TABLES"
	EnvAllSchemas    = "DBOUTLINE_ALL_SCHEMAS"
	EnvFormat        = "DBOUTLINE_FORMAT"
	EnvLogLevel      = "DBOUTLINE_LOG_LEVEL"
)

// ApplyEnv overrides settings from the environment. Unset or empty
// variables leave the current value alone.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvURL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(EnvDriver); v != "" {
		c.Driver = v
	}
	if v := os.Getenv(EnvSchemas); v != "" {
		c.Schemas = SplitList(v)
	}
	if v := os.Getenv(EnvExcludeTables); v != "" {
		c.ExcludeTables = SplitList(v)
	}
	if v := os.Getenv(EnvAllSchemas); v != "" {
		all, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAllSchemas, err)
		}
		c.AllSchemas = all
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported driver %q: use 'postgres' or 'sqlite3'", c.Driver)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported output format %q: use 'text' or 'json'", c.Format)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.URL == "" {
		return fmt.Errorf("database URL is required: provide --url or %s", EnvURL)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q", c.LogLevel)
	}
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
