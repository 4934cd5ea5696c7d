package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasefe/dboutline/config"
)

// resolveConfig layers flags the user set over the environment, the config
// file and the defaults, then validates the result.
func resolveConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.Load(f.configPath, !explicit)
	if err != nil {
		return nil, err
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = f.maxSteps
	}
	if cfg.Timeout == 0 {
		if cfg.Timeout, err = parseTimeout(f.timeout); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("url") {
		cfg.URL = f.url
	}
	if changed("driver") {
		cfg.Driver = f.driver
	}
	if changed("schemas") {
		cfg.Schemas = f.schemas
	}
	if changed("exclude-tables") {
		cfg.ExcludeTables = f.excludeTables
	}
	if changed("all-schemas") {
		cfg.AllSchemas = f.allSchemas
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("max-steps") {
		cfg.MaxSteps = f.maxSteps
	}
	if changed("timeout") {
		if cfg.Timeout, err = parseTimeout(f.timeout); err != nil {
			return nil, err
		}
	}
	if f.script != "" {
		cfg.Script = f.script
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --timeout %q: %w", s, err)
	}
	return d, nil
}
