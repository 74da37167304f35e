package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BlifFlavor selects which BLIF dialect write-blif emits by default.
type BlifFlavor string

const (
	// FlavorStandard translates builtin gates to .names / .latch.
	FlavorStandard BlifFlavor = "standard"
	// FlavorICells emits every cell as .subckt / .gate.
	FlavorICells BlifFlavor = "icells"
)

// Config holds all configuration for yogo
type Config struct {
	// TopModule is the default top module for backends when the design
	// carries no top attribute and no --top flag is given
	TopModule string `yaml:"top_module" env:"YOGO_TOP_MODULE"`

	// BlifFlavor is the default BLIF dialect
	BlifFlavor BlifFlavor `yaml:"blif_flavor" env:"YOGO_BLIF_FLAVOR"`

	// BlifConn emits nonstandard .conn statements by default
	BlifConn bool `yaml:"blif_conn" env:"YOGO_BLIF_CONN"`

	// BlifParam emits nonstandard .param statements by default
	BlifParam bool `yaml:"blif_param" env:"YOGO_BLIF_PARAM"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" env:"YOGO_LOG_LEVEL"`

	// Verbose forces debug-level logging
	Verbose bool `yaml:"verbose" env:"YOGO_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TopModule:  "",
		BlifFlavor: FlavorStandard,
		BlifConn:   false,
		BlifParam:  false,
		LogLevel:   "info",
		Verbose:    false,
	}
}

// globalConfigFilePath returns the global config file path (~/.yogo/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".yogo/config.yaml"
	}
	return filepath.Join(home, ".yogo", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.yogo/config.yaml)
func projectConfigFilePath() string {
	return ".yogo/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.yogo/config.yaml)
// 3. Global config (~/.yogo/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// 1. Load global config (~/.yogo/config.yaml)
	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	// 2. Load project-level config (./.yogo/config.yaml) - overrides global
	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	// 3. Override with environment variables
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write to file with 0644 permissions
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("YOGO_TOP_MODULE"); v != "" {
		cfg.TopModule = v
	}
	if v := os.Getenv("YOGO_BLIF_FLAVOR"); v != "" {
		cfg.BlifFlavor = BlifFlavor(v)
	}
	if v := os.Getenv("YOGO_BLIF_CONN"); v != "" {
		cfg.BlifConn = v == "true" || v == "1" || v == "yes"
	}
	if v := os.Getenv("YOGO_BLIF_PARAM"); v != "" {
		cfg.BlifParam = v == "true" || v == "1" || v == "yes"
	}
	if v := os.Getenv("YOGO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("YOGO_VERBOSE"); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	switch c.BlifFlavor {
	case FlavorStandard, FlavorICells, "":
		// Valid
	default:
		return fmt.Errorf("invalid blif_flavor: %s (must be 'standard' or 'icells')", c.BlifFlavor)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
		// Valid
	default:
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}
