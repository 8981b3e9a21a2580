// Package config loads nimfmt configuration from YAML with defaults, flag
// merging, and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/shell"
)

// Config represents nimfmt configuration options
type Config struct {
	// Cmd is the formatter command: binary name followed by fixed arguments
	// (e.g. ["nimpretty", "--maxLineLen:100"]). The first element names the
	// command in status and error messages.
	Cmd []string `yaml:"cmd"`

	// FormatOnSave gates automatic formatting when a document is saved
	FormatOnSave bool `yaml:"format_on_save"`

	// Timeout is the maximum time one formatter run may take (0 = no limit)
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written ("" disables
	// file logging)
	LogDir string `yaml:"log_dir"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Cmd:          []string{"nimpretty"},
		FormatOnSave: true,
		Timeout:      time.Minute,
		LogLevel:     "info",
		LogDir:       filepath.Join(".nimfmt", "logs"),
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Temporary struct so that absent keys keep their defaults: a pointer
	// bool distinguishes "false" from "not set", the cmd node accepts both
	// list and string forms, and timeout is parsed from a duration string.
	type yamlConfig struct {
		Cmd          yaml.Node `yaml:"cmd"`
		FormatOnSave *bool     `yaml:"format_on_save"`
		Timeout      string    `yaml:"timeout"`
		LogLevel     string    `yaml:"log_level"`
		LogDir       *string   `yaml:"log_dir"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cmd, err := decodeCmd(&yamlCfg.Cmd)
	if err != nil {
		return nil, err
	}
	if cmd != nil {
		cfg.Cmd = cmd
	}
	if yamlCfg.FormatOnSave != nil {
		cfg.FormatOnSave = *yamlCfg.FormatOnSave
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != nil {
		// Explicitly set log_dir, even if empty string (disables file logs)
		cfg.LogDir = *yamlCfg.LogDir
	}

	return cfg, nil
}

// decodeCmd accepts the cmd setting either as a YAML list of strings or as a
// single shell-quoted string ("nimpretty --maxLineLen:100"). Returns nil when
// the key is absent.
func decodeCmd(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		// Key absent
		return nil, nil
	case yaml.SequenceNode:
		var cmd []string
		if err := node.Decode(&cmd); err != nil {
			return nil, fmt.Errorf("invalid cmd list: %w", err)
		}
		return cmd, nil
	case yaml.ScalarNode:
		var raw string
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid cmd value: %w", err)
		}
		fields, err := shell.Fields(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid cmd string %q: %w", raw, err)
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("cmd must be a string or a list of strings")
	}
}

// LoadConfigFromDir loads configuration from .nimfmt/config.yaml in the
// specified directory. If the directory or file doesn't exist, returns
// default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".nimfmt", "config.yaml")
	return LoadConfig(configPath)
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(cmd *[]string, timeout *time.Duration, formatOnSave *bool, logLevel *string) {
	if cmd != nil {
		c.Cmd = *cmd
	}
	if timeout != nil {
		c.Timeout = *timeout
	}
	if formatOnSave != nil {
		c.FormatOnSave = *formatOnSave
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if len(c.Cmd) == 0 || c.Cmd[0] == "" {
		return fmt.Errorf("cmd must name a formatter binary")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	// Timeout can be 0 (no timeout) or positive, negative is invalid
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}

	return nil
}
