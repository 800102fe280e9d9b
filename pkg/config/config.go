/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the crate tool configuration
type Config struct {
	Encoding  string    `yaml:"encoding"`
	Backup    Backup    `yaml:"backup"`
	Snapshots Snapshots `yaml:"snapshots"`
	Logging   Logging   `yaml:"logging"`
}

// Backup controls the .bak copy taken before a crate is overwritten
type Backup struct {
	Enabled bool   `yaml:"enabled"`
	Suffix  string `yaml:"suffix"`
}

// Snapshots controls the snapshot history database. Keep bounds how many
// snapshots of each crate are retained after every save and is the default
// for history prune; 0 keeps everything.
type Snapshots struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Keep    int    `yaml:"keep"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Encoding: "legacy",
		Backup: Backup{
			Enabled: true,
			Suffix:  ".bak",
		},
		Snapshots: Snapshots{
			Enabled: false,
			Dir:     filepath.Join(defaultConfigDir(), "snapshots"),
			Keep:    20,
		},
		Logging: Logging{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate checks the configuration for values the tool cannot use
func (c *Config) Validate() error {
	switch strings.ToLower(c.Encoding) {
	case "", "legacy", "nullpad", "utf16", "utf-16", "utf16be", "raw":
	default:
		return fmt.Errorf("unknown encoding %q", c.Encoding)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Snapshots.Enabled && c.Snapshots.Dir == "" {
		return fmt.Errorf("snapshots enabled but no snapshot dir configured")
	}
	if c.Snapshots.Keep < 0 {
		return fmt.Errorf("snapshots.keep must not be negative")
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath. Unless force
// is set an existing file is left alone and an error is returned.
func BootstrapConfig(configPath string, force bool) (*Config, error) {
	if ConfigExists(configPath) && !force {
		return nil, fmt.Errorf("config file already exists: %s", configPath)
	}

	config := DefaultConfig()
	config.Snapshots.Dir = filepath.Join(filepath.Dir(configPath), "snapshots")

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.yaml")
}

func defaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".serato-crate"
	}

	// For Linux/macOS, use ~/.config/serato-crate
	return filepath.Join(homeDir, ".config", "serato-crate")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
