// Package config handles configuration for the journal CLI. It provides
// functionality to load, save, and default the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the journal configuration.
type Config struct {
	JournalPath        string `yaml:"journal_path"`
	MinPasswordLength  int    `yaml:"min_password_length"`
	VerifyAttempts     int    `yaml:"verify_attempts"`
	ConfirmDestructive bool   `yaml:"confirm_destructive"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		JournalPath:        filepath.Join(home, ".local", "share", "somnium", "journal.db"),
		MinPasswordLength:  8,
		VerifyAttempts:     3,
		ConfirmDestructive: true,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "somnium", "config.yaml")
}

// LoadConfig loads configuration from file, creating a default config file
// when none exists yet.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}

	cleanPath := filepath.Clean(configPath)
	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		if err := SaveConfig(cfg, cleanPath); err != nil {
			return cfg, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.MinPasswordLength < 1 {
		cfg.MinPasswordLength = DefaultConfig().MinPasswordLength
	}
	if cfg.VerifyAttempts < 1 {
		cfg.VerifyAttempts = DefaultConfig().VerifyAttempts
	}
	return cfg, nil
}

// SaveConfig saves configuration to file.
func SaveConfig(cfg *Config, configPath string) error {
	cleanPath := filepath.Clean(configPath)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
