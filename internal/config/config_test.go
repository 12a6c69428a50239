package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.JournalPath == "" {
		t.Error("Default journal path should not be empty")
	}
	if cfg.MinPasswordLength != 8 {
		t.Errorf("MinPasswordLength = %d, want 8", cfg.MinPasswordLength)
	}
	if cfg.VerifyAttempts != 3 {
		t.Errorf("VerifyAttempts = %d, want 3", cfg.VerifyAttempts)
	}
	if !cfg.ConfirmDestructive {
		t.Error("ConfirmDestructive should default to true")
	}
}

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MinPasswordLength != 8 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file should have been created: %v", err)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	saved := &Config{
		JournalPath:        "/tmp/custom/journal.db",
		MinPasswordLength:  12,
		VerifyAttempts:     5,
		ConfirmDestructive: false,
	}
	if err := SaveConfig(saved, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.JournalPath != saved.JournalPath {
		t.Errorf("JournalPath = %q, want %q", loaded.JournalPath, saved.JournalPath)
	}
	if loaded.MinPasswordLength != 12 || loaded.VerifyAttempts != 5 {
		t.Errorf("Loaded config differs: %+v", loaded)
	}
}

func TestLoadConfigRepairsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("journal_path: /tmp/j.db\nmin_password_length: 0\nverify_attempts: -1\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MinPasswordLength != 8 {
		t.Errorf("MinPasswordLength = %d, want repaired default 8", cfg.MinPasswordLength)
	}
	if cfg.VerifyAttempts != 3 {
		t.Errorf("VerifyAttempts = %d, want repaired default 3", cfg.VerifyAttempts)
	}
}
