package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Backend.BaseURL != "http://localhost:8000" {
			t.Errorf("expected backend URL http://localhost:8000, got %s", config.Backend.BaseURL)
		}

		if config.Database.Path != "./sentix.db" {
			t.Errorf("expected database path ./sentix.db, got %s", config.Database.Path)
		}

		if config.Imports.MaxBytes != 10<<20 {
			t.Errorf("expected max_bytes %d, got %d", 10<<20, config.Imports.MaxBytes)
		}

		if config.Sandbox.Port != 8000 {
			t.Errorf("expected sandbox port 8000, got %d", config.Sandbox.Port)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[backend]
base_url = "https://sentiment.example.com"
timeout_seconds = 5

[database]
path = "/custom/path.db"

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.BaseURL != "https://sentiment.example.com" {
			t.Errorf("expected custom backend URL, got %s", config.Backend.BaseURL)
		}
		if config.Backend.Timeout() != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", config.Backend.Timeout())
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Imports.MaxBytes != 10<<20 {
			t.Errorf("expected missing max_bytes to keep default, got %d", config.Imports.MaxBytes)
		}
		if config.Log.ParseLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", config.Log.ParseLevel())
		}
	})

	t.Run("LoadConfig rejects empty base URL", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[backend]\nbase_url = \"\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig with malformed TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[backend\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("Timeout defaults", func(t *testing.T) {
		if got := (BackendConfig{}).Timeout(); got != 30*time.Second {
			t.Errorf("expected 30s default, got %v", got)
		}
	})

	t.Run("ParseLevel falls back to info", func(t *testing.T) {
		if got := (LogConfig{Level: "loud"}).ParseLevel(); got != log.InfoLevel {
			t.Errorf("expected info, got %v", got)
		}
	})
}
