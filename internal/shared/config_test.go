package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:5000" {
			t.Errorf("expected api base_url http://localhost:5000, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./taskly.db" {
			t.Errorf("expected database path ./taskly.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.UI.PageSize != 4 {
			t.Errorf("expected page size 4, got %d", config.UI.PageSize)
		}

		if config.UI.NotificationTTL() != 3*time.Second {
			t.Errorf("expected notification ttl 3s, got %v", config.UI.NotificationTTL())
		}

		if config.Auth.Google.Enabled() {
			t.Error("expected google sign-in to be disabled by default")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.API.BaseURL != defaultConfig.API.BaseURL {
			t.Errorf("created config base url doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://tasks.example.com"
send_token = true
rate_limit = 2.5

[auth]
api_key = "test_api_key"

[auth.google]
client_id = "test_client_id"
client_secret = "test_secret"

[database]
path = "/custom/path.db"

[ui]
page_size = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://tasks.example.com" {
			t.Errorf("expected base url https://tasks.example.com, got %s", config.API.BaseURL)
		}

		if !config.API.SendToken {
			t.Error("expected send_token to be true")
		}

		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.API.RateLimit)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.UI.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", config.UI.PageSize)
		}

		if config.UI.NotificationTTLMs != 3000 {
			t.Errorf("expected missing keys to keep defaults, got notification ttl %d", config.UI.NotificationTTLMs)
		}

		if !config.Auth.Google.Enabled() {
			t.Error("expected google sign-in to be enabled")
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error for invalid TOML")
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.API.BaseURL = "https://saved.example.com"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.API.BaseURL != "https://saved.example.com" {
			t.Errorf("expected saved base url, got %s", loaded.API.BaseURL)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(c *Config)
		}{
			{name: "empty base url", mutate: func(c *Config) { c.API.BaseURL = "" }},
			{name: "non http base url", mutate: func(c *Config) { c.API.BaseURL = "ftp://tasks.example.com" }},
			{name: "negative rate limit", mutate: func(c *Config) { c.API.RateLimit = -1 }},
			{name: "empty identity url", mutate: func(c *Config) { c.Auth.IdentityURL = "" }},
			{name: "hostless token url", mutate: func(c *Config) { c.Auth.TokenURL = "https://" }},
			{name: "zero page size", mutate: func(c *Config) { c.UI.PageSize = 0 }},
			{name: "zero notification ttl", mutate: func(c *Config) { c.UI.NotificationTTLMs = 0 }},
			{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)

				err := config.Validate()
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
