package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hay-kot/criterio"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
}

// APIConfig contains remote task service settings.
type APIConfig struct {
	BaseURL   string  `toml:"base_url"`
	SendToken bool    `toml:"send_token"`
	RateLimit float64 `toml:"rate_limit"`
}

// AuthConfig contains identity provider settings.
type AuthConfig struct {
	APIKey      string       `toml:"api_key"`
	IdentityURL string       `toml:"identity_url"`
	TokenURL    string       `toml:"token_url"`
	Google      GoogleConfig `toml:"google"`
}

// GoogleConfig contains Google OAuth client credentials used for "sign in with Google".
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Enabled reports whether Google sign-in credentials are configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UIConfig contains task view settings.
type UIConfig struct {
	PageSize          int    `toml:"page_size"`
	NotificationTTLMs int    `toml:"notification_ttl_ms"`
	LogFile           string `toml:"log_file"`
}

// NotificationTTL returns how long a status message stays visible.
func (u UIConfig) NotificationTTL() time.Duration {
	return time.Duration(u.NotificationTTLMs) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the fields the task client cannot run without.
func (c *Config) Validate() error {
	if err := criterio.ValidateStruct(
		criterio.Run("api.base_url", c.API.BaseURL, isHTTPURL),
		criterio.Run("api.rate_limit", c.API.RateLimit, isNonNegative),
		criterio.Run("auth.identity_url", c.Auth.IdentityURL, isHTTPURL),
		criterio.Run("auth.token_url", c.Auth.TokenURL, isHTTPURL),
		criterio.Run("ui.page_size", c.UI.PageSize, isPositive),
		criterio.Run("ui.notification_ttl_ms", c.UI.NotificationTTLMs, isPositive),
		criterio.Run("server.port", c.Server.Port, isPort),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func isHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func isPositive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be greater than zero, got %d", n)
	}
	return nil
}

func isNonNegative(f float64) error {
	if f < 0 {
		return fmt.Errorf("must not be negative, got %v", f)
	}
	return nil
}

func isPort(n int) error {
	if n < 1 || n > 65535 {
		return fmt.Errorf("must be between 1 and 65535, got %d", n)
	}
	return nil
}
