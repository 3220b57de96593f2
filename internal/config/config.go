// ABOUTME: Configuration loading and parsing for telegate
// ABOUTME: YAML files with environment variable expansion and startup validation

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete telegate configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Admin    AdminConfig    `yaml:"admin"`
	Auth     AuthConfig     `yaml:"auth"`
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP listener configuration.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	// SecureCookies marks session cookies Secure; enable behind TLS.
	SecureCookies bool `yaml:"secure_cookies"`
}

// AdminConfig holds the admin login pair and dashboard policy.
type AdminConfig struct {
	Username string `yaml:"username"`
	// Password is the plaintext admin password. PasswordHash (bcrypt) is
	// preferred and wins when both are set.
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
	// GateDashboard requires a valid session to load the dashboard page
	// itself, not just the APIs behind it. Defaults to true.
	GateDashboard bool `yaml:"gate_dashboard"`
}

// AuthConfig holds session signing configuration.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// TelegramConfig holds bot transport configuration.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	// WebhookSecret, when set, must match the secret query parameter on
	// inbound webhook requests.
	WebhookSecret string `yaml:"webhook_secret"`
	// AdminIDs are Telegram sender IDs allowed to manage the whitelist
	// from inside a chat via /add, /del, /list.
	AdminIDs []int64 `yaml:"admin_ids"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	// defaults that survive absent keys
	cfg := Config{
		Admin: AdminConfig{GateDashboard: true},
	}
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. An unset variable becomes an empty string,
// which Validate then catches for required fields.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present.
// A failure here aborts startup; none of these are per-request conditions.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Admin.Username == "" {
		return fmt.Errorf("admin.username is required")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("one of admin.password or admin.password_hash is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
