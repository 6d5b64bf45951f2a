package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port     string `yaml:"port" env:"SERVER_PORT"`
		Mode     string `yaml:"mode" env:"SERVER_MODE"`
		Timezone string `yaml:"timezone" env:"SERVER_TIMEZONE"`
	} `yaml:"server"`

	Upstream struct {
		BaseURL         string   `yaml:"base_url" env:"UPSTREAM_BASE_URL"`
		Timeout         string   `yaml:"timeout" env:"UPSTREAM_TIMEOUT"`
		RateLimit       float64  `yaml:"rate_limit" env:"UPSTREAM_RATE_LIMIT"`
		Burst           int      `yaml:"burst" env:"UPSTREAM_BURST"`
		TLSSkipVerify   bool     `yaml:"tls_skip_verify" env:"UPSTREAM_TLS_SKIP_VERIFY"`
		ProxiedPrefixes []string `yaml:"proxied_prefixes" env:"UPSTREAM_PROXIED_PREFIXES"`
	} `yaml:"upstream"`

	Auth struct {
		Token     string `yaml:"token" env:"AUTH_TOKEN"`
		TokenFile string `yaml:"token_file" env:"AUTH_TOKEN_FILE"`
	} `yaml:"auth"`

	Console struct {
		MaxWorkspaces int    `yaml:"max_workspaces" env:"CONSOLE_MAX_WORKSPACES"`
		SessionCookie string `yaml:"session_cookie" env:"CONSOLE_SESSION_COOKIE"`
		PageSize      int    `yaml:"page_size" env:"CONSOLE_PAGE_SIZE"`
		NoticeBuffer  int    `yaml:"notice_buffer" env:"CONSOLE_NOTICE_BUFFER"`
		IdleTimeout   string `yaml:"idle_timeout" env:"CONSOLE_IDLE_TIMEOUT"`
		SecureCookie  bool   `yaml:"secure_cookie" env:"CONSOLE_SECURE_COOKIE"`
	} `yaml:"console"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment variables win over the file
	if err := applyEnv(reflect.ValueOf(config)); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.Timezone = "Local"

	// Upstream defaults
	config.Upstream.BaseURL = "http://localhost:5000"
	config.Upstream.Timeout = "15s"
	config.Upstream.Burst = 1
	config.Upstream.ProxiedPrefixes = []string{"/api", "/auth"}

	// Console defaults
	config.Console.MaxWorkspaces = 256
	config.Console.SessionCookie = "console_session"
	config.Console.PageSize = 10
	config.Console.NoticeBuffer = 32
	config.Console.IdleTimeout = "30m"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base url is required")
	}

	u, err := url.Parse(config.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid upstream base url: %q", config.Upstream.BaseURL)
	}

	if _, err := time.ParseDuration(config.Upstream.Timeout); err != nil {
		return fmt.Errorf("invalid upstream timeout format: %w", err)
	}

	if config.Upstream.RateLimit < 0 {
		return fmt.Errorf("upstream rate limit must not be negative")
	}

	if config.Console.MaxWorkspaces <= 0 {
		return fmt.Errorf("console max workspaces must be positive")
	}

	if _, err := time.ParseDuration(config.Console.IdleTimeout); err != nil {
		return fmt.Errorf("invalid console idle timeout format: %w", err)
	}

	if config.Console.SessionCookie == "" {
		return fmt.Errorf("console session cookie name is required")
	}

	if _, err := time.LoadLocation(config.Server.Timezone); err != nil {
		return fmt.Errorf("invalid server timezone: %w", err)
	}

	for _, prefix := range config.Upstream.ProxiedPrefixes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("proxied prefix %q must start with /", prefix)
		}
	}

	return nil
}

// UpstreamURL returns the parsed upstream base url. The config is validated on load.
func (c *Config) UpstreamURL() *url.URL {
	u, _ := url.Parse(strings.TrimRight(c.Upstream.BaseURL, "/"))
	return u
}

// UpstreamTimeout returns the per-request upstream timeout
func (c *Config) UpstreamTimeout() time.Duration {
	d, err := time.ParseDuration(c.Upstream.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// IdleTimeout returns how long an unused workspace is kept
func (c *Config) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Console.IdleTimeout)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// Location returns the time zone event dates are entered in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
