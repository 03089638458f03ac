// Package config provides configuration management for the feed client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL       = errors.New("api.base_url is required")
	ErrInvalidBaseURL       = errors.New("api.base_url must be an absolute http(s) URL")
	ErrMissingAPIKey        = errors.New("api.api_key is required")
	ErrMissingQuery         = errors.New("api.query is required")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
	ErrMissingServerAddress = errors.New("server.address is required")
	ErrInvalidTitleWidth    = errors.New("presentation.max_title_width must be at least 10")
	ErrInvalidOutputFormat  = errors.New("presentation.format must be one of: table, markdown, json")
)

// APIKeyEnv overrides api.api_key when set.
const APIKeyEnv = "NEWSFEED_API_KEY"

// Config represents the complete client configuration.
type Config struct {
	API          APIConfig          `yaml:"api"`
	Logging      LoggingConfig      `yaml:"logging"`
	Server       ServerConfig       `yaml:"server"`
	Presentation PresentationConfig `yaml:"presentation"`
	Features     FeaturesConfig     `yaml:"features"`
}

// APIConfig describes the upstream news search endpoint.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Query   string `yaml:"query"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds the HTTP read API settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// PresentationConfig controls terminal rendering.
type PresentationConfig struct {
	Format        string `yaml:"format"`
	MaxTitleWidth int    `yaml:"max_title_width"`
	Colors        bool   `yaml:"colors"`
}

// FeaturesConfig contains behavior flags.
type FeaturesConfig struct {
	// LegacyAuthorGuard keeps the historical author extraction guard,
	// which checks the article's webTitle instead of the tag's.
	LegacyAuthorGuard bool `yaml:"legacy_author_guard"`
}

// Default returns a configuration that validates without a file.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://content.guardianapis.com/search",
			APIKey:  "test",
			Query:   "politics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Address: ":8080",
		},
		Presentation: PresentationConfig{
			Format:        "table",
			MaxTitleWidth: 72,
			Colors:        true,
		},
		Features: FeaturesConfig{
			LegacyAuthorGuard: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file layered over Default.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(APIKeyEnv); key != "" {
		c.API.APIKey = key
	}
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}

	if c.API.APIKey == "" {
		return ErrMissingAPIKey
	}

	if strings.TrimSpace(c.API.Query) == "" {
		return ErrMissingQuery
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Server.Address == "" {
		return ErrMissingServerAddress
	}

	if c.Presentation.MaxTitleWidth < 10 {
		return ErrInvalidTitleWidth
	}

	switch c.Presentation.Format {
	case "table", "markdown", "json":
	default:
		return ErrInvalidOutputFormat
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, Query: %s, Format: %s}",
		c.API.BaseURL,
		c.API.Query,
		c.Presentation.Format,
	)
}
