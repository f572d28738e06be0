// Package config loads service configuration.
//
// Sources, lowest precedence first:
//  1. DefaultConfig()
//  2. an optional YAML file
//  3. environment variables
//
// The API key for the completion service is normally supplied through
// OPENROUTER_API_KEY rather than the file, so the file can be committed.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sakif/profile-explorer/internal/completion"
	"github.com/sakif/profile-explorer/internal/directory"
	"github.com/sakif/profile-explorer/internal/service"
)

type Config struct {
	Port     int    `yaml:"port"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`

	// DeviceSecret signs device cookies. When empty, the server generates a
	// random secret at startup and every device cookie dies on restart.
	DeviceSecret string `yaml:"device_secret"`

	Directory  DirectoryConfig  `yaml:"directory"`
	Completion CompletionConfig `yaml:"completion"`
	Compare    CompareConfig    `yaml:"compare"`
}

type DirectoryConfig struct {
	BaseURL           string `yaml:"base_url"`
	ListingPageSize   int    `yaml:"listing_page_size"`
	NarrativePageSize int    `yaml:"narrative_page_size"`
}

type CompletionConfig struct {
	BaseURL      string  `yaml:"base_url"`
	APIKey       string  `yaml:"api_key"`
	Model        string  `yaml:"model"`
	SystemPrompt string  `yaml:"system_prompt"`
	Temperature  float32 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	SiteURL      string  `yaml:"site_url"`
	SiteName     string  `yaml:"site_name"`
}

type CompareConfig struct {
	// JoinPolicy is "fail_fast" (default) or "collect_all".
	JoinPolicy string `yaml:"join_policy"`
}

func DefaultConfig() *Config {
	c := completion.DefaultConfig()
	return &Config{
		Port:     8080,
		DBPath:   "data/explorer.db",
		LogLevel: "info",
		Directory: DirectoryConfig{
			BaseURL:           directory.DefaultBaseURL,
			ListingPageSize:   directory.ListingPageSize,
			NarrativePageSize: directory.NarrativePageSize,
		},
		Completion: CompletionConfig{
			BaseURL:      c.BaseURL,
			Model:        c.Model,
			SystemPrompt: c.SystemPrompt,
			Temperature:  c.Temperature,
			MaxTokens:    c.MaxTokens,
			SiteURL:      c.SiteURL,
			SiteName:     c.SiteName,
		},
		Compare: CompareConfig{
			JoinPolicy: string(service.JoinFailFast),
		},
	}
}

// Load builds the configuration. path may be empty to skip the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}

	vars := []struct {
		env string
		dst *string
	}{
		{"DB_PATH", &c.DBPath},
		{"LOG_LEVEL", &c.LogLevel},
		{"DEVICE_SECRET", &c.DeviceSecret},
		{"GITHUB_API_URL", &c.Directory.BaseURL},
		{"OPENROUTER_API_KEY", &c.Completion.APIKey},
		{"OPENROUTER_BASE_URL", &c.Completion.BaseURL},
		{"OPENROUTER_MODEL", &c.Completion.Model},
		{"OPENROUTER_SITE_URL", &c.Completion.SiteURL},
		{"OPENROUTER_SITE_NAME", &c.Completion.SiteName},
		{"COMPARE_JOIN_POLICY", &c.Compare.JoinPolicy},
	}
	for _, s := range vars {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if n := c.Directory.ListingPageSize; n < 1 || n > 100 {
		return fmt.Errorf("config: directory.listing_page_size must be 1..100, got %d", n)
	}
	if n := c.Directory.NarrativePageSize; n < 1 || n > 100 {
		return fmt.Errorf("config: directory.narrative_page_size must be 1..100, got %d", n)
	}
	if c.Completion.BaseURL == "" || c.Completion.Model == "" {
		return fmt.Errorf("config: completion.base_url and completion.model are required")
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		return fmt.Errorf("config: completion.temperature must be between 0 and 2")
	}
	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("config: completion.max_tokens must be positive")
	}
	if _, err := service.ParseJoinPolicy(c.Compare.JoinPolicy); err != nil {
		return fmt.Errorf("config: compare.join_policy: %w", err)
	}
	if c.DeviceSecret != "" && len(c.DeviceSecret) < 16 {
		return fmt.Errorf("config: device_secret must be at least 16 characters")
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// CompletionClientConfig converts to the completion package's Config.
func (c *Config) CompletionClientConfig() completion.Config {
	return completion.Config{
		BaseURL:      c.Completion.BaseURL,
		APIKey:       c.Completion.APIKey,
		Model:        c.Completion.Model,
		SystemPrompt: c.Completion.SystemPrompt,
		Temperature:  c.Completion.Temperature,
		MaxTokens:    c.Completion.MaxTokens,
		SiteURL:      c.Completion.SiteURL,
		SiteName:     c.Completion.SiteName,
	}
}
