package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// clearEnv blanks every variable Load reads; empty values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_PATH", "LOG_LEVEL", "DEVICE_SECRET", "GITHUB_API_URL",
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_MODEL",
		"OPENROUTER_SITE_URL", "OPENROUTER_SITE_NAME", "COMPARE_JOIN_POLICY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.github.com/", cfg.Directory.BaseURL)
	assert.Equal(t, 100, cfg.Directory.ListingPageSize)
	assert.Equal(t, 10, cfg.Directory.NarrativePageSize)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Completion.BaseURL)
	assert.Equal(t, "mistralai/mistral-7b-instruct:free", cfg.Completion.Model)
	assert.InDelta(t, 0.7, cfg.Completion.Temperature, 1e-6)
	assert.Equal(t, 500, cfg.Completion.MaxTokens)
	assert.Equal(t, "fail_fast", cfg.Compare.JoinPolicy)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
port: 9000
db_path: /tmp/notes.db
directory:
  base_url: http://ghe.internal/api/v3
completion:
  model: some/model
compare:
  join_policy: collect_all
`)
	clearEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("OPENROUTER_API_KEY", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port, "env wins over file")
	assert.Equal(t, "/tmp/notes.db", cfg.DBPath)
	assert.Equal(t, "http://ghe.internal/api/v3", cfg.Directory.BaseURL)
	assert.Equal(t, "some/model", cfg.Completion.Model)
	assert.Equal(t, "sk-env", cfg.Completion.APIKey)
	assert.Equal(t, "collect_all", cfg.Compare.JoinPolicy)

	// Fields the file leaves out keep their defaults.
	assert.Equal(t, 500, cfg.Completion.MaxTokens)
	assert.Equal(t, 100, cfg.Directory.ListingPageSize)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "port: [not a number"))
		assert.Error(t, err)
	})

	t.Run("bad PORT", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		_, err := Load("")
		assert.ErrorContains(t, err, "PORT")
	})

	t.Run("unknown join policy", func(t *testing.T) {
		t.Setenv("COMPARE_JOIN_POLICY", "whenever")
		_, err := Load("")
		assert.ErrorContains(t, err, "join_policy")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too big", func(c *Config) { c.Port = 70000 }},
		{"no db path", func(c *Config) { c.DBPath = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"page size zero", func(c *Config) { c.Directory.ListingPageSize = 0 }},
		{"page size over cap", func(c *Config) { c.Directory.NarrativePageSize = 101 }},
		{"no model", func(c *Config) { c.Completion.Model = "" }},
		{"temperature", func(c *Config) { c.Completion.Temperature = 3 }},
		{"max tokens", func(c *Config) { c.Completion.MaxTokens = 0 }},
		{"short secret", func(c *Config) { c.DeviceSecret = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		cfg.LogLevel = in
		got, err := cfg.SlogLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCompletionClientConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Completion.APIKey = "sk"

	cc := cfg.CompletionClientConfig()
	assert.Equal(t, "sk", cc.APIKey)
	assert.Equal(t, cfg.Completion.Model, cc.Model)
	assert.Equal(t, cfg.Completion.SystemPrompt, cc.SystemPrompt)
}
