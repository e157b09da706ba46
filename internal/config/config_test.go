package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "ats.yaml", `
server:
  port: 9090
llm:
  provider: anthropic
store:
  backend: redis
  redis_addr: cache:6379
fetch:
  use_browser: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.True(t, cfg.Fetch.UseBrowser)

	// Untouched sections keep their defaults.
	assert.Equal(t, 30, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "ats.json", `{"logging": {"level": "debug", "format": "json"}, "auth": {"jwt_secret": "abc"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "abc", cfg.Auth.JWTSecret)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty path", "", "config path is empty"},
		{"missing file", filepath.Join(t.TempDir(), "nope.yaml"), "failed to read config file"},
		{"bad json", writeFile(t, "bad.json", "{"), "failed to parse config JSON"},
		{"bad yaml", writeFile(t, "bad.yaml", "server: [1, 2"), "failed to parse config YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/ats")
	t.Setenv("USE_BROWSER", "true")
	t.Setenv("LOG_LEVEL", " warn ")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "gem-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/ats", cfg.Store.DatabaseURL)
	assert.True(t, cfg.Fetch.UseBrowser)
	assert.Equal(t, "warn", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		err := Default().ApplyEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid REDIS_DB")
	})

	t.Run("bool", func(t *testing.T) {
		t.Setenv("USE_BROWSER", "sometimes")
		err := Default().ApplyEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid USE_BROWSER")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative timeout", func(c *Config) { c.Fetch.TimeoutSeconds = -1 }, "timeouts must be non-negative"},
		{"negative upload", func(c *Config) { c.Server.MaxUploadMB = -1 }, "max_upload_mb"},
		{"negative ttl", func(c *Config) { c.Fetch.CacheTTLMinutes = -5 }, "cache_ttl_minutes"},
		{"postgres without url", func(c *Config) { c.Store.Backend = "postgres" }, "database_url"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, `unknown store backend "etcd"`},
		{"redis ok", func(c *Config) { c.Store.Backend = "redis" }, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	path := writeFile(t, "ats.yml", "store:\n  backend: postgres\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")

	t.Setenv("DATABASE_URL", "postgres://db/ats")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/ats", cfg.Store.DatabaseURL)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestProviderAPIKey(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "gem"
	cfg.LLM.AnthropicAPIKey = "claude"

	assert.Equal(t, "gem", cfg.ProviderAPIKey(""))
	assert.Equal(t, "gem", cfg.ProviderAPIKey("Gemini"))
	assert.Equal(t, "claude", cfg.ProviderAPIKey("anthropic"))
	assert.Equal(t, "", cfg.ProviderAPIKey("openai"))
}

func TestProviderAPIKey_CompatibleProviders(t *testing.T) {
	tests := []struct {
		env      string
		provider string
	}{
		{"OPENAI_API_KEY", "openai"},
		{"DEEPSEEK_API_KEY", "DeepSeek"},
		{"GROQ_API_KEY", "groq"},
		{"OPENROUTER_API_KEY", "openrouter"},
		{"PERPLEXITY_API_KEY", "perplexity"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv(tt.env, " key-"+tt.provider+" ")
			cfg := Default()
			require.NoError(t, cfg.ApplyEnv())
			assert.Equal(t, "key-"+tt.provider, cfg.ProviderAPIKey(tt.provider))
			assert.Equal(t, "", cfg.ProviderAPIKey("mistral"))
		})
	}
}
