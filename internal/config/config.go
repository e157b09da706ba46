// Package config loads the service configuration from an optional YAML or JSON
// file and overlays environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	LLM     LLMConfig     `yaml:"llm" json:"llm"`
	Fetch   FetchConfig   `yaml:"fetch" json:"fetch"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	Auth    AuthConfig    `yaml:"auth" json:"auth"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

type ServerConfig struct {
	Port                int    `yaml:"port" json:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds" json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" json:"write_timeout_seconds"`
	CORSOrigin          string `yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB         int    `yaml:"max_upload_mb" json:"max_upload_mb"`
}

type LLMConfig struct {
	Provider string `yaml:"provider" json:"provider"`
	// APIKey is the server default key used when a request brings none.
	APIKey          string `yaml:"api_key" json:"api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key" json:"anthropic_api_key"`
	Model           string `yaml:"model" json:"model"`
	// ProviderKeys holds keys for OpenAI-compatible providers by name.
	ProviderKeys map[string]string `yaml:"provider_keys" json:"provider_keys"`
}

type FetchConfig struct {
	TimeoutSeconds  int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	UserAgent       string `yaml:"user_agent" json:"user_agent"`
	UseBrowser      bool   `yaml:"use_browser" json:"use_browser"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes" json:"cache_ttl_minutes"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend" json:"backend"`
	DatabaseURL   string `yaml:"database_url" json:"database_url"`
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" json:"redis_password"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	SecretKey     string `yaml:"secret_key" json:"secret_key"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret" json:"jwt_secret"`
	ExpirationHours int    `yaml:"expiration_hours" json:"expiration_hours"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 120,
			CORSOrigin:          "*",
			MaxUploadMB:         10,
		},
		LLM:     LLMConfig{Provider: "gemini"},
		Fetch:   FetchConfig{TimeoutSeconds: 30, CacheTTLMinutes: 24 * 60},
		Store:   StoreConfig{Backend: "memory"},
		Auth:    AuthConfig{ExpirationHours: 24 * 30},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads a YAML or JSON file over the defaults. The format is chosen by
// extension; anything other than .json is parsed as YAML.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}
	return cfg, nil
}

// Load returns the file configuration (or defaults when path is empty)
// overlaid with the environment, then validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() error {
	setString(&c.Server.CORSOrigin, "CORS_ORIGIN")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.APIKey, "GEMINI_API_KEY")
	setString(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.LLM.Model, "LLM_MODEL")
	for _, provider := range compatibleProviders {
		if v := strings.TrimSpace(os.Getenv(strings.ToUpper(provider) + "_API_KEY")); v != "" {
			if c.LLM.ProviderKeys == nil {
				c.LLM.ProviderKeys = make(map[string]string)
			}
			c.LLM.ProviderKeys[provider] = v
		}
	}
	setString(&c.Fetch.UserAgent, "FETCH_USER_AGENT")
	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Store.DatabaseURL, "DATABASE_URL")
	setString(&c.Store.RedisAddr, "REDIS_ADDR")
	setString(&c.Store.RedisPassword, "REDIS_PASSWORD")
	setString(&c.Store.SecretKey, "STORE_SECRET_KEY")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Server.Port, "PORT"},
		{&c.Server.ReadTimeoutSeconds, "SERVER_READ_TIMEOUT_SECONDS"},
		{&c.Server.WriteTimeoutSeconds, "SERVER_WRITE_TIMEOUT_SECONDS"},
		{&c.Server.MaxUploadMB, "MAX_UPLOAD_MB"},
		{&c.Fetch.TimeoutSeconds, "FETCH_TIMEOUT_SECONDS"},
		{&c.Fetch.CacheTTLMinutes, "FETCH_CACHE_TTL_MINUTES"},
		{&c.Store.RedisDB, "REDIS_DB"},
		{&c.Auth.ExpirationHours, "JWT_EXPIRATION_HOURS"},
	}
	for _, f := range ints {
		if err := setInt(f.dst, f.key); err != nil {
			return err
		}
	}

	if v := os.Getenv("USE_BROWSER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid USE_BROWSER: %v", err)
		}
		c.Fetch.UseBrowser = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = n
	return nil
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 || c.Fetch.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'server.max_upload_mb' must be non-negative")
	}
	if c.Fetch.CacheTTLMinutes < 0 {
		return fmt.Errorf("config error: 'fetch.cache_ttl_minutes' must be non-negative")
	}

	switch c.Store.Backend {
	case "", "memory":
	case "redis":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config error: 'store.database_url' is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config error: unknown store backend %q (use memory, redis, or postgres)", c.Store.Backend)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'logging.format' must be text or json")
	}
	return nil
}

// ProviderAPIKey returns the server default key for a provider, if any.
func (c *Config) ProviderAPIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "", "gemini":
		return c.LLM.APIKey
	case "anthropic":
		return c.LLM.AnthropicAPIKey
	}
	return c.LLM.ProviderKeys[strings.ToLower(provider)]
}

// compatibleProviders read their key from <NAME>_API_KEY.
var compatibleProviders = []string{"openai", "deepseek", "groq", "openrouter", "perplexity"}
