// Package llm wraps the hosted language models used for resume rewriting,
// generated documents and vision text extraction.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short generations: emails, LinkedIn copy
	TierLite ModelTier = "lite"
	// TierStandard is for structured output and vision extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for full resume rewrites
	TierAdvanced ModelTier = "advanced"
)

// Provider names an LLM vendor.
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenAI     Provider = "openai"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderGroq       Provider = "groq"
	ProviderOpenRouter Provider = "openrouter"
	ProviderPerplexity Provider = "perplexity"
)

// Generation defaults.
const (
	DefaultTemperature     = 0.7
	VisionTemperature      = 0.3
	DefaultMaxOutputTokens = 8192
)

// Config holds the model configuration for one provider. BaseURL is only
// read by OpenAI-compatible providers.
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	BaseURL         string
	Temperature     float32
	MaxOutputTokens int
}

// DefaultConfig returns the default configuration (Gemini).
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// DefaultAnthropicConfig returns the default Claude configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-3-5-sonnet-20241022",
			TierAdvanced: "claude-3-7-sonnet-latest",
		},
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// ParseProvider maps a provider name to a Provider. Empty selects Gemini.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case "", ProviderGemini:
		return ProviderGemini, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	}
	if _, ok := compatibleEndpoints[p]; ok {
		return p, nil
	}
	return "", &UnsupportedProviderError{Provider: name}
}

// ConfigFor returns the default configuration for a provider.
func ConfigFor(provider Provider) (*Config, error) {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiConfig(), nil
	case ProviderAnthropic:
		return DefaultAnthropicConfig(), nil
	}
	if config := DefaultCompatibleConfig(provider); config != nil {
		return config, nil
	}
	return nil, &UnsupportedProviderError{Provider: string(provider)}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithAllModels pins every tier to one model, as when a caller names a
// specific model for a request.
func (c *Config) WithAllModels(model string) *Config {
	if model == "" {
		return c
	}
	out := c
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		out = out.WithModel(tier, model)
	}
	return out
}

// UnsupportedProviderError is returned for provider names with no client.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("Provider '%s' not yet implemented.", e.Provider)
}

// ProviderError wraps a failed call to a provider API.
type ProviderError struct {
	Provider Provider
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
