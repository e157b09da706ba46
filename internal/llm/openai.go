package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/logging"
)

// compatibleEndpoint describes a provider that speaks the OpenAI chat
// completions protocol.
type compatibleEndpoint struct {
	name    string
	baseURL string
	vision  bool
	models  map[ModelTier]string
}

// compatibleMaxOutputTokens caps completions for OpenAI-compatible providers.
const compatibleMaxOutputTokens = 4096

var compatibleEndpoints = map[Provider]compatibleEndpoint{
	ProviderOpenAI: {
		name:    "OpenAI",
		baseURL: "https://api.openai.com/v1",
		vision:  true,
		models:  map[ModelTier]string{TierLite: "gpt-4o-mini", TierStandard: "gpt-4o-mini", TierAdvanced: "gpt-4o"},
	},
	ProviderDeepSeek: {
		name:    "DeepSeek",
		baseURL: "https://api.deepseek.com",
		models:  map[ModelTier]string{TierLite: "deepseek-chat", TierStandard: "deepseek-chat", TierAdvanced: "deepseek-chat"},
	},
	ProviderGroq: {
		name:    "Groq",
		baseURL: "https://api.groq.com/openai/v1",
		models:  map[ModelTier]string{TierLite: "llama-3.1-8b-instant", TierStandard: "llama-3.3-70b-versatile", TierAdvanced: "llama-3.3-70b-versatile"},
	},
	ProviderOpenRouter: {
		name:    "OpenRouter",
		baseURL: "https://openrouter.ai/api/v1",
		vision:  true,
		models: map[ModelTier]string{
			TierLite:     "google/gemini-2.0-flash-exp:free",
			TierStandard: "anthropic/claude-3.5-sonnet",
			TierAdvanced: "anthropic/claude-3.5-sonnet",
		},
	},
	ProviderPerplexity: {
		name:    "Perplexity",
		baseURL: "https://api.perplexity.ai",
		models: map[ModelTier]string{
			TierLite:     "llama-3.1-sonar-small-128k-online",
			TierStandard: "llama-3.1-sonar-large-128k-online",
			TierAdvanced: "llama-3.1-sonar-large-128k-online",
		},
	},
}

// DefaultCompatibleConfig returns the configuration for an OpenAI-compatible
// provider, or nil when provider is not one.
func DefaultCompatibleConfig(provider Provider) *Config {
	endpoint, ok := compatibleEndpoints[provider]
	if !ok {
		return nil
	}
	models := make(map[ModelTier]string, len(endpoint.models))
	for tier, model := range endpoint.models {
		models[tier] = model
	}
	return &Config{
		Provider:        provider,
		Models:          models,
		BaseURL:         endpoint.baseURL,
		Temperature:     DefaultTemperature,
		MaxOutputTokens: compatibleMaxOutputTokens,
	}
}

// OpenAIClient implements Client for every provider in compatibleEndpoints.
type OpenAIClient struct {
	client   *openai.Client
	config   *Config
	endpoint compatibleEndpoint
}

// NewOpenAIClient creates a chat completions client for config.Provider.
// config.BaseURL overrides the provider's public endpoint.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultCompatibleConfig(ProviderOpenAI)
	}
	endpoint, ok := compatibleEndpoints[config.Provider]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: string(config.Provider)}
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = endpoint.baseURL
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(clientConfig),
		config:   config,
		endpoint: endpoint,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.send(ctx, tier, c.config.Temperature, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

// GenerateJSON generates JSON content. Not every compatible provider honors
// a JSON response format, so the reply is cleaned of fences instead.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GenerateVision sends the document as a data URL image part.
func (c *OpenAIClient) GenerateVision(ctx context.Context, prompt, mimeType string, data []byte) (string, error) {
	if !c.endpoint.vision {
		return "", &VisionUnsupportedError{Provider: c.endpoint.name}
	}

	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return c.send(ctx, TierStandard, VisionTemperature, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
		},
	})
}

func (c *OpenAIClient) send(ctx context.Context, tier ModelTier, temperature float32, message openai.ChatCompletionMessage) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	maxTokens := c.config.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = compatibleMaxOutputTokens
	}

	logging.Get().WithFields(logrus.Fields{"provider": c.config.Provider, "model": modelName, "tier": tier}).Debug("using model")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelName,
		Messages:    []openai.ChatCompletionMessage{message},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &ProviderError{Provider: c.config.Provider, Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from %s", c.endpoint.name)
	}
	return resp.Choices[0].Message.Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client needs no teardown.
func (c *OpenAIClient) Close() error {
	return nil
}

// VisionUnsupportedError is returned when a provider cannot read images or
// PDFs.
type VisionUnsupportedError struct {
	Provider string
}

func (e *VisionUnsupportedError) Error() string {
	return fmt.Sprintf("%s does not support image/PDF extraction. Please use Gemini or OpenAI for file uploads.", e.Provider)
}
