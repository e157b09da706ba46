package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/jonathan/ats-optimizer/internal/logging"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateVision answers a prompt about an image or document
	GenerateVision(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
	// GetModel returns the provider model name for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// ErrMissingAPIKey is returned when a client is built without credentials.
var ErrMissingAPIKey = errors.New("API key is required")

// NewClient creates a client for config.Provider.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic:
		return NewClaudeClient(config, apiKey)
	case ProviderOpenAI, ProviderDeepSeek, ProviderGroq, ProviderOpenRouter, ProviderPerplexity:
		return NewOpenAIClient(config, apiKey)
	default:
		return nil, &UnsupportedProviderError{Provider: string(config.Provider)}
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(tier ModelTier, temperature float32) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	logging.Get().WithFields(logrus.Fields{"provider": ProviderGemini, "model": modelName, "tier": tier}).Debug("using model")

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	if c.config.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(c.config.MaxOutputTokens))
	}
	return model, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier, c.config.Temperature)
	if err != nil {
		return "", err
	}
	return c.generate(ctx, model, genai.Text(prompt))
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier, c.config.Temperature)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"

	text, err := c.generate(ctx, model, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GenerateVision sends the document inline alongside the prompt.
func (c *GeminiClient) GenerateVision(ctx context.Context, prompt, mimeType string, data []byte) (string, error) {
	model, err := c.model(TierStandard, VisionTemperature)
	if err != nil {
		return "", err
	}
	return c.generate(ctx, model, genai.Text(prompt), genai.Blob{MIMEType: mimeType, Data: data})
}

func (c *GeminiClient) generate(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Cause: err}
	}
	return extractTextFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse joins the text parts of the first candidate.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
