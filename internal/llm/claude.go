package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/logging"
)

// ClaudeClient implements Client for Anthropic Claude.
type ClaudeClient struct {
	client anthropic.Client
	config *Config
}

// NewClaudeClient creates a new Claude client
func NewClaudeClient(config *Config, apiKey string) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultAnthropicConfig()
	}

	return &ClaudeClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *ClaudeClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.send(ctx, tier, c.config.Temperature, anthropic.NewTextBlock(prompt))
}

// GenerateJSON generates JSON content using the specified model tier.
// Claude has no JSON response mode, so the reply is cleaned of fences.
func (c *ClaudeClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.send(ctx, tier, c.config.Temperature, anthropic.NewTextBlock(prompt))
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GenerateVision sends an image or PDF as a base64 block ahead of the prompt.
func (c *ClaudeClient) GenerateVision(ctx context.Context, prompt, mimeType string, data []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(data)

	var block anthropic.ContentBlockParamUnion
	if mimeType == "application/pdf" {
		block = anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: encoded})
	} else {
		block = anthropic.NewImageBlockBase64(mimeType, encoded)
	}
	return c.send(ctx, TierStandard, VisionTemperature, block, anthropic.NewTextBlock(prompt))
}

func (c *ClaudeClient) send(ctx context.Context, tier ModelTier, temperature float32, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	maxTokens := c.config.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	logging.Get().WithFields(logrus.Fields{"provider": ProviderAnthropic, "model": modelName, "tier": tier}).Debug("using model")

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(temperature)),
		Messages: []anthropic.MessageParam{{
			Content: blocks,
			Role:    anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", &ProviderError{Provider: ProviderAnthropic, Cause: err}
	}

	return claudeText(response)
}

func claudeText(response *anthropic.Message) (string, error) {
	if response == nil || len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	var parts []string
	for _, content := range response.Content {
		if content.Type == "text" {
			parts = append(parts, content.AsText().Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content in Claude response")
	}
	return strings.Join(parts, ""), nil
}

// GetModel returns the model name for a tier
func (c *ClaudeClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client needs no teardown.
func (c *ClaudeClient) Close() error {
	return nil
}
