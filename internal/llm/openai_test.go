package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatRequest is the subset of a chat completions request the tests inspect.
type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

type recordedCall struct {
	path  string
	auth  string
	input chatRequest
}

// newChatServer answers every chat completion with reply and records calls.
func newChatServer(t *testing.T, status int, reply string) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{path: r.URL.Path, auth: r.Header.Get("Authorization")}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&call.input))
		calls = append(calls, call)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"` + reply + `","type":"invalid_request_error"}}`))
			return
		}
		body, _ := json.Marshal(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func compatibleClient(t *testing.T, provider Provider, baseURL string) *OpenAIClient {
	t.Helper()
	config := DefaultCompatibleConfig(provider)
	require.NotNil(t, config)
	config.BaseURL = baseURL
	client, err := NewOpenAIClient(config, "sk-test")
	require.NoError(t, err)
	return client
}

func TestDefaultCompatibleConfig(t *testing.T) {
	tests := []struct {
		provider Provider
		baseURL  string
		standard string
	}{
		{ProviderOpenAI, "https://api.openai.com/v1", "gpt-4o-mini"},
		{ProviderDeepSeek, "https://api.deepseek.com", "deepseek-chat"},
		{ProviderGroq, "https://api.groq.com/openai/v1", "llama-3.3-70b-versatile"},
		{ProviderOpenRouter, "https://openrouter.ai/api/v1", "anthropic/claude-3.5-sonnet"},
		{ProviderPerplexity, "https://api.perplexity.ai", "llama-3.1-sonar-large-128k-online"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			config := DefaultCompatibleConfig(tt.provider)
			require.NotNil(t, config)
			assert.Equal(t, tt.provider, config.Provider)
			assert.Equal(t, tt.baseURL, config.BaseURL)
			assert.Equal(t, tt.standard, config.GetModel(TierStandard))
			assert.Equal(t, 4096, config.MaxOutputTokens)
		})
	}

	assert.Nil(t, DefaultCompatibleConfig(ProviderGemini))
}

func TestOpenAIClient_GenerateContent(t *testing.T) {
	for _, provider := range []Provider{ProviderOpenAI, ProviderDeepSeek, ProviderGroq, ProviderOpenRouter, ProviderPerplexity} {
		t.Run(string(provider), func(t *testing.T) {
			srv, calls := newChatServer(t, http.StatusOK, "Rewritten summary")
			client := compatibleClient(t, provider, srv.URL+"/")

			got, err := client.GenerateContent(context.Background(), "Rewrite this", TierAdvanced)
			require.NoError(t, err)
			assert.Equal(t, "Rewritten summary", got)

			require.Len(t, *calls, 1)
			call := (*calls)[0]
			assert.Equal(t, "/chat/completions", call.path)
			assert.Equal(t, "Bearer sk-test", call.auth)
			assert.Equal(t, client.GetModel(TierAdvanced), call.input.Model)
			assert.Equal(t, 4096, call.input.MaxTokens)
			require.Len(t, call.input.Messages, 1)
			assert.Equal(t, "user", call.input.Messages[0].Role)
			assert.JSONEq(t, `"Rewrite this"`, string(call.input.Messages[0].Content))
		})
	}
}

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	srv, _ := newChatServer(t, http.StatusOK, "```json\n{\"score\": 80}\n```")
	client := compatibleClient(t, ProviderGroq, srv.URL)

	got, err := client.GenerateJSON(context.Background(), "Score it", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"score": 80}`, got)
}

func TestOpenAIClient_GenerateVision(t *testing.T) {
	srv, calls := newChatServer(t, http.StatusOK, "JANE DOE")
	client := compatibleClient(t, ProviderOpenAI, srv.URL)

	got, err := client.GenerateVision(context.Background(), "Extract text", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE", got)

	require.Len(t, *calls, 1)
	var parts []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal((*calls)[0].input.Messages[0].Content, &parts))
	require.Len(t, parts, 2)
	assert.Equal(t, "Extract text", parts[0].Text)
	assert.Equal(t, "image_url", parts[1].Type)
	assert.Equal(t, "data:image/png;base64,cG5n", parts[1].ImageURL.URL)
}

func TestOpenAIClient_VisionUnsupported(t *testing.T) {
	for _, provider := range []Provider{ProviderDeepSeek, ProviderGroq, ProviderPerplexity} {
		t.Run(string(provider), func(t *testing.T) {
			srv, calls := newChatServer(t, http.StatusOK, "unused")
			client := compatibleClient(t, provider, srv.URL)

			_, err := client.GenerateVision(context.Background(), "Extract text", "application/pdf", []byte("%PDF"))
			var unsupported *VisionUnsupportedError
			require.ErrorAs(t, err, &unsupported)
			assert.Contains(t, err.Error(), "does not support image/PDF extraction")
			assert.Empty(t, *calls)
		})
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv, _ := newChatServer(t, http.StatusUnauthorized, "Incorrect API key provided")
		client := compatibleClient(t, ProviderDeepSeek, srv.URL)

		_, err := client.GenerateContent(context.Background(), "hi", TierLite)
		var providerErr *ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, ProviderDeepSeek, providerErr.Provider)
		assert.Contains(t, err.Error(), "Incorrect API key provided")
	})

	t.Run("empty reply", func(t *testing.T) {
		srv, _ := newChatServer(t, http.StatusOK, "")
		client := compatibleClient(t, ProviderPerplexity, srv.URL)

		_, err := client.GenerateContent(context.Background(), "hi", TierLite)
		assert.EqualError(t, err, "empty response from Perplexity")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewOpenAIClient(DefaultCompatibleConfig(ProviderOpenAI), "")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("not a compatible provider", func(t *testing.T) {
		_, err := NewOpenAIClient(DefaultAnthropicConfig(), "key")
		var unsupported *UnsupportedProviderError
		assert.ErrorAs(t, err, &unsupported)
	})
}
