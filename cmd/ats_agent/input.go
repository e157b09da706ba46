package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/ats-optimizer/internal/assistant"
	"github.com/jonathan/ats-optimizer/internal/documents"
	"github.com/jonathan/ats-optimizer/internal/llm"
)

// readText returns the contents of path, or stdin when path is "-".
func readText(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// readDocument extracts the text of a resume file. PDFs without a text layer
// and images need a configured model.
func readDocument(ctx context.Context, path, provider, apiKey, model string) (*documents.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	kind, err := documents.DetectKind(path, "")
	if err != nil {
		return nil, err
	}

	var vision documents.VisionExtractor
	if kind == documents.KindPDF || kind == documents.KindImage {
		if client, err := newClient(ctx, provider, apiKey, model); err == nil {
			defer client.Close()
			vision = assistant.New(client)
		}
	}
	return documents.Extract(ctx, filepath.Base(path), "", data, vision)
}

// newClient builds a model client. The key falls back to the configured key
// for the provider.
func newClient(ctx context.Context, provider, apiKey, model string) (llm.Client, error) {
	if provider == "" {
		provider = cfg.LLM.Provider
	}
	p, err := llm.ParseProvider(provider)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		apiKey = cfg.ProviderAPIKey(string(p))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for %s: set --api-key or the provider's API key variable", p)
	}
	if model == "" {
		model = cfg.LLM.Model
	}

	llmCfg, err := llm.ConfigFor(p)
	if err != nil {
		return nil, err
	}
	return llm.NewClient(ctx, llmCfg.WithAllModels(model), apiKey)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
