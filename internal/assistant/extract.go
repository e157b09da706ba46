package assistant

import (
	"context"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/prompts"
)

// ExtractDocument reads the text out of an image or PDF. Resume-shaped
// output is requested for PDFs so the section detector can follow it.
func (s *Service) ExtractDocument(ctx context.Context, mimeType string, data []byte) (string, error) {
	key := "extract_document"
	if mimeType == "application/pdf" {
		key = "extract_resume"
	}

	text, err := s.client.GenerateVision(ctx, prompts.MustGet(prompts.ExtractionFile, key), mimeType, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
