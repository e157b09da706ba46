package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Metadata records where a posting came from and a digest of its text.
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA-256 hex digest of the cleaned text
	Platform  string `json:"platform,omitempty"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// MetadataFor describes a posting produced by one of the extractors.
func MetadataFor(p *Posting) *Metadata {
	m := NewMetadata(p.RawText, p.Source)
	m.Platform = p.Platform
	return m
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}

// WriteOutput writes job_posting.json and job_posting.meta.json to outDir.
func WriteOutput(outDir string, posting *Posting, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	postingJSON, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posting: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "job_posting.json"), postingJSON, 0644); err != nil {
		return fmt.Errorf("failed to write posting file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "job_posting.meta.json"), metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
