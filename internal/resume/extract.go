package resume

import (
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/textnorm"
)

// Extract normalizes raw resume text and detects its sections.
func Extract(rawText string) *Extraction {
	cleaned := textnorm.Normalize(rawText)
	return &Extraction{
		RawText:        rawText,
		CleanedText:    cleaned,
		Sections:       DetectSections(cleaned),
		WordCount:      textnorm.WordCount(cleaned),
		CharacterCount: utf8.RuneCountInString(cleaned),
	}
}
