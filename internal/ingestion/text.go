package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/jonathan/ats-optimizer/internal/keywords"
	"github.com/jonathan/ats-optimizer/internal/textnorm"
)

const (
	// MaxPostingKeywords caps Posting.Keywords.
	MaxPostingKeywords = 30
	// maxSectionLength caps a section body in characters.
	maxSectionLength = 500
)

// Section header synonyms, searched in order.
var (
	ResponsibilitiesHeaders = []string{"responsibilities", "duties", "what you will do", "role description"}
	RequirementsHeaders     = []string{"requirements", "qualifications", "what you need", "skills required"}
	SkillsHeaders           = []string{"skills", "competencies", "abilities", "technical skills"}
	BenefitsHeaders         = []string{"benefits", "perks", "what we offer", "compensation"}
)

// sectionStop ends a section at the next known header word, counted only at
// the start of a line or when a colon follows it.
var sectionStop = regexp.MustCompile(`(?im)^[ \t]*(?:` + stopWords + `)\b|\b(?:` + stopWords + `)[ \t]*:`)

const stopWords = `requirements|qualifications|skills|benefits|responsibilities|about|company|apply`

// headerPatterns caches the compiled case-insensitive pattern per header.
var headerPatterns sync.Map

func headerPattern(header string) *regexp.Regexp {
	if re, ok := headerPatterns.Load(header); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := headerPatterns.LoadOrStore(header, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(header)))
	return re.(*regexp.Regexp)
}

func init() {
	for _, list := range [][]string{ResponsibilitiesHeaders, RequirementsHeaders, SkillsHeaders, BenefitsHeaders} {
		for _, header := range list {
			headerPattern(header)
		}
	}
}

var postingWord = regexp.MustCompile(`\b[a-z]{4,}\b`)

var (
	textTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bposition[^:\n]*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\bjob\s*title[^:\n]*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\brole[^:\n]*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\btitle[^:\n]*:\s*([^\n]+)`),
	}
	textCompanyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcompany[^:\n]*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\bemployer[^:\n]*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\borganization[^:\n]*:\s*([^\n]+)`),
	}
)

// ExtractFromText structures pasted job description text.
func ExtractFromText(text string) *Posting {
	cleaned := textnorm.CleanJobText(text)

	p := &Posting{
		JobTitle:    orDefault(firstMatch(textTitlePatterns, cleaned), TitleNotSpecified),
		Company:     orDefault(firstMatch(textCompanyPatterns, cleaned), CompanyNotSpecified),
		Description: cleaned,
		RawText:     cleaned,
	}
	fillSections(p, cleaned)
	return p
}

func fillSections(p *Posting, text string) {
	p.Responsibilities = ExtractSection(text, ResponsibilitiesHeaders)
	p.Requirements = ExtractSection(text, RequirementsHeaders)
	p.Skills = ExtractSection(text, SkillsHeaders)
	p.Benefits = ExtractSection(text, BenefitsHeaders)
	p.Keywords = ExtractKeywords(text)
}

// ExtractSection returns the body following the first header synonym found
// in text (checked in list order, case-insensitive). The body ends at the
// next known section header or after 500 characters, whichever comes first.
// A missing header yields "".
func ExtractSection(text string, headers []string) string {
	for _, header := range headers {
		if header == "" {
			continue
		}
		loc := headerPattern(header).FindStringIndex(text)
		if loc == nil {
			continue
		}

		body := text[loc[1]:]
		if stop := sectionStop.FindStringIndex(body); stop != nil {
			body = body[:stop[0]]
		}
		body = truncateRunes(body, maxSectionLength)

		return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(body), ":-–"))
	}
	return ""
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ExtractKeywords returns the 30 most frequent words of four or more
// letters, most frequent first. Ties keep first-seen order.
func ExtractKeywords(text string) []string {
	ranked := keywords.RankByFrequency(postingWord.FindAllString(strings.ToLower(text), -1), MaxPostingKeywords)
	words := make([]string, 0, len(ranked))
	for _, r := range ranked {
		words = append(words, r.Term)
	}
	return words
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// IngestFromFile reads a pasted job description saved to disk.
func IngestFromFile(path string) (*Posting, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	posting := ExtractFromText(string(content))
	return posting, NewMetadata(posting.RawText, ""), nil
}
