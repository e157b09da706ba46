package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-optimizer/internal/assistant"
	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/keywords"
	"github.com/jonathan/ats-optimizer/internal/resume"
)

func TestPrintKeywordReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &keywords.Report{
		TotalKeywords:   10,
		MatchedKeywords: 4,
		MatchPercentage: 40,
		KeywordDensity:  2.5,
		TopMissing:      []string{"safety", "first aid", "boarding", "teamwork", "languages", "french"},
		TopMatched:      []string{"customer service"},
		Recommendations: []string{"Add safety to your summary"},
	}

	p.PrintKeywordReport(report)
	output := buf.String()

	assert.Contains(t, output, "KEYWORD ANALYSIS")
	assert.Contains(t, output, "40% (4 of 10 keywords)")
	assert.Contains(t, output, "2.50%")
	assert.Contains(t, output, "safety")
	assert.Contains(t, output, "... and 1 more")
	assert.NotContains(t, output, "french")
	assert.NotContains(t, output, "Overused")
}

func TestPrintKeywordReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintKeywordReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPosting(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPosting(&ingestion.Posting{
		JobTitle:     "Cabin Crew",
		Company:      "Skyline Air",
		Source:       "https://boards.greenhouse.io/skyline/jobs/1",
		Platform:     "greenhouse",
		Keywords:     []string{"passenger", "safety"},
		Requirements: "Fluent English",
	})
	output := buf.String()

	assert.Contains(t, output, "JOB POSTING")
	assert.Contains(t, output, "Cabin Crew")
	assert.Contains(t, output, "Skyline Air")
	assert.Contains(t, output, "greenhouse")
	assert.Contains(t, output, "Requirements: 14 chars")
	assert.NotContains(t, output, "Location:")
	assert.NotContains(t, output, "Benefits")
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSections(&resume.Sections{
		Header:              resume.Header{Name: "JANE DOE", Contact: []string{"jane@example.com"}},
		ProfessionalSummary: "Friendly and safety focused cabin crew member.",
		ProfessionalExperience: []resume.Job{
			{Title: "Cabin Crew", Company: "Skyline Air", Bullets: []string{"a", "b"}},
		},
		Education: []resume.Education{{Degree: "BA Tourism", Institution: "City University"}},
		Languages: []string{"English", "French"},
	})
	output := buf.String()

	assert.Contains(t, output, "RESUME SECTIONS")
	assert.Contains(t, output, "JANE DOE")
	assert.Contains(t, output, "jane@example.com")
	assert.Contains(t, output, "Summary: 7 words")
	assert.Contains(t, output, "Cabin Crew @ Skyline Air (2 bullets)")
	assert.Contains(t, output, "BA Tourism City University")
	assert.Contains(t, output, "French")
}

func TestPrintSections_NoName(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSections(&resume.Sections{})
	assert.Contains(t, buf.String(), "(not found)")
}

func TestPrintOptimizeResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOptimizeResult(&assistant.OptimizeResult{
		Score:           75,
		ScoreBreakdown:  assistant.ScoreBreakdown{Impact: 80, Brevity: 75, Keywords: 70},
		MissingKeywords: []string{"safety"},
		Fallback:        true,
	})
	output := buf.String()

	assert.Contains(t, output, "Score:    75")
	assert.Contains(t, output, "Keywords: 70")
	assert.Contains(t, output, "default scores")
	assert.Contains(t, output, "safety")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}
