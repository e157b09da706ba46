// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/assistant"
	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/keywords"
	"github.com/jonathan/ats-optimizer/internal/resume"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes at most maxItemsToShow items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintKeywordReport outputs the match summary of a keyword analysis.
func (p *Printer) PrintKeywordReport(report *keywords.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match:    %d%% (%d of %d keywords)\n", report.MatchPercentage, report.MatchedKeywords, report.TotalKeywords))
	sb.WriteString(fmt.Sprintf("Density:  %.2f%%\n", report.KeywordDensity))
	sb.WriteString(fmt.Sprintf("Groups:   %d hard, %d soft, %d tools, %d industry\n",
		len(report.Categories.HardSkills),
		len(report.Categories.SoftSkills),
		len(report.Categories.TechnicalTools),
		len(report.Categories.IndustryTerms),
	))
	sb.WriteString("\n")

	writeList(&sb, "Top Missing", report.TopMissing)
	writeList(&sb, "Top Matched", report.TopMatched)
	writeList(&sb, "Overused", report.OverusedKeywords)
	writeList(&sb, "Recommendations", report.Recommendations)

	p.printBox("KEYWORD ANALYSIS", sb.String())
}

// PrintPosting outputs a summary of an extracted job posting.
func (p *Printer) PrintPosting(posting *ingestion.Posting) {
	if posting == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", posting.JobTitle))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", posting.Company))
	if posting.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", posting.Location))
	}
	if posting.Source != "" {
		sb.WriteString(fmt.Sprintf("Source:   %s\n", posting.Source))
	}
	if posting.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", posting.Platform))
	}
	sb.WriteString("\n")

	writeList(&sb, "Keywords", posting.Keywords)
	for _, section := range []struct {
		name string
		body string
	}{
		{"Responsibilities", posting.Responsibilities},
		{"Requirements", posting.Requirements},
		{"Skills", posting.Skills},
		{"Benefits", posting.Benefits},
	} {
		if section.body != "" {
			sb.WriteString(fmt.Sprintf("%s: %d chars\n", section.name, len(section.body)))
		}
	}

	p.printBox("JOB POSTING", sb.String())
}

// PrintSections outputs the sections detected in a resume.
func (p *Printer) PrintSections(sections *resume.Sections) {
	if sections == nil {
		return
	}

	var sb strings.Builder
	name := sections.Header.Name
	if name == "" {
		name = "(not found)"
	}
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	for _, c := range sections.Header.Contact {
		sb.WriteString(fmt.Sprintf("          %s\n", c))
	}
	sb.WriteString("\n")

	if sections.ProfessionalSummary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %d words\n\n", len(strings.Fields(sections.ProfessionalSummary))))
	}

	if len(sections.ProfessionalExperience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(sections.ProfessionalExperience), maxItemsToShow)
		for _, job := range sections.ProfessionalExperience[:count] {
			sb.WriteString(fmt.Sprintf("  • %s", job.Title))
			if job.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", job.Company))
			}
			sb.WriteString(fmt.Sprintf(" (%d bullets)\n", len(job.Bullets)))
		}
		if len(sections.ProfessionalExperience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(sections.ProfessionalExperience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	education := make([]string, 0, len(sections.Education))
	for _, e := range sections.Education {
		education = append(education, strings.TrimSpace(e.Degree+" "+e.Institution))
	}
	writeList(&sb, "Education", education)
	writeList(&sb, "Core Competencies", sections.CoreCompetencies)
	writeList(&sb, "Skills", sections.Skills)
	writeList(&sb, "Languages", sections.Languages)
	writeList(&sb, "Certifications", sections.Certifications)

	p.printBox("RESUME SECTIONS", sb.String())
}

// PrintOptimizeResult outputs the scores of an optimize-resume run.
func (p *Printer) PrintOptimizeResult(result *assistant.OptimizeResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d\n", result.Score))
	sb.WriteString(fmt.Sprintf("Impact:   %d\n", result.ScoreBreakdown.Impact))
	sb.WriteString(fmt.Sprintf("Brevity:  %d\n", result.ScoreBreakdown.Brevity))
	sb.WriteString(fmt.Sprintf("Keywords: %d\n", result.ScoreBreakdown.Keywords))
	if result.Fallback {
		sb.WriteString("(model reply was not JSON; default scores)\n")
	}
	sb.WriteString("\n")

	writeList(&sb, "Missing Keywords", result.MissingKeywords)
	writeList(&sb, "Matched Keywords", result.MatchedKeywords)

	p.printBox("OPTIMIZED RESUME", sb.String())
}
