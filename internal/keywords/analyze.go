package keywords

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	// MaxKeywords is how many of the most frequent job terms are analyzed.
	MaxKeywords = 30
	// TopListSize caps the topMissing and topMatched lists.
	TopListSize = 5
	// minKeywordLength excludes short words such as "the" and "and".
	minKeywordLength = 4
)

var (
	// candidatePattern captures a word of three or more letters plus an
	// optional following word, so some two-word phrases are kept together.
	candidatePattern  = regexp.MustCompile(`\b[a-z]{3,}(?:\s+[a-z]{3,})?\b`)
	resumeWordPattern = regexp.MustCompile(`\b[a-z]+\b`)
)

// Record is the analysis of a single job keyword.
type Record struct {
	Keyword           string      `json:"keyword"`
	Category          Category    `json:"category"`
	Importance        Importance  `json:"importance"`
	FrequencyInJob    int         `json:"frequencyInJob"`
	FrequencyInResume int         `json:"frequencyInResume"`
	MatchStatus       MatchStatus `json:"matchStatus"`
	Suggestion        string      `json:"suggestion"`
}

// CategoryGroups holds records bucketed by category.
type CategoryGroups struct {
	HardSkills     []Record `json:"hardSkills"`
	SoftSkills     []Record `json:"softSkills"`
	TechnicalTools []Record `json:"technicalTools"`
	IndustryTerms  []Record `json:"industryTerms"`
}

// Report aggregates keyword coverage for one job/resume pair.
type Report struct {
	TotalKeywords    int            `json:"totalKeywords"`
	MatchedKeywords  int            `json:"matchedKeywords"`
	MissingKeywords  int            `json:"missingKeywords"`
	MatchPercentage  int            `json:"matchPercentage"`
	Categories       CategoryGroups `json:"categories"`
	TopMissing       []string       `json:"topMissing"`
	TopMatched       []string       `json:"topMatched"`
	OverusedKeywords []string       `json:"overusedKeywords"`
	KeywordDensity   float64        `json:"keywordDensity"`
	Recommendations  []string       `json:"recommendations"`
	Keywords         []Record       `json:"keywords"`
}

// Analyze ranks the job description's most frequent terms and measures how
// the resume covers each of them.
func Analyze(jobDescription, resumeText string) *Report {
	resumeLower := strings.ToLower(resumeText)

	ranked := RankByFrequency(candidateTerms(jobDescription), MaxKeywords)

	report := &Report{
		Categories: CategoryGroups{
			HardSkills:     []Record{},
			SoftSkills:     []Record{},
			TechnicalTools: []Record{},
			IndustryTerms:  []Record{},
		},
		TopMissing:       []string{},
		TopMatched:       []string{},
		OverusedKeywords: []string{},
		Keywords:         make([]Record, 0, len(ranked)),
	}

	totalOccurrences := 0
	for _, term := range ranked {
		category := Categorize(term.Term)
		resumeFreq := CountOccurrences(term.Term, resumeLower)
		status := MatchStatusFor(term.Count, resumeFreq)

		record := Record{
			Keyword:           term.Term,
			Category:          category,
			Importance:        ImportanceFor(term.Count),
			FrequencyInJob:    term.Count,
			FrequencyInResume: resumeFreq,
			MatchStatus:       status,
			Suggestion:        Suggestion(term.Term, status, category),
		}
		report.Keywords = append(report.Keywords, record)
		report.Categories.add(record)
		totalOccurrences += resumeFreq

		switch status {
		case StatusMatched:
			report.MatchedKeywords++
			if len(report.TopMatched) < TopListSize {
				report.TopMatched = append(report.TopMatched, record.Keyword)
			}
		case StatusMissing:
			report.MissingKeywords++
			if len(report.TopMissing) < TopListSize {
				report.TopMissing = append(report.TopMissing, record.Keyword)
			}
		case StatusOverused:
			report.OverusedKeywords = append(report.OverusedKeywords, record.Keyword)
		}
	}

	report.TotalKeywords = len(report.Keywords)
	if report.TotalKeywords > 0 {
		report.MatchPercentage = int(math.Round(float64(report.MatchedKeywords) / float64(report.TotalKeywords) * 100))
	}

	density := 0.0
	if words := len(resumeWordPattern.FindAllString(resumeLower, -1)); words > 0 {
		density = float64(totalOccurrences) / float64(words) * 100
	}
	report.KeywordDensity = math.Round(density*100) / 100
	report.Recommendations = Recommendations(report.Keywords, report.MissingKeywords, density)

	return report
}

func (g *CategoryGroups) add(r Record) {
	switch r.Category {
	case CategoryHardSkill:
		g.HardSkills = append(g.HardSkills, r)
	case CategorySoftSkill:
		g.SoftSkills = append(g.SoftSkills, r)
	case CategoryTechnicalTool:
		g.TechnicalTools = append(g.TechnicalTools, r)
	default:
		g.IndustryTerms = append(g.IndustryTerms, r)
	}
}

// candidateTerms tokenizes lowercased job text into single words and
// two-word phrases longer than three characters. Whitespace inside a
// phrase is canonicalized to one space.
func candidateTerms(jobDescription string) []string {
	matches := candidatePattern.FindAllString(strings.ToLower(jobDescription), -1)
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		term := strings.Join(strings.Fields(m), " ")
		if len(term) >= minKeywordLength {
			terms = append(terms, term)
		}
	}
	return terms
}

// CountOccurrences counts whole-word, case-insensitive occurrences of
// keyword in text. Spaces inside the keyword match any whitespace run.
func CountOccurrences(keyword, text string) int {
	words := strings.Fields(keyword)
	if len(words) == 0 {
		return 0
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re, err := regexp.Compile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// Recommendations derives the ordered advice list. density is the
// unrounded keyword density percentage.
func Recommendations(records []Record, missing int, density float64) []string {
	var recs []string

	switch {
	case missing > 10:
		recs = append(recs, "Critical: More than 10 key keywords are missing. Significant revision needed.")
	case missing > 5:
		recs = append(recs, "Warning: Several important keywords are missing. Review and add them naturally.")
	case missing > 0:
		recs = append(recs, "Good keyword coverage. Consider adding the few missing keywords.")
	default:
		recs = append(recs, "Excellent keyword coverage! All major keywords are present.")
	}

	if density > 5 {
		recs = append(recs, "Keyword density is high. Ensure natural language flow.")
	} else if density < 1 {
		recs = append(recs, "Keyword density is low. Consider more keyword integration.")
	}

	var priority []string
	for _, r := range records {
		if r.MatchStatus == StatusMissing && r.Importance == ImportanceHigh {
			priority = append(priority, r.Keyword)
		}
	}
	if len(priority) > 0 {
		recs = append(recs, fmt.Sprintf("Priority: Add these high-importance keywords: %s", strings.Join(priority, ", ")))
	}

	return recs
}
