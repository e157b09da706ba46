// Package keywords ranks job description keywords, classifies them against
// curated dictionaries and scores how well a resume covers them.
package keywords

import (
	"fmt"
	"strings"
)

// Category is the dictionary a keyword was matched against.
type Category string

// Categories in priority order.
const (
	CategoryHardSkill     Category = "hard_skill"
	CategorySoftSkill     Category = "soft_skill"
	CategoryTechnicalTool Category = "technical_tool"
	CategoryIndustryTerm  Category = "industry_term"
)

// Label returns the category name with the underscore replaced by a space.
func (c Category) Label() string {
	return strings.Replace(string(c), "_", " ", 1)
}

// Importance reflects how often a keyword appears in the job description.
type Importance string

// Importance levels.
const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// MatchStatus compares a keyword's resume frequency to its job frequency.
type MatchStatus string

// Match statuses.
const (
	StatusMatched   MatchStatus = "matched"
	StatusMissing   MatchStatus = "missing"
	StatusOverused  MatchStatus = "overused"
	StatusUnderused MatchStatus = "underused"
)

var categoryDictionaries = []struct {
	category Category
	entries  []string
}{
	{CategoryHardSkill, HardSkills},
	{CategorySoftSkill, SoftSkills},
	{CategoryTechnicalTool, TechnicalTools},
}

// Categorize returns the first category whose dictionary has an entry that
// contains the keyword or is contained by it. Keywords that match nothing
// are industry terms.
func Categorize(keyword string) Category {
	lower := strings.ToLower(keyword)
	for _, dict := range categoryDictionaries {
		for _, entry := range dict.entries {
			if strings.Contains(lower, entry) || strings.Contains(entry, lower) {
				return dict.category
			}
		}
	}
	return CategoryIndustryTerm
}

// ImportanceFor maps job frequency to importance: 5 or more is high, 2 or
// more is medium, anything less is low.
func ImportanceFor(jobFreq int) Importance {
	switch {
	case jobFreq >= 5:
		return ImportanceHigh
	case jobFreq >= 2:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}

// MatchStatusFor classifies resume coverage of a keyword.
func MatchStatusFor(jobFreq, resumeFreq int) MatchStatus {
	switch {
	case resumeFreq == 0:
		return StatusMissing
	case resumeFreq > jobFreq+2:
		return StatusOverused
	case resumeFreq < (jobFreq+1)/2:
		return StatusUnderused
	default:
		return StatusMatched
	}
}

// Suggestion returns the advice shown next to a keyword.
func Suggestion(keyword string, status MatchStatus, category Category) string {
	switch status {
	case StatusMissing:
		return fmt.Sprintf("Add %q to your %s section naturally", keyword, category.Label())
	case StatusOverused:
		return fmt.Sprintf("Reduce usage of %q - it appears too frequently", keyword)
	case StatusUnderused:
		return fmt.Sprintf("Consider using %q more prominently in relevant sections", keyword)
	default:
		return fmt.Sprintf("Good coverage of %q", keyword)
	}
}
