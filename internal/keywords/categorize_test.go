package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		keyword string
		want    Category
	}{
		{"sales", CategoryHardSkill},
		{"customer service", CategoryHardSkill},
		{"customer", CategoryHardSkill},
		{"leadership", CategorySoftSkill},
		{"team", CategorySoftSkill},
		{"strong communication", CategorySoftSkill},
		{"python", CategoryTechnicalTool},
		{"aviation", CategoryTechnicalTool},
		{"position", CategoryTechnicalTool},
		{"airline", CategoryIndustryTerm},
		{"zebra", CategoryIndustryTerm},
		{"LEADERSHIP", CategorySoftSkill},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.keyword))
		})
	}
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "hard skill", CategoryHardSkill.Label())
	assert.Equal(t, "technical tool", CategoryTechnicalTool.Label())
}

func TestImportanceFor(t *testing.T) {
	tests := []struct {
		freq int
		want Importance
	}{
		{0, ImportanceLow},
		{1, ImportanceLow},
		{2, ImportanceMedium},
		{4, ImportanceMedium},
		{5, ImportanceHigh},
		{40, ImportanceHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ImportanceFor(tt.freq), "freq %d", tt.freq)
	}
}

func TestImportanceFor_Monotonic(t *testing.T) {
	rank := map[Importance]int{ImportanceLow: 0, ImportanceMedium: 1, ImportanceHigh: 2}
	prev := rank[ImportanceFor(0)]
	for f := 1; f < 20; f++ {
		cur := rank[ImportanceFor(f)]
		assert.GreaterOrEqual(t, cur, prev, "importance dropped at freq %d", f)
		prev = cur
	}
}

func TestMatchStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		jobFreq    int
		resumeFreq int
		want       MatchStatus
	}{
		{"absent", 3, 0, StatusMissing},
		{"below half", 3, 1, StatusUnderused},
		{"at half rounded up", 3, 2, StatusMatched},
		{"at upper bound", 3, 5, StatusMatched},
		{"above upper bound", 3, 6, StatusOverused},
		{"single mention", 1, 1, StatusMatched},
		{"even job frequency", 2, 1, StatusMatched},
		{"high job frequency", 8, 3, StatusUnderused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchStatusFor(tt.jobFreq, tt.resumeFreq))
		})
	}
}

func TestSuggestion(t *testing.T) {
	assert.Equal(t, `Add "sales" to your hard skill section naturally`,
		Suggestion("sales", StatusMissing, CategoryHardSkill))
	assert.Equal(t, `Reduce usage of "excel" - it appears too frequently`,
		Suggestion("excel", StatusOverused, CategoryTechnicalTool))
	assert.Equal(t, `Consider using "crew" more prominently in relevant sections`,
		Suggestion("crew", StatusUnderused, CategoryIndustryTerm))
	assert.Equal(t, `Good coverage of "teamwork"`,
		Suggestion("teamwork", StatusMatched, CategorySoftSkill))
}
