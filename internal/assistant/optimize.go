package assistant

import (
	"context"
	"encoding/json"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/htmlrepair"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/logging"
	"github.com/jonathan/ats-optimizer/internal/prompts"
	"github.com/jonathan/ats-optimizer/internal/schemas"
)

// Defaults filled in when the model omits a field.
const (
	DefaultScore           = 80
	DefaultImpactScore     = 80
	DefaultBrevityScore    = 75
	DefaultKeywordsScore   = 80
	DefaultSummaryCritique = "Resume optimized successfully"
)

// Scores used when the model reply is not JSON.
const (
	FallbackScore         = 75
	FallbackImpactScore   = 80
	FallbackBrevityScore  = 75
	FallbackKeywordsScore = 70
)

// ScoreBreakdown rates the optimized resume on three axes, 0-100.
type ScoreBreakdown struct {
	Impact   int `json:"impact"`
	Brevity  int `json:"brevity"`
	Keywords int `json:"keywords"`
}

// OptimizeResult is a rewritten resume with its ATS scores.
type OptimizeResult struct {
	Score            int            `json:"score"`
	ScoreBreakdown   ScoreBreakdown `json:"score_breakdown"`
	SummaryCritique  string         `json:"summary_critique"`
	MissingKeywords  []string       `json:"missing_keywords"`
	MatchedKeywords  []string       `json:"matched_keywords"`
	OptimizedContent string         `json:"optimized_content"`
	// Fallback is set when the reply could not be parsed and the whole
	// reply was used as the resume HTML.
	Fallback bool `json:"-"`
}

type rawOptimizeResult struct {
	Score          float64 `json:"score"`
	ScoreBreakdown struct {
		Impact   float64 `json:"impact"`
		Brevity  float64 `json:"brevity"`
		Keywords float64 `json:"keywords"`
	} `json:"score_breakdown"`
	SummaryCritique  string   `json:"summary_critique"`
	MissingKeywords  []string `json:"missing_keywords"`
	MatchedKeywords  []string `json:"matched_keywords"`
	OptimizedContent string   `json:"optimized_content"`
}

// OptimizeResume rewrites a resume for a job. Bullet formatting in the
// returned HTML is repaired. A reply that is not a valid result object
// yields a fallback result whose content is the repaired reply.
func (s *Service) OptimizeResume(ctx context.Context, resume, job string) (*OptimizeResult, error) {
	data, err := promptInputs(resume, job)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet(prompts.AssistantFile, "optimize_resume"), data)
	text, err := s.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}

	result, err := ParseOptimizeResult(text)
	if err != nil {
		logging.Get().WithError(err).WithField("chars", len(text)).Warn("optimize reply is not a valid result, using fallback")
		return fallbackOptimizeResult(text), nil
	}

	logging.Get().WithFields(logrus.Fields{
		"score":   result.Score,
		"missing": len(result.MissingKeywords),
	}).Info("resume optimized")
	return result, nil
}

// ParseOptimizeResult reads a model reply into an OptimizeResult, applying
// defaults for missing or zero fields.
func ParseOptimizeResult(text string) (*OptimizeResult, error) {
	doc := llm.ExtractObject(text)
	if doc == "" {
		return nil, ErrNoJSON
	}
	if err := schemas.Validate(schemas.OptimizeResult, doc); err != nil {
		return nil, err
	}

	var raw rawOptimizeResult
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, err
	}

	result := &OptimizeResult{
		Score: orDefaultScore(raw.Score, DefaultScore),
		ScoreBreakdown: ScoreBreakdown{
			Impact:   orDefaultScore(raw.ScoreBreakdown.Impact, DefaultImpactScore),
			Brevity:  orDefaultScore(raw.ScoreBreakdown.Brevity, DefaultBrevityScore),
			Keywords: orDefaultScore(raw.ScoreBreakdown.Keywords, DefaultKeywordsScore),
		},
		SummaryCritique:  raw.SummaryCritique,
		MissingKeywords:  raw.MissingKeywords,
		MatchedKeywords:  raw.MatchedKeywords,
		OptimizedContent: htmlrepair.Repair(raw.OptimizedContent),
	}
	if result.SummaryCritique == "" {
		result.SummaryCritique = DefaultSummaryCritique
	}
	if result.MissingKeywords == nil {
		result.MissingKeywords = []string{}
	}
	if result.MatchedKeywords == nil {
		result.MatchedKeywords = []string{}
	}
	return result, nil
}

func fallbackOptimizeResult(text string) *OptimizeResult {
	return &OptimizeResult{
		Score: FallbackScore,
		ScoreBreakdown: ScoreBreakdown{
			Impact:   FallbackImpactScore,
			Brevity:  FallbackBrevityScore,
			Keywords: FallbackKeywordsScore,
		},
		MissingKeywords:  []string{},
		MatchedKeywords:  []string{},
		OptimizedContent: htmlrepair.Repair(text),
		Fallback:         true,
	}
}

// orDefaultScore treats zero as missing.
func orDefaultScore(v float64, fallback int) int {
	if v == 0 {
		return fallback
	}
	return int(math.Round(v))
}
