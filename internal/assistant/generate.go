package assistant

import (
	"context"
	"encoding/json"

	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/logging"
	"github.com/jonathan/ats-optimizer/internal/prompts"
	"github.com/jonathan/ats-optimizer/internal/schemas"
)

// Email is a message to a hiring manager.
type Email struct {
	SubjectLine string `json:"subject_line"`
	EmailBody   string `json:"email_body"`
}

// InterviewQuestion pairs a likely question with a STAR-format answer.
type InterviewQuestion struct {
	Question   string `json:"question"`
	StarAnswer string `json:"star_answer"`
}

// SkillGap is one job skill and whether the resume shows it.
type SkillGap struct {
	Skill      string `json:"skill"`
	HasSkill   bool   `json:"hasSkill"`
	Importance string `json:"importance,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CoverLetter writes a formal cover letter in paragraphs.
func (s *Service) CoverLetter(ctx context.Context, resume, job string) (TextResult, error) {
	return s.text(ctx, "cover_letter", resume, job, llm.TierStandard)
}

// LinkedIn writes a headline, about section, skills and highlights.
func (s *Service) LinkedIn(ctx context.Context, resume, job string) (TextResult, error) {
	return s.text(ctx, "linkedin", resume, job, llm.TierLite)
}

// Email drafts a message to the hiring manager.
func (s *Service) Email(ctx context.Context, resume, job string) (Output[Email], error) {
	return structured[Email](ctx, s, "email", schemas.Email, resume, job, llm.TierLite)
}

// InterviewPrep generates interview questions with STAR answers.
func (s *Service) InterviewPrep(ctx context.Context, resume, job string) (Output[[]InterviewQuestion], error) {
	return structured[[]InterviewQuestion](ctx, s, "interview", schemas.Interview, resume, job, llm.TierStandard)
}

// SkillsGap compares the skills a job asks for with the resume.
func (s *Service) SkillsGap(ctx context.Context, resume, job string) (Output[[]SkillGap], error) {
	return structured[[]SkillGap](ctx, s, "skills_gap", schemas.SkillsGap, resume, job, llm.TierStandard)
}

func (s *Service) text(ctx context.Context, key, resume, job string, tier llm.ModelTier) (TextResult, error) {
	data, err := promptInputs(resume, job)
	if err != nil {
		return TextResult{}, err
	}
	text, err := s.client.GenerateContent(ctx, prompts.Format(prompts.MustGet(prompts.AssistantFile, key), data), tier)
	if err != nil {
		return TextResult{}, err
	}
	return TextResult{Text: text}, nil
}

// structured asks for JSON and validates it against schema. Replies that do
// not parse or validate are returned as text.
func structured[T any](ctx context.Context, s *Service, key string, schema schemas.Name, resume, job string, tier llm.ModelTier) (Output[T], error) {
	var out Output[T]

	data, err := promptInputs(resume, job)
	if err != nil {
		return out, err
	}
	text, err := s.client.GenerateJSON(ctx, prompts.Format(prompts.MustGet(prompts.AssistantFile, key), data), tier)
	if err != nil {
		return out, err
	}
	out.Text = text

	value, err := ParseStructured[T](text, schema)
	if err != nil {
		logging.Get().WithError(err).WithField("prompt", key).Warn("structured reply did not validate, returning text")
		return out, nil
	}
	out.Value = value
	out.Parsed = true
	return out, nil
}

// ParseStructured extracts the JSON value from a reply, validates it
// against schema and decodes it.
func ParseStructured[T any](text string, schema schemas.Name) (T, error) {
	var value T

	doc := llm.ExtractJSON(text)
	if doc == "" {
		return value, ErrNoJSON
	}
	if err := schemas.Validate(schema, doc); err != nil {
		return value, err
	}
	if err := json.Unmarshal([]byte(doc), &value); err != nil {
		return value, err
	}
	return value, nil
}
