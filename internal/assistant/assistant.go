// Package assistant implements the model-backed resume actions: rewriting a
// resume for a job, generating cover letters, emails, interview answers and
// LinkedIn copy, analysing skills gaps, and reading documents with vision.
package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/llm"
)

// Action names accepted by Run.
type Action string

const (
	ActionOptimizeResume Action = "optimize-resume"
	ActionCoverLetter    Action = "generate-cover-letter"
	ActionEmail          Action = "generate-email"
	ActionInterview      Action = "generate-interview"
	ActionLinkedIn       Action = "linkedin-optimize"
	ActionSkillsGap      Action = "skills-gap"
	ActionExtractFile    Action = "extract-file"
)

// Actions lists every supported action.
var Actions = []Action{
	ActionOptimizeResume, ActionCoverLetter, ActionEmail, ActionInterview,
	ActionLinkedIn, ActionSkillsGap, ActionExtractFile,
}

// Input is the data an action works on. Resume may be HTML.
type Input struct {
	Resume   string `json:"resume"`
	Job      string `json:"job"`
	Base64   string `json:"base64,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// ErrMissingInput is returned when an action lacks the text it needs.
var ErrMissingInput = errors.New("resume and job description are required")

// ErrMissingFile is returned by extract-file without a document.
var ErrMissingFile = errors.New("base64 and mimeType are required for extract-file")

// ErrInvalidDocument is returned by extract-file when base64 does not decode.
var ErrInvalidDocument = errors.New("invalid base64 document")

// ErrNoJSON is returned by the parsers when a reply holds no JSON value of
// the expected shape.
var ErrNoJSON = errors.New("no JSON in model reply")

// UnknownActionError reports an unsupported action name.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Action)
}

// TextResult is plain generated text.
type TextResult struct {
	Text string `json:"text"`
}

// Output is structured model output. When the reply could not be parsed it
// carries the raw text instead and marshals as a TextResult.
type Output[T any] struct {
	Value  T
	Text   string
	Parsed bool
}

func (o Output[T]) MarshalJSON() ([]byte, error) {
	if o.Parsed {
		return json.Marshal(o.Value)
	}
	return json.Marshal(TextResult{Text: o.Text})
}

// Service runs actions against one model client.
type Service struct {
	client llm.Client
}

// New creates a Service.
func New(client llm.Client) *Service {
	return &Service{client: client}
}

// Run dispatches an action by name. The result marshals to the JSON the
// HTTP API returns.
func (s *Service) Run(ctx context.Context, action Action, in Input) (any, error) {
	switch action {
	case ActionOptimizeResume:
		return s.OptimizeResume(ctx, in.Resume, in.Job)
	case ActionCoverLetter:
		return s.CoverLetter(ctx, in.Resume, in.Job)
	case ActionEmail:
		return s.Email(ctx, in.Resume, in.Job)
	case ActionInterview:
		return s.InterviewPrep(ctx, in.Resume, in.Job)
	case ActionLinkedIn:
		return s.LinkedIn(ctx, in.Resume, in.Job)
	case ActionSkillsGap:
		return s.SkillsGap(ctx, in.Resume, in.Job)
	case ActionExtractFile:
		if in.Base64 == "" || in.MimeType == "" {
			return nil, ErrMissingFile
		}
		data, err := base64.StdEncoding.DecodeString(in.Base64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		text, err := s.ExtractDocument(ctx, in.MimeType, data)
		if err != nil {
			return nil, err
		}
		return TextResult{Text: text}, nil
	}
	return nil, &UnknownActionError{Action: string(action)}
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// PlainText drops HTML tags and collapses whitespace.
func PlainText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// promptInputs prepares the resume and job for templating.
func promptInputs(resume, job string) (map[string]string, error) {
	resume, job = PlainText(resume), PlainText(job)
	if resume == "" || job == "" {
		return nil, ErrMissingInput
	}
	return map[string]string{"Resume": resume, "Job": job}, nil
}
