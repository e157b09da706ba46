package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-optimizer/internal/htmlrepair"
	"github.com/jonathan/ats-optimizer/internal/llm"
)

type fakeClient struct {
	reply string
	err   error

	calls    int
	method   string
	prompt   string
	tier     llm.ModelTier
	mimeType string
	data     []byte
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.method, f.prompt, f.tier = "content", prompt, tier
	return f.reply, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.method, f.prompt, f.tier = "json", prompt, tier
	return f.reply, f.err
}

func (f *fakeClient) GenerateVision(_ context.Context, prompt, mimeType string, data []byte) (string, error) {
	f.calls++
	f.method, f.prompt, f.mimeType, f.data = "vision", prompt, mimeType, data
	return f.reply, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

const (
	sampleResume = "<h1>Jane   Doe</h1><p>Customer service lead</p>"
	sampleJob    = "Cabin crew with customer service experience"
)

func TestOptimizeResume(t *testing.T) {
	content := "<ul><li>• Led the team. Cut wait times.</li></ul>"
	reply, err := json.Marshal(map[string]any{
		"score":             88.4,
		"score_breakdown":   map[string]any{"impact": 90},
		"matched_keywords":  []string{"customer service"},
		"optimized_content": content,
	})
	require.NoError(t, err)
	client := &fakeClient{reply: "```json\n" + string(reply) + "\n```"}

	result, err := New(client).OptimizeResume(context.Background(), sampleResume, sampleJob)
	require.NoError(t, err)

	assert.Equal(t, 88, result.Score)
	assert.Equal(t, ScoreBreakdown{Impact: 90, Brevity: DefaultBrevityScore, Keywords: DefaultKeywordsScore}, result.ScoreBreakdown)
	assert.Equal(t, DefaultSummaryCritique, result.SummaryCritique)
	assert.Equal(t, []string{}, result.MissingKeywords)
	assert.Equal(t, []string{"customer service"}, result.MatchedKeywords)
	assert.Equal(t, htmlrepair.Repair(content), result.OptimizedContent)
	assert.False(t, result.Fallback)

	assert.Equal(t, llm.TierAdvanced, client.tier)
	assert.Contains(t, client.prompt, "Jane Doe Customer service lead")
	assert.Contains(t, client.prompt, sampleJob)
	assert.NotContains(t, client.prompt, "{{.Resume}}")
}

func TestOptimizeResume_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"html only", "<ul><li>• Led the team</li></ul>"},
		{"schema violation", `{"score": "excellent", "optimized_content": "<p>x</p>"}`},
		{"truncated json", `{"score": 90, "optimized_content": "<p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New(&fakeClient{reply: tt.reply}).OptimizeResume(context.Background(), sampleResume, sampleJob)
			require.NoError(t, err)

			assert.True(t, result.Fallback)
			assert.Equal(t, FallbackScore, result.Score)
			assert.Equal(t, ScoreBreakdown{Impact: 80, Brevity: 75, Keywords: 70}, result.ScoreBreakdown)
			assert.Equal(t, htmlrepair.Repair(tt.reply), result.OptimizedContent)
		})
	}
}

func TestOptimizeResume_Errors(t *testing.T) {
	client := &fakeClient{}
	_, err := New(client).OptimizeResume(context.Background(), "<p> </p>", sampleJob)
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Zero(t, client.calls)

	upstream := errors.New("quota exceeded")
	_, err = New(&fakeClient{err: upstream}).OptimizeResume(context.Background(), sampleResume, sampleJob)
	assert.ErrorIs(t, err, upstream)
}

func TestCoverLetterAndLinkedIn(t *testing.T) {
	client := &fakeClient{reply: "Dear Hiring Manager,"}
	svc := New(client)

	letter, err := svc.CoverLetter(context.Background(), sampleResume, sampleJob)
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,", letter.Text)
	assert.Equal(t, llm.TierStandard, client.tier)
	assert.Contains(t, client.prompt, "cover letter")

	_, err = svc.LinkedIn(context.Background(), sampleResume, sampleJob)
	require.NoError(t, err)
	assert.Equal(t, llm.TierLite, client.tier)
	assert.Contains(t, client.prompt, "Headline")
}

func TestEmail(t *testing.T) {
	t.Run("parsed", func(t *testing.T) {
		client := &fakeClient{reply: `{"subject_line": "Cabin crew application", "email_body": "Dear hiring manager"}`}

		out, err := New(client).Email(context.Background(), sampleResume, sampleJob)
		require.NoError(t, err)
		assert.True(t, out.Parsed)
		assert.Equal(t, "Cabin crew application", out.Value.SubjectLine)
		assert.Equal(t, "json", client.method)

		raw, err := json.Marshal(out)
		require.NoError(t, err)
		assert.JSONEq(t, `{"subject_line": "Cabin crew application", "email_body": "Dear hiring manager"}`, string(raw))
	})

	t.Run("unparsed reply becomes text", func(t *testing.T) {
		out, err := New(&fakeClient{reply: "Subject: Hello"}).Email(context.Background(), sampleResume, sampleJob)
		require.NoError(t, err)
		assert.False(t, out.Parsed)

		raw, err := json.Marshal(out)
		require.NoError(t, err)
		assert.JSONEq(t, `{"text": "Subject: Hello"}`, string(raw))
	})

	t.Run("missing field becomes text", func(t *testing.T) {
		out, err := New(&fakeClient{reply: `{"subject_line": "Only subject"}`}).Email(context.Background(), sampleResume, sampleJob)
		require.NoError(t, err)
		assert.False(t, out.Parsed)
	})
}

func TestInterviewPrep(t *testing.T) {
	client := &fakeClient{reply: "Here you go:\n[{\"question\": \"Tell me about a delay\", \"star_answer\": \"Situation: ...\"}]"}

	out, err := New(client).InterviewPrep(context.Background(), sampleResume, sampleJob)
	require.NoError(t, err)
	require.True(t, out.Parsed)
	assert.Equal(t, []InterviewQuestion{{Question: "Tell me about a delay", StarAnswer: "Situation: ..."}}, out.Value)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question": "Tell me about a delay", "star_answer": "Situation: ..."}]`, string(raw))
}

func TestSkillsGap(t *testing.T) {
	client := &fakeClient{reply: `[{"skill": "Excel", "hasSkill": false, "importance": "high", "suggestion": "Take a course"}]`}

	out, err := New(client).SkillsGap(context.Background(), sampleResume, sampleJob)
	require.NoError(t, err)
	require.True(t, out.Parsed)
	assert.Equal(t, SkillGap{Skill: "Excel", HasSkill: false, Importance: "high", Suggestion: "Take a course"}, out.Value[0])

	out, err = New(&fakeClient{reply: `[{"skill": "Excel", "hasSkill": "no"}]`}).SkillsGap(context.Background(), sampleResume, sampleJob)
	require.NoError(t, err)
	assert.False(t, out.Parsed)
}

func TestExtractDocument(t *testing.T) {
	client := &fakeClient{reply: "  JANE DOE\nDubai \n"}
	svc := New(client)

	text, err := svc.ExtractDocument(context.Background(), "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\nDubai", text)
	assert.Contains(t, client.prompt, "document image")

	_, err = svc.ExtractDocument(context.Background(), "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Contains(t, client.prompt, "PROFESSIONAL EXPERIENCE")
	assert.Equal(t, "application/pdf", client.mimeType)
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches text actions", func(t *testing.T) {
		result, err := New(&fakeClient{reply: "Headline"}).Run(ctx, ActionLinkedIn, Input{Resume: sampleResume, Job: sampleJob})
		require.NoError(t, err)
		assert.Equal(t, TextResult{Text: "Headline"}, result)
	})

	t.Run("extract file", func(t *testing.T) {
		client := &fakeClient{reply: "JANE DOE"}
		in := Input{Base64: base64.StdEncoding.EncodeToString([]byte("img")), MimeType: "image/jpeg"}

		result, err := New(client).Run(ctx, ActionExtractFile, in)
		require.NoError(t, err)
		assert.Equal(t, TextResult{Text: "JANE DOE"}, result)
		assert.Equal(t, []byte("img"), client.data)
	})

	t.Run("extract file errors", func(t *testing.T) {
		_, err := New(&fakeClient{}).Run(ctx, ActionExtractFile, Input{MimeType: "image/png"})
		assert.ErrorIs(t, err, ErrMissingFile)

		_, err = New(&fakeClient{}).Run(ctx, ActionExtractFile, Input{Base64: "%%%", MimeType: "image/png"})
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := New(&fakeClient{}).Run(ctx, "translate", Input{})
		var unknown *UnknownActionError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "unknown action: translate", err.Error())
	})

	t.Run("every action is dispatched", func(t *testing.T) {
		for _, action := range Actions {
			_, err := New(&fakeClient{reply: "{}"}).Run(ctx, action, Input{})
			var unknown *UnknownActionError
			assert.False(t, errors.As(err, &unknown), action)
		}
	})
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Jane Doe Lead", PlainText("<h1>Jane\n Doe</h1>\t<p>Lead</p>"))
	assert.Equal(t, "", PlainText("  <br/> "))
}
