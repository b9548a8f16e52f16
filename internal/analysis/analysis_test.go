package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/failure"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/scoring"
)

type stubAnalyzer struct {
	analysis     *ai.Analysis
	plan         *ai.ImprovementPlan
	err          error
	calls        int
	currentScore int
}

func (s *stubAnalyzer) Analyze(context.Context, *resume.Profile, string) (*ai.Analysis, error) {
	s.calls++
	return s.analysis, s.err
}

func (s *stubAnalyzer) Improve(_ context.Context, _ *resume.Profile, currentScore int) (*ai.ImprovementPlan, error) {
	s.calls++
	s.currentScore = currentScore
	return s.plan, s.err
}

func (s *stubAnalyzer) Model() string { return "stub-model" }

type stubText struct {
	text string
	err  error
}

func (s stubText) Text(context.Context, string) (string, error) {
	return s.text, s.err
}

const sampleText = `Jane Doe
jane@example.com | 415-555-0100

Skills
Go, Python, PostgreSQL, Docker

Experience
Senior Engineer at Example Corp 2019-2023 building billing systems

Education
BSc Computer Science, State University`

func profile() *resume.Profile {
	return &resume.Profile{Skills: []string{"Go", "Python"}, WordCount: 120}
}

func TestAnalyzeUsesAIResult(t *testing.T) {
	t.Parallel()

	stub := &stubAnalyzer{analysis: &ai.Analysis{OverallScore: 66, Source: ai.SourceAI}}
	steps := []Strategy{NewAIStrategy(stub, "gemini", nil), NewFallbackStrategy()}

	result, err := Analyze(context.Background(), zap.NewNop(), steps, Request{Profile: profile()})
	require.NoError(t, err)
	assert.Equal(t, 66, result.OverallScore)
	assert.Equal(t, ai.SourceAI, result.Source)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyzeFallsBack(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		strategy    func() Strategy
		wantAIError string
	}{
		{
			name: "collaborator failure",
			strategy: func() Strategy {
				return NewAIStrategy(&stubAnalyzer{err: failure.NewCollaboratorFailure("gemini analyze", errors.New("quota"))}, "gemini", nil)
			},
			wantAIError: "gemini analyze: AI analysis failed: quota",
		},
		{
			name: "unparseable response",
			strategy: func() Strategy {
				return NewAIStrategy(&stubAnalyzer{err: failure.NewAIResponseParse("normalize", "oops", errors.New("bad json"))}, "gemini", nil)
			},
			wantAIError: "normalize: failed to parse AI response: bad json",
		},
		{
			name: "missing credential",
			strategy: func() Strategy {
				return NewAIStrategy(nil, "gemini", failure.NewMissingCredential("gemini", errors.New("GEMINI_API_KEY is not set")))
			},
			wantAIError: "gemini: ai credential is not configured: GEMINI_API_KEY is not set",
		},
		{
			name: "disabled by flag",
			strategy: func() Strategy {
				s := NewAIStrategy(&stubAnalyzer{}, "gemini", nil)
				s.Disable("disabled by --no-ai")
				return s
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			steps := []Strategy{tc.strategy(), NewFallbackStrategy()}
			result, err := Analyze(context.Background(), zap.NewNop(), steps, Request{Profile: profile()})
			require.NoError(t, err)

			assert.Equal(t, ai.SourceFallback, result.Source)
			assert.Equal(t, scoring.Method, result.Method)
			assert.Equal(t, tc.wantAIError, result.AIError)
			require.NoError(t, ai.Validate(result))

			if tc.wantAIError != "" {
				assert.Equal(t, "AI analysis unavailable. Using basic scoring.", result.Suggestions[0].Suggestion)
				assert.Equal(t, tc.wantAIError, result.Suggestions[0].Reason)
			}
		})
	}
}

func TestAnalyzeStopsOnUnrecoverableError(t *testing.T) {
	t.Parallel()

	stub := &stubAnalyzer{err: errors.New("resume profile is required")}
	steps := []Strategy{NewAIStrategy(stub, "gemini", nil), NewFallbackStrategy()}

	_, err := Analyze(context.Background(), zap.NewNop(), steps, Request{Profile: profile()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai: resume profile is required")
}

func TestAnalyzeWithoutStrategies(t *testing.T) {
	t.Parallel()

	_, err := Analyze(context.Background(), nil, nil, Request{Profile: profile()})
	assert.ErrorIs(t, err, errNoStrategy)

	credErr := failure.NewMissingCredential("gemini", errors.New("missing"))
	_, err = Analyze(context.Background(), nil, []Strategy{NewAIStrategy(nil, "gemini", credErr)}, Request{Profile: profile()})
	assert.ErrorIs(t, err, failure.ErrMissingCredential)
}

func TestAnalyzeHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, nil, []Strategy{NewFallbackStrategy()}, Request{Profile: profile()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImproveFallsBack(t *testing.T) {
	t.Parallel()

	stub := &stubAnalyzer{err: failure.NewCollaboratorFailure("gemini improve", errors.New("timeout"))}
	steps := []Strategy{NewAIStrategy(stub, "gemini", nil), NewFallbackStrategy()}

	plan, err := Improve(context.Background(), zap.NewNop(), steps, Request{Profile: profile(), CurrentScore: 40})
	require.NoError(t, err)
	assert.Equal(t, ai.SourceFallback, plan.Source)
	assert.Equal(t, 40, stub.currentScore)
	assert.Equal(t, 54, plan.OverallScore)
	assert.Contains(t, plan.AIError, "timeout")
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := []Strategy{NewAIStrategy(&stubAnalyzer{}, "gemini", nil), NewFallbackStrategy()}
	DisableByName(steps, AIStrategyName, "disabled by --no-ai")

	statuses := Describe(steps)
	require.Len(t, statuses, 2)
	assert.Equal(t, Status{
		Name:    AIStrategyName,
		Enabled: false,
		Reason:  "disabled by --no-ai",
		Details: map[string]string{"provider": "gemini", "model": "stub-model"},
	}, statuses[0])
	assert.Equal(t, FallbackStrategyName, statuses[1].Name)
	assert.True(t, statuses[1].Enabled)

	DisableByName(steps, FallbackStrategyName, "ignored")
	assert.True(t, steps[1].IsEnabled())
}

func TestServiceRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)

	stub := &stubAnalyzer{analysis: &ai.Analysis{OverallScore: 71, Source: ai.SourceAI}}
	steps := []Strategy{NewAIStrategy(stub, "gemini", nil), NewFallbackStrategy()}
	service := NewService(stubText{text: sampleText}, nil, steps, store, zap.NewNop())

	outcome, err := service.Run(ctx, Job{Source: "cv.pdf", Save: true})
	require.NoError(t, err)
	require.NotNil(t, outcome.Analysis)
	assert.Equal(t, 71, outcome.Analysis.OverallScore)
	assert.Contains(t, outcome.Profile.Skills, "Go")
	assert.Equal(t, []string{"jane@example.com"}, outcome.Profile.Contact.Emails)
	assert.NotEmpty(t, outcome.RecordID)

	records, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, history.KindAnalysis, records[0].Kind)
	assert.Equal(t, "cv.pdf", records[0].Source)
	assert.Equal(t, 71, records[0].OverallScore)
	assert.Equal(t, outcome.RecordID, records[0].ID.String())
}

func TestServiceRunKinds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stub := &stubAnalyzer{err: failure.NewCollaboratorFailure("gemini improve", errors.New("down"))}
	steps := []Strategy{NewAIStrategy(stub, "gemini", nil), NewFallbackStrategy()}
	service := NewService(stubText{text: sampleText}, nil, steps, nil, nil)

	extracted, err := service.Run(ctx, Job{Kind: history.KindExtraction, Source: "cv.docx"})
	require.NoError(t, err)
	assert.Nil(t, extracted.Analysis)
	assert.Same(t, extracted.Profile, extracted.Result())
	assert.Empty(t, extracted.RecordID)

	p := profile()
	improved, err := service.Run(ctx, Job{Kind: history.KindImprovement, Profile: p})
	require.NoError(t, err)
	require.NotNil(t, improved.Plan)
	assert.Equal(t, scoring.Score(p).OverallScore, stub.currentScore)

	score := 77
	_, err = service.Run(ctx, Job{Kind: history.KindImprovement, Profile: p, CurrentScore: &score})
	require.NoError(t, err)
	assert.Equal(t, 77, stub.currentScore)

	_, err = service.Run(ctx, Job{Kind: "translate", Profile: p})
	assert.ErrorContains(t, err, "unknown job kind")
}

func TestServiceRunExtractionError(t *testing.T) {
	t.Parallel()

	service := NewService(stubText{err: failure.NewUnsupportedFormat("load", ".txt")}, nil, nil, nil, nil)
	_, err := service.Run(context.Background(), Job{Source: "cv.txt"})
	assert.ErrorIs(t, err, failure.ErrUnsupportedFormat)

	empty := NewService(nil, nil, nil, nil, nil)
	_, err = empty.Extract(context.Background(), "cv.pdf")
	assert.Error(t, err)
}
