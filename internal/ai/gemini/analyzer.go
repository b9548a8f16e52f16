package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/failure"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/util"
)

const (
	defaultMaxLogLength = 200

	analysisSkills      = 20
	improvementSkills   = 30
	promptExperience    = 5
	promptEducation     = 3
	analysisSystem      = "You are a highly critical professional resume reviewer with 15+ years of experience and very high standards. Be honest and realistic."
	improvementSystem   = "You are an expert resume consultant and ATS optimization specialist. Use one consistent rubric to score and suggest improvements."
	jobDescriptionLabel = "TARGET JOB DESCRIPTION: "
)

var (
	//go:embed analysis_prompt.md
	analysisTemplate string
	//go:embed improvement_prompt.md
	improvementTemplate string
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Analyzer asks Gemini to grade resume profiles. It implements ai.Analyzer.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	timeout   time.Duration
}

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    logger.WithCommonFields(log, Provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// WithTimeout bounds every generation call. Zero leaves calls unbounded.
func (a *Analyzer) WithTimeout(d time.Duration) *Analyzer {
	a.timeout = d
	return a
}

func (a *Analyzer) Model() string {
	return a.generator.Model()
}

// Analyze grades profile, optionally against a target job description.
func (a *Analyzer) Analyze(ctx context.Context, profile *resume.Profile, jobDescription string) (*ai.Analysis, error) {
	if profile == nil {
		return nil, errors.New("resume profile is required")
	}

	raw, err := a.generate(ctx, "analyze", analysisSystem, buildAnalysisPrompt(profile, jobDescription))
	if err != nil {
		return nil, err
	}

	analysis, err := ai.NormalizeAnalysis(raw)
	if err != nil {
		return nil, err
	}
	analysis.Model = a.Model()

	if err := ai.Validate(analysis); err != nil {
		return nil, failure.NewAIResponseParse("gemini analyze", raw, err)
	}

	return analysis, nil
}

// Improve builds an improvement plan. currentScore is used when the model
// omits an overall score.
func (a *Analyzer) Improve(ctx context.Context, profile *resume.Profile, currentScore int) (*ai.ImprovementPlan, error) {
	if profile == nil {
		return nil, errors.New("resume profile is required")
	}

	raw, err := a.generate(ctx, "improve", improvementSystem, buildImprovementPrompt(profile, currentScore))
	if err != nil {
		return nil, err
	}

	plan, err := ai.NormalizeImprovement(raw, currentScore)
	if err != nil {
		return nil, err
	}
	plan.Model = a.Model()

	if err := ai.ValidatePlan(plan); err != nil {
		return nil, failure.NewAIResponseParse("gemini improve", raw, err)
	}

	return plan, nil
}

func (a *Analyzer) generate(ctx context.Context, op, system, prompt string) (string, error) {
	a.logger.Debug("gemini generate content request",
		zap.String("operation", op),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		return "", failure.NewCollaboratorFailure("gemini "+op, err)
	}

	a.logger.Debug("gemini generate content response",
		zap.String("operation", op),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	return raw, nil
}

func buildAnalysisPrompt(profile *resume.Profile, jobDescription string) string {
	jd := ""
	if jobDescription = strings.TrimSpace(jobDescription); jobDescription != "" {
		jd = "\n" + jobDescriptionLabel + jobDescription + "\n"
	}

	return strings.NewReplacer(
		"{{SKILLS}}", strings.Join(head(profile.Skills, analysisSkills), ", "),
		"{{EXPERIENCE}}", strings.Join(head(profile.Experience, promptExperience), " | "),
		"{{EDUCATION}}", strings.Join(head(profile.Education, promptEducation), " | "),
		"{{CONTACT}}", contactJSON(profile.Contact),
		"{{WORD_COUNT}}", strconv.Itoa(profile.WordCount),
		"{{JOB_DESCRIPTION}}", jd,
	).Replace(analysisTemplate)
}

func buildImprovementPrompt(profile *resume.Profile, currentScore int) string {
	return strings.NewReplacer(
		"{{SKILLS}}", strings.Join(head(profile.Skills, improvementSkills), ", "),
		"{{EXPERIENCE}}", strings.Join(head(profile.Experience, promptExperience), " | "),
		"{{EDUCATION}}", strings.Join(head(profile.Education, promptEducation), " | "),
		"{{CURRENT_SCORE}}", strconv.Itoa(currentScore),
	).Replace(improvementTemplate)
}

func contactJSON(contact resume.Contact) string {
	data, err := json.Marshal(contact)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func head(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
