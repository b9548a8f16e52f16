package ai

import (
	"context"

	"github.com/spigell/resume-analyzer/internal/resume"
)

// Result sources.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// Suggestion priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type ScoreBreakdown struct {
	ContentQuality         int `json:"content_quality"`
	ATSOptimization        int `json:"ats_optimization"`
	SkillsRelevance        int `json:"skills_relevance"`
	ExperiencePresentation int `json:"experience_presentation"`
	Formatting             int `json:"formatting"`
}

type Suggestion struct {
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// Analysis is the external shape of an analysis, whether produced by the
// collaborator or by the deterministic scorer.
type Analysis struct {
	OverallScore           int            `json:"overall_score"`
	ScoreBreakdown         ScoreBreakdown `json:"score_breakdown"`
	Strengths              []string       `json:"strengths"`
	Weaknesses             []string       `json:"weaknesses"`
	Suggestions            []Suggestion   `json:"suggestions"`
	MissingSkills          []string       `json:"missing_skills"`
	ATSIssues              []string       `json:"ats_issues"`
	KeywordRecommendations []string       `json:"keyword_recommendations"`
	ActionItems            []string       `json:"action_items"`
	ImprovementPotential   int            `json:"improvement_potential"`

	Source  string `json:"source"`
	Model   string `json:"model,omitempty"`
	Method  string `json:"method,omitempty"`
	Note    string `json:"note,omitempty"`
	AIError string `json:"ai_error,omitempty"`
}

// RubricScores is the improvement rubric: structure /20, skills /40,
// readability /20, ATS /20.
type RubricScores struct {
	OverallStructure int `json:"overall_structure"`
	SkillRelevance   int `json:"skill_relevance"`
	Readability      int `json:"readability"`
	ATSCompatibility int `json:"ats_compatibility"`
	Total            int `json:"total"`
}

type CriticalImprovement struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Impact      string   `json:"impact"`
	Examples    []string `json:"examples"`
}

type SkillsRecommendations struct {
	TrendingSkills    []string `json:"trending_skills"`
	MissingKeywords   []string `json:"missing_keywords"`
	SkillsToHighlight []string `json:"skills_to_highlight"`
}

type ContentImprovements struct {
	Experience []string `json:"experience"`
	Format     []string `json:"format"`
	Summary    []string `json:"summary"`
}

type NextStep struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Time   string `json:"time"`
}

type IndustryInsights struct {
	CurrentTrends        []string `json:"current_trends"`
	RecruiterPreferences []string `json:"recruiter_preferences"`
	CommonMistakes       []string `json:"common_mistakes"`
}

// ImprovementPlan is a detailed list of changes that would raise the score.
type ImprovementPlan struct {
	OverallScore          int                   `json:"overall_score"`
	ImprovementPotential  int                   `json:"improvement_potential"`
	Scores                *RubricScores         `json:"scores,omitempty"`
	Suggestions           []Suggestion          `json:"suggestions"`
	CriticalImprovements  []CriticalImprovement `json:"critical_improvements"`
	SkillsRecommendations SkillsRecommendations `json:"skills_recommendations"`
	ContentImprovements   ContentImprovements   `json:"content_improvements"`
	ATSOptimizationTips   []string              `json:"ats_optimization_tips"`
	NextSteps             []NextStep            `json:"next_steps"`
	IndustryInsights      *IndustryInsights     `json:"industry_insights,omitempty"`

	Source  string `json:"source"`
	Model   string `json:"model,omitempty"`
	AIError string `json:"ai_error,omitempty"`
}

// Analyzer is a generative-AI collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, profile *resume.Profile, jobDescription string) (*Analysis, error)
	Improve(ctx context.Context, profile *resume.Profile, currentScore int) (*ImprovementPlan, error)
	Model() string
}

func (a *Analysis) ensureLists() {
	for _, list := range []*[]string{
		&a.Strengths, &a.Weaknesses, &a.MissingSkills, &a.ATSIssues,
		&a.KeywordRecommendations, &a.ActionItems,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	if a.Suggestions == nil {
		a.Suggestions = []Suggestion{}
	}
}

func (p *ImprovementPlan) ensureLists() {
	for _, list := range []*[]string{
		&p.ATSOptimizationTips,
		&p.SkillsRecommendations.TrendingSkills,
		&p.SkillsRecommendations.MissingKeywords,
		&p.SkillsRecommendations.SkillsToHighlight,
		&p.ContentImprovements.Experience,
		&p.ContentImprovements.Format,
		&p.ContentImprovements.Summary,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	if p.Suggestions == nil {
		p.Suggestions = []Suggestion{}
	}
	if p.CriticalImprovements == nil {
		p.CriticalImprovements = []CriticalImprovement{}
	}
	if p.NextSteps == nil {
		p.NextSteps = []NextStep{}
	}
}

// EnsureLists replaces nil lists with empty ones so results encode as [] rather than null.
func EnsureLists(v any) {
	switch r := v.(type) {
	case *Analysis:
		r.ensureLists()
	case *ImprovementPlan:
		r.ensureLists()
	}
}
