package ai

import (
	"errors"
	"fmt"
)

var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// Validate checks the external shape of an analysis.
func Validate(a *Analysis) error {
	if a == nil {
		return errors.New("analysis is nil")
	}

	var errs []error
	checkScore := func(name string, v int) {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s out of range: %d", name, v))
		}
	}

	checkScore("overall_score", a.OverallScore)
	checkScore("improvement_potential", a.ImprovementPotential)
	checkScore("score_breakdown.content_quality", a.ScoreBreakdown.ContentQuality)
	checkScore("score_breakdown.ats_optimization", a.ScoreBreakdown.ATSOptimization)
	checkScore("score_breakdown.skills_relevance", a.ScoreBreakdown.SkillsRelevance)
	checkScore("score_breakdown.experience_presentation", a.ScoreBreakdown.ExperiencePresentation)
	checkScore("score_breakdown.formatting", a.ScoreBreakdown.Formatting)

	if a.Source != SourceAI && a.Source != SourceFallback {
		errs = append(errs, fmt.Errorf("unknown source %q", a.Source))
	}
	errs = append(errs, validateSuggestions(a.Suggestions)...)

	return errors.Join(errs...)
}

// ValidatePlan checks the external shape of an improvement plan.
func ValidatePlan(p *ImprovementPlan) error {
	if p == nil {
		return errors.New("improvement plan is nil")
	}

	var errs []error
	if p.OverallScore < 0 || p.OverallScore > 100 {
		errs = append(errs, fmt.Errorf("overall_score out of range: %d", p.OverallScore))
	}
	if p.ImprovementPotential < 0 || p.ImprovementPotential > 100 {
		errs = append(errs, fmt.Errorf("improvement_potential out of range: %d", p.ImprovementPotential))
	}
	if p.Source != SourceAI && p.Source != SourceFallback {
		errs = append(errs, fmt.Errorf("unknown source %q", p.Source))
	}
	for i, c := range p.CriticalImprovements {
		if !validPriorities[c.Priority] {
			errs = append(errs, fmt.Errorf("critical_improvements[%d]: unknown priority %q", i, c.Priority))
		}
	}
	errs = append(errs, validateSuggestions(p.Suggestions)...)

	return errors.Join(errs...)
}

func validateSuggestions(suggestions []Suggestion) []error {
	var errs []error
	for i, s := range suggestions {
		if s.Suggestion == "" {
			errs = append(errs, fmt.Errorf("suggestions[%d]: empty text", i))
		}
		if s.Category == "" {
			errs = append(errs, fmt.Errorf("suggestions[%d]: empty category", i))
		}
		if !validPriorities[s.Priority] {
			errs = append(errs, fmt.Errorf("suggestions[%d]: unknown priority %q", i, s.Priority))
		}
	}
	return errs
}

// ErrorResult is the payload emitted when the pipeline cannot produce any result.
type ErrorResult struct {
	Error        string       `json:"error"`
	RawResponse  string       `json:"raw_response,omitempty"`
	OverallScore int          `json:"overall_score"`
	Suggestions  []Suggestion `json:"suggestions"`
}

// NewErrorResult builds the failure payload for err.
func NewErrorResult(message, raw string) ErrorResult {
	return ErrorResult{Error: message, RawResponse: raw, Suggestions: []Suggestion{}}
}
