package scoring

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/resume"
)

const (
	Method = "basic_calculation"
	Note   = "This is a fallback score. AI analysis unavailable."

	unavailableSuggestion = "AI analysis unavailable. Using basic scoring."
	limitedStrengths      = "Limited strengths identified"
)

// Score grades profile against the rubric. It is pure: the same profile
// always yields the same analysis.
func Score(profile *resume.Profile) *ai.Analysis {
	if profile == nil {
		profile = &resume.Profile{}
	}

	analysis := &ai.Analysis{
		Source: ai.SourceFallback,
		Method: Method,
		Note:   Note,
	}

	var high, medium []ai.Suggestion
	measured := make(map[string]int, len(rubric))
	total := 0
	for _, b := range rubric {
		value := b.measure(profile)
		measured[b.name] = value

		idx := b.grade(value)
		t := b.tiers[idx]
		b.assign(&analysis.ScoreBreakdown, t.score)
		total += t.points

		switch {
		case idx == 0:
			analysis.Strengths = append(analysis.Strengths, describe(b.strength, value))
		case idx == len(b.tiers)-1:
			analysis.Weaknesses = append(analysis.Weaknesses, describe(b.weakness, value))
			s := b.suggestion
			s.Priority = ai.PriorityHigh
			high = append(high, s)
		default:
			s := b.suggestion
			s.Priority = ai.PriorityMedium
			medium = append(medium, s)
		}
	}

	if measured["skills"] < penaltySkills && measured["experience"] < penaltyExperience {
		total = max(penaltyFloor, total-penaltyPoints)
	}
	analysis.OverallScore = min(total, 100)
	analysis.ImprovementPotential = min(max(100-analysis.OverallScore, 5), 25)

	analysis.Suggestions = append(high, medium...)
	for _, s := range high {
		analysis.ActionItems = append(analysis.ActionItems, s.Suggestion)
	}
	if len(analysis.Strengths) == 0 {
		analysis.Strengths = []string{limitedStrengths}
	}
	analysis.ATSIssues = atsIssues(profile)

	ai.EnsureLists(analysis)
	return analysis
}

// Fallback is Score annotated with the collaborator error that caused it.
func Fallback(profile *resume.Profile, aiErr error) *ai.Analysis {
	analysis := Score(profile)
	if aiErr == nil {
		return analysis
	}

	analysis.AIError = aiErr.Error()
	notice := ai.Suggestion{
		Category:   "General",
		Priority:   ai.PriorityHigh,
		Suggestion: unavailableSuggestion,
		Reason:     analysis.AIError,
	}
	analysis.Suggestions = append([]ai.Suggestion{notice}, analysis.Suggestions...)

	return analysis
}

func atsIssues(p *resume.Profile) []string {
	var issues []string
	if len(p.Experience) == 1 && p.Experience[0] == resume.SentinelExperience {
		issues = append(issues, "No standard experience heading was detected")
	}
	if len(p.Education) == 1 && p.Education[0] == resume.SentinelEducation {
		issues = append(issues, "No standard education heading was detected")
	}
	if len(p.Contact.Emails) == 0 {
		issues = append(issues, "No email address was found")
	}
	if len(p.Contact.Phones) == 0 {
		issues = append(issues, "No phone number was found")
	}
	return issues
}

func describe(format string, value int) string {
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, value)
	}
	return format
}
