// Package scoring computes the deterministic fallback analysis of a resume profile.
package scoring

import (
	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/resume"
)

const (
	// Entries at or below these lengths do not count as substantive.
	experienceMinLength = 30
	educationMinLength  = 20

	penaltySkills     = 5
	penaltyExperience = 2
	penaltyPoints     = 10
	penaltyFloor      = 20
)

// tier matches a measured value in [min, max]. max of 0 means unbounded.
type tier struct {
	min    int
	max    int
	score  int
	points int
}

func (t tier) matches(v int) bool {
	return v >= t.min && (t.max == 0 || v <= t.max)
}

// bucket is one row of the rubric.
type bucket struct {
	name    string
	measure func(p *resume.Profile) int
	assign  func(b *ai.ScoreBreakdown, score int)
	tiers   []tier

	strength   string
	weakness   string
	suggestion ai.Suggestion
}

// rubric is the single scoring policy. The points of the top tiers sum to 81.
var rubric = []bucket{
	{
		name:    "skills",
		measure: func(p *resume.Profile) int { return len(p.Skills) },
		assign:  func(b *ai.ScoreBreakdown, s int) { b.SkillsRelevance = s },
		tiers: []tier{
			{min: 12, score: 80, points: 18},
			{min: 8, score: 65, points: 13},
			{min: 5, score: 50, points: 10},
			{min: 3, score: 35, points: 7},
			{min: 0, score: 20, points: 4},
		},
		strength: "Well-populated skills section (%d recognized skills)",
		weakness: "Only %d recognized skills listed",
		suggestion: ai.Suggestion{
			Category:   "Skills",
			Suggestion: "Add a dedicated skills section listing the languages, tools and platforms you use.",
			Reason:     "Recruiters and ATS filters match on explicit skill keywords.",
		},
	},
	{
		name:    "experience",
		measure: func(p *resume.Profile) int { return resume.SubstantiveEntries(p.Experience, experienceMinLength) },
		assign:  func(b *ai.ScoreBreakdown, s int) { b.ExperiencePresentation = s },
		tiers: []tier{
			{min: 4, score: 75, points: 23},
			{min: 3, score: 65, points: 20},
			{min: 2, score: 50, points: 15},
			{min: 1, score: 35, points: 10},
			{min: 0, score: 15, points: 5},
		},
		strength: "Experience section describes %d roles in detail",
		weakness: "Experience entries are missing or too brief (%d detailed)",
		suggestion: ai.Suggestion{
			Category:   "Experience",
			Suggestion: "Describe each role with responsibilities and measurable results.",
			Reason:     "Detailed, quantified experience is the main signal of impact.",
		},
	},
	{
		name:    "education",
		measure: func(p *resume.Profile) int { return resume.SubstantiveEntries(p.Education, educationMinLength) },
		assign:  func(b *ai.ScoreBreakdown, s int) { b.ContentQuality = s },
		tiers: []tier{
			{min: 2, score: 70, points: 15},
			{min: 1, score: 50, points: 10},
			{min: 0, score: 25, points: 5},
		},
		strength: "Education is clearly documented (%d entries)",
		weakness: "Education details are missing or incomplete (%d detailed)",
		suggestion: ai.Suggestion{
			Category:   "Education",
			Suggestion: "List degrees with institution, field of study and graduation year.",
			Reason:     "Incomplete education entries can fail automated screening.",
		},
	},
	{
		name:    "contact",
		measure: contactLevel,
		assign:  func(b *ai.ScoreBreakdown, s int) { b.ATSOptimization = s },
		tiers: []tier{
			{min: 2, score: 70, points: 10},
			{min: 1, score: 40, points: 5},
			{min: 0, score: 20, points: 2},
		},
		strength: "Email and phone are both present",
		weakness: "Contact information is missing",
		suggestion: ai.Suggestion{
			Category:   "Contact",
			Suggestion: "Put a professional email address and a phone number at the top.",
			Reason:     "Recruiters cannot reach a candidate without contact details.",
		},
	},
	{
		name:    "length",
		measure: func(p *resume.Profile) int { return p.WordCount },
		assign:  func(b *ai.ScoreBreakdown, s int) { b.Formatting = s },
		tiers: []tier{
			{min: 400, max: 800, score: 75, points: 15},
			{min: 300, max: 1000, score: 60, points: 12},
			{min: 200, score: 45, points: 9},
			{min: 0, score: 30, points: 5},
		},
		strength: "Resume length is in the optimal range (%d words)",
		weakness: "Resume is too short to show enough detail (%d words)",
		suggestion: ai.Suggestion{
			Category:   "Format",
			Suggestion: "Aim for 400 to 800 words across clearly labeled sections.",
			Reason:     "Short resumes lack detail and long ones lose recruiter attention.",
		},
	},
}

// contactLevel is 2 with both email and phone, 1 with either, 0 with none.
func contactLevel(p *resume.Profile) int {
	level := 0
	if len(p.Contact.Emails) > 0 {
		level++
	}
	if len(p.Contact.Phones) > 0 {
		level++
	}
	return level
}

// grade returns the index of the first tier matching v.
func (b bucket) grade(v int) int {
	for i, t := range b.tiers {
		if t.matches(v) {
			return i
		}
	}
	return len(b.tiers) - 1
}
