package scoring

import (
	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/resume"
)

const (
	fallbackBase      = 50
	fallbackCap       = 85
	fallbackPotential = 15
)

// FallbackImprovement returns the static improvement plan used when the
// collaborator is unavailable.
func FallbackImprovement(profile *resume.Profile, aiErr error) *ai.ImprovementPlan {
	if profile == nil {
		profile = &resume.Profile{}
	}

	critical := []ai.CriticalImprovement{
		{
			Title:       "Add Quantifiable Achievements",
			Description: `Include specific metrics and numbers (e.g., "Increased sales by 25%")`,
			Priority:    ai.PriorityHigh,
			Impact:      "High impact on ATS score",
			Examples: []string{
				"Led a team of 5 developers",
				"Improved system performance by 40%",
				"Managed a budget of $100K",
			},
		},
		{
			Title:       "Optimize for ATS Systems",
			Description: "Use standard section headings and avoid complex formatting",
			Priority:    ai.PriorityHigh,
			Impact:      "Essential for automated screening",
			Examples: []string{
				`Use "Work Experience" instead of creative titles`,
				"Include keywords from job descriptions",
				"Use standard date formats (MM/YYYY)",
			},
		},
		{
			Title:       "Enhance Skills Section",
			Description: "Add more relevant technical and soft skills",
			Priority:    ai.PriorityMedium,
			Impact:      "Improves keyword matching",
			Examples: []string{
				"List programming languages and frameworks",
				"Include tools and technologies",
				"Add certifications and licenses",
			},
		},
	}

	plan := &ai.ImprovementPlan{
		OverallScore:         min(fallbackCap, fallbackBase+2*len(profile.Skills)+5*len(profile.Experience)),
		ImprovementPotential: fallbackPotential,
		CriticalImprovements: critical,
		SkillsRecommendations: ai.SkillsRecommendations{
			TrendingSkills: []string{
				"Cloud Computing (AWS, Azure, GCP)",
				"Machine Learning & AI",
				"DevOps & CI/CD",
				"Agile Methodologies",
				"Data Analysis",
			},
			MissingKeywords: []string{
				"Leadership",
				"Project Management",
				"Problem Solving",
				"Team Collaboration",
				"Communication",
			},
			SkillsToHighlight: firstN(profile.Skills, 5),
		},
		ContentImprovements: ai.ContentImprovements{
			Experience: []string{
				"Start bullet points with strong action verbs",
				"Use STAR method (Situation, Task, Action, Result)",
				"Focus on achievements, not just responsibilities",
				"Tailor experience to target roles",
			},
			Format: []string{
				"Keep resume to 1-2 pages",
				"Use consistent formatting throughout",
				"Choose a clean, professional font",
				"Leave appropriate white space",
			},
		},
		ATSOptimizationTips: []string{
			"Use standard section headers (Summary, Experience, Education, Skills)",
			"Include relevant keywords from job postings",
			"Avoid headers, footers, and text boxes",
			"Use simple bullet points",
			"Save as .docx or .pdf format",
			"Include contact information at the top",
		},
		NextSteps: []ai.NextStep{
			{Step: 1, Action: "Review and update your professional summary", Time: "15 minutes"},
			{Step: 2, Action: "Add quantifiable achievements to each role", Time: "30 minutes"},
			{Step: 3, Action: "Research and add trending industry skills", Time: "20 minutes"},
			{Step: 4, Action: "Optimize formatting for ATS compatibility", Time: "15 minutes"},
		},
		Source: ai.SourceFallback,
	}

	for _, c := range critical {
		plan.Suggestions = append(plan.Suggestions, ai.Suggestion{
			Category:   c.Title,
			Priority:   c.Priority,
			Suggestion: c.Description,
			Reason:     c.Impact,
		})
	}
	if aiErr != nil {
		plan.AIError = aiErr.Error()
	}

	ai.EnsureLists(plan)
	return plan
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	return append([]string(nil), values...)
}
