package scoring

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/resume"
)

func entries(n int, text string) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%s #%d", text, i))
	}
	return out
}

func skills(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("Skill%d", i))
	}
	return out
}

const (
	longExperience = "Senior Engineer at Example Corp, 2019-2023, built billing systems"
	longEducation  = "BSc Computer Science, State University"
)

func TestScoreEmptyProfile(t *testing.T) {
	t.Parallel()

	analysis := Score(&resume.Profile{
		Experience: []string{resume.SentinelExperience},
		Education:  []string{resume.SentinelEducation},
	})

	assert.Equal(t, 20, analysis.OverallScore)
	assert.Equal(t, ai.ScoreBreakdown{
		ContentQuality:         25,
		ATSOptimization:        20,
		SkillsRelevance:        20,
		ExperiencePresentation: 15,
		Formatting:             30,
	}, analysis.ScoreBreakdown)
	assert.Equal(t, []string{limitedStrengths}, analysis.Strengths)
	assert.Len(t, analysis.Weaknesses, len(rubric))
	assert.Len(t, analysis.Suggestions, len(rubric))
	for _, s := range analysis.Suggestions {
		assert.Equal(t, ai.PriorityHigh, s.Priority)
	}
	assert.Len(t, analysis.ActionItems, len(rubric))
	assert.Contains(t, analysis.ATSIssues, "No standard experience heading was detected")
	assert.Equal(t, 25, analysis.ImprovementPotential)
	assert.Equal(t, ai.SourceFallback, analysis.Source)
	assert.Equal(t, Method, analysis.Method)
	assert.Equal(t, Note, analysis.Note)
	require.NoError(t, ai.Validate(analysis))
}

func TestScoreStrongProfile(t *testing.T) {
	t.Parallel()

	analysis := Score(&resume.Profile{
		Skills:     skills(12),
		Experience: entries(4, longExperience),
		Education:  entries(2, longEducation),
		Contact:    resume.Contact{Emails: []string{"a@example.com"}, Phones: []string{"415-555-0100"}},
		WordCount:  500,
	})

	assert.Equal(t, 81, analysis.OverallScore)
	assert.Equal(t, ai.ScoreBreakdown{
		ContentQuality:         70,
		ATSOptimization:        70,
		SkillsRelevance:        80,
		ExperiencePresentation: 75,
		Formatting:             75,
	}, analysis.ScoreBreakdown)
	assert.Len(t, analysis.Strengths, len(rubric))
	assert.Contains(t, analysis.Strengths, "Well-populated skills section (12 recognized skills)")
	assert.Empty(t, analysis.Weaknesses)
	assert.NotNil(t, analysis.Suggestions)
	assert.Empty(t, analysis.Suggestions)
	assert.Empty(t, analysis.ATSIssues)
	assert.Equal(t, 19, analysis.ImprovementPotential)
	require.NoError(t, ai.Validate(analysis))
}

func TestScoreBuckets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		profile *resume.Profile
		want    int
	}{
		{
			name: "penalty applied",
			profile: &resume.Profile{
				Skills:     skills(4),
				Experience: []string{longExperience},
				Education:  []string{longEducation},
				Contact:    resume.Contact{Emails: []string{"a@example.com"}},
				WordCount:  350,
			},
			// 7 + 10 + 10 + 5 + 12 = 44, minus 10
			want: 34,
		},
		{
			name: "no penalty with enough skills",
			profile: &resume.Profile{
				Skills:     skills(5),
				Experience: []string{longExperience},
				WordCount:  150,
			},
			// 10 + 10 + 5 + 2 + 5
			want: 32,
		},
		{
			name: "short entries are not substantive",
			profile: &resume.Profile{
				Skills:     skills(8),
				Experience: []string{"Engineer", "Intern at Foo", longExperience, longExperience + " again"},
				Education:  []string{"BSc", longEducation},
				Contact:    resume.Contact{Phones: []string{"415-555-0100"}},
				WordCount:  1200,
			},
			// 13 + 15 + 10 + 5 + 9
			want: 52,
		},
		{
			name: "word count upper bound",
			profile: &resume.Profile{
				Skills:     skills(3),
				Experience: entries(3, longExperience),
				WordCount:  1000,
			},
			// 7 + 20 + 5 + 2 + 12
			want: 46,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			analysis := Score(tc.profile)
			assert.Equal(t, tc.want, analysis.OverallScore)
			require.NoError(t, ai.Validate(analysis))
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	t.Parallel()

	profile := &resume.Profile{
		Skills:     skills(9),
		Experience: entries(2, longExperience),
		WordCount:  420,
	}

	first := Score(profile)
	second := Score(profile)
	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first.OverallScore, 0)
	assert.LessOrEqual(t, first.OverallScore, 100)
}

func TestScoreNilProfile(t *testing.T) {
	t.Parallel()

	analysis := Score(nil)
	assert.Equal(t, 20, analysis.OverallScore)
	require.NoError(t, ai.Validate(analysis))
}

func TestFallback(t *testing.T) {
	t.Parallel()

	profile := &resume.Profile{Skills: skills(6), WordCount: 250}
	cause := errors.New("gemini: AI analysis failed: quota exceeded")

	analysis := Fallback(profile, cause)
	require.NotEmpty(t, analysis.Suggestions)

	notice := analysis.Suggestions[0]
	assert.Equal(t, "General", notice.Category)
	assert.Equal(t, ai.PriorityHigh, notice.Priority)
	assert.Equal(t, unavailableSuggestion, notice.Suggestion)
	assert.Equal(t, cause.Error(), notice.Reason)
	assert.Equal(t, cause.Error(), analysis.AIError)
	assert.Equal(t, Score(profile).OverallScore, analysis.OverallScore)
	require.NoError(t, ai.Validate(analysis))

	plain := Fallback(profile, nil)
	assert.Empty(t, plain.AIError)
	for _, s := range plain.Suggestions {
		assert.False(t, strings.Contains(s.Suggestion, "AI analysis unavailable"))
	}
}
