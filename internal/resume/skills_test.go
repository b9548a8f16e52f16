package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitelistDisplayRules(t *testing.T) {
	t.Parallel()

	w := DefaultWhitelist()
	tests := []struct {
		text   string
		expect []string
	}{
		{"html", []string{"HTML"}},
		{"nlp", []string{"NLP"}},
		{"Express.js", []string{"express.js"}},
		{"JAVASCRIPT", []string{"Javascript"}},
		{"typescript", []string{"Typescript"}},
		{"machine learning", []string{"Machine Learning"}},
		{"docker", []string{"Docker"}},
		{"C++", []string{"C++"}},
		{"C#", []string{"C#"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, w.Match(tt.text))
		})
	}
}

func TestWhitelistWholeWords(t *testing.T) {
	t.Parallel()

	w := DefaultWhitelist()

	assert.Equal(t, []string{"Javascript"}, w.Match("JavaScript"))
	assert.Equal(t, []string{"Java", "Javascript"}, w.Match("Java, JavaScript"))
	assert.Empty(t, w.Match("Golfing and gopher watching"))
	assert.NotContains(t, w.Match("C++ and C#"), "C")
	assert.Contains(t, w.Match("Spring   Boot"), "Spring Boot")
}

func TestWhitelistSkipsTermsInsideLongerTerms(t *testing.T) {
	t.Parallel()

	w := DefaultWhitelist()

	got := w.Match("Objective-C and Node.js, Spring Boot")
	assert.NotContains(t, got, "C")
	assert.NotContains(t, got, "Node")
	assert.NotContains(t, got, "Spring")
	assert.Contains(t, got, "node.js")
	assert.Contains(t, got, "Spring Boot")
	assert.Len(t, got, 3)

	// a standalone occurrence still counts
	got = w.Match("Objective-C, C and Node")
	assert.Contains(t, got, "C")
	assert.Contains(t, got, "Node")
}

func TestWhitelistMatchesEveryTerm(t *testing.T) {
	t.Parallel()

	w := DefaultWhitelist()
	require.Greater(t, w.Len(), 150)

	for _, term := range w.terms {
		section := "Skills: " + term.term + "; other"
		got := w.Match(section)
		assert.Contains(t, got, term.display, "term %q", term.term)
		for _, skill := range got {
			assert.True(t, w.Contains(skill), "%q is not whitelisted", skill)
		}
	}
}

func TestWhitelistCapsAndSorts(t *testing.T) {
	t.Parallel()

	w := DefaultWhitelist()
	terms := make([]string, 0, w.Len())
	for _, term := range w.terms {
		terms = append(terms, term.term)
	}

	got := w.Match(strings.Join(terms, ", "))
	require.Len(t, got, MaxSkills)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, strings.ToLower(got[i-1]), strings.ToLower(got[i]))
	}
}

func TestWhitelistDeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()

	w, err := LoadWhitelist([]byte(`
display:
  upper: [sql]
categories:
  a: [sql, SQL, " Go "]
  b: [go]
`))
	require.NoError(t, err)

	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []string{"Go", "SQL"}, w.Match("sql, Go and SQL again"))
}

func TestLoadWhitelistErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadWhitelist([]byte("categories: [unclosed"))
	assert.Error(t, err)

	_, err = LoadWhitelist([]byte("categories: {}"))
	assert.Error(t, err)
}
