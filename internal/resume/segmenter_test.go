package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentDisjointSections(t *testing.T) {
	t.Parallel()

	text := NewRawText(`Jane Doe
jane@example.com

Skills
Go, Python, Docker

Experience:
Senior Engineer, Example Corp, 2019 - 2024
Built billing pipelines

EDUCATION
B.Sc. Computer Science, State University`)

	sections := Segment(text)

	require.Len(t, sections, 4)
	assert.Equal(t, Section{Label: LabelUnknown, Lines: []string{"Jane Doe", "jane@example.com"}}, sections[0])
	assert.Equal(t, Section{Label: LabelSkills, Lines: []string{"Go, Python, Docker"}}, sections[1])
	assert.Equal(t, Section{Label: LabelExperience, Lines: []string{
		"Senior Engineer, Example Corp, 2019 - 2024",
		"Built billing pipelines",
	}}, sections[2])
	assert.Equal(t, Section{Label: LabelEducation, Lines: []string{"B.Sc. Computer Science, State University"}}, sections[3])

	seen := make(map[string]Label)
	for _, section := range sections {
		for _, line := range section.Lines {
			prev, dup := seen[line]
			require.False(t, dup, "line %q duplicated in %s and %s", line, prev, section.Label)
			seen[line] = section.Label
		}
	}
}

func TestSegmentHeadingVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line  string
		label Label
	}{
		{"Technical Skills", LabelSkills},
		{"## Core Competencies:", LabelSkills},
		{"Skills & Tools", LabelSkills},
		{"WORK EXPERIENCE", LabelExperience},
		{"Professional   Experience :", LabelExperience},
		{"Employment History", LabelExperience},
		{"Academic Background", LabelEducation},
		{"Personal Projects", LabelProjects},
		{"• Projects", LabelProjects},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			sections := Segment(NewRawText(tt.line + "\ncontent line"))
			require.Len(t, sections, 1)
			assert.Equal(t, tt.label, sections[0].Label)
			assert.Equal(t, []string{"content line"}, sections[0].Lines)
		})
	}
}

func TestSegmentHeadingMustBeWholeLine(t *testing.T) {
	t.Parallel()

	sections := Segment(NewRawText("Experience\nExperience with distributed systems\nEducation is important to me"))

	require.Len(t, sections, 1)
	assert.Equal(t, LabelExperience, sections[0].Label)
	assert.Equal(t, []string{
		"Experience with distributed systems",
		"Education is important to me",
	}, sections[0].Lines)
}

func TestSegmentTerminators(t *testing.T) {
	t.Parallel()

	text := NewRawText(`Experience
Engineer at Example Corp
Certifications
AWS Solutions Architect
Skills
Go
References
Available upon request`)

	sections := Segment(text)

	assert.Equal(t, []string{"Engineer at Example Corp"}, sections.Lines(LabelExperience))
	assert.Equal(t, []string{"Go"}, sections.Lines(LabelSkills))
	assert.Equal(t, []string{"AWS Solutions Architect", "Available upon request"}, sections.Lines(LabelUnknown))
}

func TestSegmentTerminatorSetsDiffer(t *testing.T) {
	t.Parallel()

	// References ends Skills but not Experience.
	sections := Segment(NewRawText("Experience\nEngineer at Example Corp\nReferences\nJohn Smith, manager"))

	assert.Equal(t, []string{"Engineer at Example Corp", "References", "John Smith, manager"}, sections.Lines(LabelExperience))
}

func TestSegmentLastHeadingWins(t *testing.T) {
	t.Parallel()

	sections := Segment(NewRawText("Skills\nExperience\nEducation\nState University\nSkills\nRust"))

	require.Len(t, sections, 4)
	assert.True(t, sections.Has(LabelExperience))
	assert.Empty(t, sections.Lines(LabelExperience))
	assert.Equal(t, []string{"State University"}, sections.Lines(LabelEducation))
	assert.Equal(t, []string{"Rust"}, sections.Lines(LabelSkills))
}

func TestSegmentWithoutHeadings(t *testing.T) {
	t.Parallel()

	sections := Segment(NewRawText("just some text\n\n  more text  "))

	require.Len(t, sections, 1)
	assert.Equal(t, LabelUnknown, sections[0].Label)
	assert.Equal(t, []string{"just some text", "more text"}, sections[0].Lines)
	assert.False(t, sections.Has(LabelSkills))
	assert.Empty(t, Segment(NewRawText("")))
}

func TestRawTextLinesAreCopies(t *testing.T) {
	t.Parallel()

	text := NewRawText("a\r\nb")
	lines := text.Lines()
	lines[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, text.Lines())
	assert.Equal(t, "a\nb", text.String())
}
