package resume

import (
	"regexp"
	"strings"
)

type Label string

const (
	LabelUnknown    Label = "unknown"
	LabelSkills     Label = "skills"
	LabelExperience Label = "experience"
	LabelEducation  Label = "education"
	LabelProjects   Label = "projects"
)

// Section is a contiguous run of non-blank lines under one heading.
type Section struct {
	Label Label
	Lines []string
}

// Sections is the ordered output of Segment.
type Sections []Section

// Lines returns the lines of every section with the given label, in order.
func (s Sections) Lines(label Label) []string {
	var lines []string
	for _, section := range s {
		if section.Label == label {
			lines = append(lines, section.Lines...)
		}
	}
	return lines
}

// Has reports whether a section with the given label was opened.
func (s Sections) Has(label Label) bool {
	for _, section := range s {
		if section.Label == label {
			return true
		}
	}
	return false
}

// headingPattern wraps alternatives into a pattern matching a line that is
// only the heading, optionally followed by a colon.
func headingPattern(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + alternatives + `)\s*:?$`)
}

var sectionHeadings = []struct {
	label   Label
	pattern *regexp.Regexp
}{
	{LabelSkills, headingPattern(`skills|technical\s+skills|key\s+skills|core\s+skills|core\s+competencies|skills\s*(?:&|and)\s*(?:tools|technologies|abilities)|technologies|tech(?:nical)?\s+stack|technical\s+proficiencies`)},
	{LabelExperience, headingPattern(`experience|work\s+experience|professional\s+experience|relevant\s+experience|employment|employment\s+history|work\s+history|career\s+history|professional\s+background`)},
	{LabelEducation, headingPattern(`education|academic\s+background|academic\s+qualifications|education\s*(?:&|and)\s*(?:training|certifications)|qualifications`)},
	{LabelProjects, headingPattern(`projects|personal\s+projects|academic\s+projects|key\s+projects|selected\s+projects|side\s+projects`)},
}

// endMarkers are headings that close a section without opening a known one.
var endMarkers = map[string]*regexp.Regexp{
	"experience":     headingPattern(`(?:volunteer|volunteering|internship|research|teaching|leadership|military)\s+experience|internships?`),
	"history":        headingPattern(`history|career|employment\s+record`),
	"work":           headingPattern(`work|work\s+experience`),
	"education":      headingPattern(`education|academic\s+history|degrees?`),
	"skills":         headingPattern(`(?:soft|language|interpersonal|additional|other|computer)\s+skills|languages|tools`),
	"projects":       headingPattern(`(?:open[\s-]source|notable|other|research)\s+projects|portfolio`),
	"certifications": headingPattern(`certifications?|licenses?\s*(?:&|and)\s*certifications?|certificates?|courses`),
	"awards":         headingPattern(`awards?|honou?rs(?:\s*(?:&|and)\s*awards)?|achievements`),
	"publications":   headingPattern(`publications?|papers`),
	"references":     headingPattern(`references?(?:\s+available\s+upon\s+request)?`),
	"summary":        headingPattern(`summary|professional\s+summary|profile|about\s+me`),
	"objective":      headingPattern(`objective|career\s+objective`),
}

// terminators lists, per label, the end markers that close it.
var terminators = map[Label][]string{
	LabelExperience: {"education", "skills", "projects", "certifications", "awards"},
	LabelSkills:     {"experience", "history", "education", "projects", "certifications", "awards", "publications", "references", "summary", "objective"},
	LabelEducation:  {"experience", "work", "skills", "projects", "certifications", "awards"},
	LabelProjects:   {"experience", "education", "skills", "certifications", "awards", "publications", "references"},
}

var headingDecoration = regexp.MustCompile(`^(?:[#*•▪◦●■\-=_]+\s*)+|\s*[#*=_]+$`)

// Segment splits text into labeled sections. A recognized heading line
// opens its section and is not part of it; the last heading wins.
func Segment(text RawText) Sections {
	var sections Sections

	current := LabelUnknown
	var lines []string
	opened := false

	flush := func() {
		if opened || len(lines) > 0 {
			sections = append(sections, Section{Label: current, Lines: lines})
		}
		lines = nil
		opened = false
	}

	for _, raw := range text.lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		heading := normalizeHeading(line)

		if label, ok := matchSection(heading); ok {
			flush()
			current = label
			opened = true
			continue
		}

		if current != LabelUnknown && isTerminator(current, heading) {
			flush()
			current = LabelUnknown
			continue
		}

		lines = append(lines, line)
	}
	flush()

	return sections
}

func normalizeHeading(line string) string {
	line = headingDecoration.ReplaceAllString(line, "")
	return strings.Join(strings.Fields(line), " ")
}

func matchSection(heading string) (Label, bool) {
	for _, h := range sectionHeadings {
		if h.pattern.MatchString(heading) {
			return h.label, true
		}
	}
	return LabelUnknown, false
}

func isTerminator(label Label, heading string) bool {
	for _, name := range terminators[label] {
		if endMarkers[name].MatchString(heading) {
			return true
		}
	}
	return false
}
