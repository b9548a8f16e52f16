package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Sentinels returned in place of an empty list when a section is missing or unusable.
const (
	SentinelExperience = "No work experience section found or couldn't be parsed."
	SentinelEducation  = "No education section found or couldn't be parsed."
	SentinelProjects   = "No projects section found or couldn't be parsed."
)

const (
	maxEntries = 10
	// projectBlockLimit is the block length after which any line starts a new project.
	projectBlockLimit = 50
)

// Collector keeps the meaningful lines of one section.
type Collector struct {
	Label     Label
	MinLength int
	Sentinel  string
	// Group merges continuation lines into blocks before filtering.
	Group bool
}

var (
	ExperienceCollector = Collector{Label: LabelExperience, MinLength: 10, Sentinel: SentinelExperience}
	EducationCollector  = Collector{Label: LabelEducation, MinLength: 10, Sentinel: SentinelEducation}
	ProjectsCollector   = Collector{Label: LabelProjects, MinLength: 15, Sentinel: SentinelProjects, Group: true}
)

var listMarker = regexp.MustCompile(`^(?:[-*•▪◦●■‣–—>]|\d{1,2}[.)])\s*`)

// Collect returns at most ten entries longer than MinLength, or the sentinel alone.
func (c Collector) Collect(sections Sections) []string {
	lines := sections.Lines(c.Label)
	if c.Group {
		lines = groupBlocks(lines)
	}

	entries := make([]string, 0, maxEntries)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= c.MinLength {
			continue
		}
		entries = append(entries, line)
		if len(entries) == maxEntries {
			break
		}
	}

	if len(entries) == 0 {
		return []string{c.Sentinel}
	}
	return entries
}

// IsSentinel reports whether entry is one of the "section not found" placeholders.
func IsSentinel(entry string) bool {
	switch entry {
	case SentinelExperience, SentinelEducation, SentinelProjects:
		return true
	default:
		return false
	}
}

// groupBlocks joins continuation lines into project blocks. A list marker,
// or a current block longer than projectBlockLimit, starts a new block.
func groupBlocks(lines []string) []string {
	var blocks []string
	var current string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		marked := listMarker.MatchString(line)
		if marked {
			line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		}
		if line == "" {
			continue
		}

		if current == "" {
			current = line
			continue
		}

		if marked || utf8.RuneCountInString(current) > projectBlockLimit {
			blocks = append(blocks, current)
			current = line
			continue
		}

		current += " " + line
	}

	if current != "" {
		blocks = append(blocks, current)
	}
	return blocks
}
