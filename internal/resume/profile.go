package resume

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/failure"
)

const summaryLength = 500

// Profile is the structured view of a resume.
type Profile struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Projects   []string `json:"projects"`
	Contact    Contact  `json:"contact"`
	Summary    string   `json:"summary"`
	WordCount  int      `json:"word_count"`
	CharCount  int      `json:"char_count"`
}

// SubstantiveEntries counts entries that are not sentinels and are longer than minLength.
func SubstantiveEntries(entries []string, minLength int) int {
	count := 0
	for _, entry := range entries {
		if IsSentinel(entry) {
			continue
		}
		if utf8.RuneCountInString(entry) > minLength {
			count++
		}
	}
	return count
}

// Parser builds profiles from extracted text.
type Parser struct {
	skills *Whitelist
	logger *zap.Logger
}

// NewParser creates a Parser backed by the embedded skill whitelist.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{skills: DefaultWhitelist(), logger: logger}
}

// WithWhitelist returns a copy of the parser using w.
func (p *Parser) WithWhitelist(w *Whitelist) *Parser {
	clone := *p
	clone.skills = w
	return &clone
}

// Parse extracts a profile from text.
func (p *Parser) Parse(text RawText) *Profile {
	sections := Segment(text)
	full := text.String()

	return &Profile{
		Skills:     p.Skills(sections, full),
		Experience: ExperienceCollector.Collect(sections),
		Education:  EducationCollector.Collect(sections),
		Projects:   ProjectsCollector.Collect(sections),
		Contact:    ExtractContact(full),
		Summary:    summarize(full),
		WordCount:  len(strings.Fields(full)),
		CharCount:  utf8.RuneCountInString(full),
	}
}

// Skills matches the whitelist against the Skills section, or the whole
// text when the resume has no Skills section.
func (p *Parser) Skills(sections Sections, full string) []string {
	if !sections.Has(LabelSkills) {
		p.logger.Warn("no skills section found, matching skills against the full document")
		return p.skills.Match(full)
	}
	return p.skills.Match(strings.Join(sections.Lines(LabelSkills), "\n"))
}

func summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryLength {
		return text
	}
	return string(runes[:summaryLength]) + "..."
}

// DecodeProfile parses a caller-supplied profile. Missing lists decode as empty.
func DecodeProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, failure.NewInputParse("decode profile", err)
	}
	if profile.WordCount < 0 || profile.CharCount < 0 {
		return nil, failure.NewInputParse("decode profile", fmt.Errorf("counts must not be negative"))
	}
	profile.normalize()
	return &profile, nil
}

func (p *Profile) normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []string{}
	}
	if p.Education == nil {
		p.Education = []string{}
	}
	if p.Projects == nil {
		p.Projects = []string{}
	}
	if p.Contact.Emails == nil {
		p.Contact.Emails = []string{}
	}
	if p.Contact.Phones == nil {
		p.Contact.Phones = []string{}
	}
}
