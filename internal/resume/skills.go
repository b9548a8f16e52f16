package resume

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxSkills caps the number of skills reported for a resume.
const MaxSkills = 25

//go:embed skills.yaml
var skillsYAML []byte

// DisplayRule selects how a whitelisted term is rendered.
type DisplayRule string

const (
	RuleTitle      DisplayRule = "title"
	RuleUpper      DisplayRule = "upper"
	RuleVerbatim   DisplayRule = "verbatim"
	RuleCapitalize DisplayRule = "capitalize"
)

type skillsFile struct {
	Display struct {
		Upper      []string `yaml:"upper"`
		Verbatim   []string `yaml:"verbatim"`
		Capitalize []string `yaml:"capitalize"`
	} `yaml:"display"`
	Categories map[string][]string `yaml:"categories"`
}

type skillTerm struct {
	term    string
	display string
	pattern *regexp.Regexp
}

// Whitelist is the read-only table of recognized skills.
type Whitelist struct {
	terms    []skillTerm
	displays map[string]struct{}
}

var defaultWhitelist = mustLoadWhitelist(skillsYAML)

// DefaultWhitelist returns the embedded skill table.
func DefaultWhitelist() *Whitelist {
	return defaultWhitelist
}

func mustLoadWhitelist(data []byte) *Whitelist {
	w, err := LoadWhitelist(data)
	if err != nil {
		panic(fmt.Sprintf("loading embedded skill whitelist: %v", err))
	}
	return w
}

// LoadWhitelist parses a YAML skill table.
func LoadWhitelist(data []byte) (*Whitelist, error) {
	var file skillsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse skill table: %w", err)
	}

	rules := make(map[string]DisplayRule)
	for rule, terms := range map[DisplayRule][]string{
		RuleUpper:      file.Display.Upper,
		RuleVerbatim:   file.Display.Verbatim,
		RuleCapitalize: file.Display.Capitalize,
	} {
		for _, term := range terms {
			rules[normalizeTerm(term)] = rule
		}
	}

	// cases.Caser is stateful, one per load.
	title := cases.Title(language.English)

	w := &Whitelist{displays: make(map[string]struct{})}
	seen := make(map[string]struct{})

	categories := make([]string, 0, len(file.Categories))
	for name := range file.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, raw := range file.Categories[category] {
			term := normalizeTerm(raw)
			if term == "" {
				continue
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}

			rule, ok := rules[term]
			if !ok {
				rule = RuleTitle
			}
			display := render(term, rule, title)

			w.terms = append(w.terms, skillTerm{
				term:    term,
				display: display,
				pattern: termPattern(term),
			})
			w.displays[strings.ToLower(display)] = struct{}{}
		}
	}

	if len(w.terms) == 0 {
		return nil, fmt.Errorf("skill table has no terms")
	}

	return w, nil
}

// Len returns the number of distinct terms.
func (w *Whitelist) Len() int {
	return len(w.terms)
}

// Contains reports whether display is the display form of a whitelisted term.
func (w *Whitelist) Contains(display string) bool {
	_, ok := w.displays[strings.ToLower(display)]
	return ok
}

// Match returns the display forms of every term found in text as a whole
// word or phrase, deduplicated, sorted and capped at MaxSkills. A term seen
// only inside a longer matched term ("C" in "Objective-C") is not reported.
func (w *Whitelist) Match(text string) []string {
	var hits []termHit
	for _, t := range w.terms {
		if spans := t.spans(text); len(spans) > 0 {
			hits = append(hits, termHit{display: t.display, spans: spans})
		}
	}

	found := make(map[string]string)
	for i, hit := range hits {
		if covered(hits, i) {
			continue
		}
		key := strings.ToLower(hit.display)
		if _, ok := found[key]; !ok {
			found[key] = hit.display
		}
	}

	skills := make([]string, 0, len(found))
	for _, display := range found {
		skills = append(skills, display)
	}
	sort.Slice(skills, func(i, j int) bool {
		a, b := strings.ToLower(skills[i]), strings.ToLower(skills[j])
		if a != b {
			return a < b
		}
		return skills[i] < skills[j]
	})

	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return skills
}

type span struct{ start, end int }

func (s span) within(o span) bool {
	return o.start <= s.start && s.end <= o.end && o.end-o.start > s.end-s.start
}

type termHit struct {
	display string
	spans   []span
}

// spans returns the byte ranges of every occurrence of the term in text.
func (t skillTerm) spans(text string) []span {
	var out []span
	for offset := 0; offset < len(text); {
		loc := t.pattern.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		out = append(out, span{start: offset + loc[2], end: offset + loc[3]})
		offset += loc[3]
	}
	return out
}

// covered reports whether every occurrence of hits[i] lies inside an
// occurrence of a longer term.
func covered(hits []termHit, i int) bool {
	for _, s := range hits[i].spans {
		inside := false
		for j, other := range hits {
			if j == i {
				continue
			}
			for _, o := range other.spans {
				if s.within(o) {
					inside = true
					break
				}
			}
			if inside {
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

func render(term string, rule DisplayRule, title cases.Caser) string {
	switch rule {
	case RuleUpper:
		return strings.ToUpper(term)
	case RuleVerbatim:
		return term
	case RuleCapitalize:
		r, size := utf8.DecodeRuneInString(term)
		return string(unicode.ToUpper(r)) + term[size:]
	default:
		return title.String(term)
	}
}

// termPattern matches term case-insensitively when it is not part of a
// larger word. '+' and '#' count as word characters so "C" stays out of "C++".
func termPattern(term string) *regexp.Regexp {
	words := strings.Fields(term)
	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}
	body := strings.Join(words, `\s+`)
	return regexp.MustCompile(`(?i)(?:^|[^a-z0-9_+#])(` + body + `)(?:[^a-z0-9_+#]|$)`)
}
