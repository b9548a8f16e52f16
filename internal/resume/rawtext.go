// Package resume segments resume text and extracts structured fields from it.
package resume

import "strings"

// RawText is the extracted text of a document, split into lines.
type RawText struct {
	text  string
	lines []string
}

func NewRawText(text string) RawText {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return RawText{text: text, lines: strings.Split(text, "\n")}
}

func (t RawText) String() string {
	return t.text
}

// Lines returns a copy of the text lines.
func (t RawText) Lines() []string {
	lines := make([]string, len(t.lines))
	copy(lines, t.lines)
	return lines
}
