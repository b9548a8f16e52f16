package document

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	docxTag          = regexp.MustCompile(`<[^>]*>`)
)

func extractDOCX(content []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	return docxPlainText(r.Editable().GetContent()), nil
}

// docxPlainText turns WordprocessingML body markup into text with one line per paragraph.
func docxPlainText(body string) string {
	body = docxParagraphEnd.ReplaceAllString(body, "\n")
	body = docxTab.ReplaceAllString(body, "\t")
	body = docxTag.ReplaceAllString(body, "")
	body = html.UnescapeString(body)

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
