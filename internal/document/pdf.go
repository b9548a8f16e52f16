package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// wordGapRatio is the horizontal gap, relative to the font size, treated as a space.
const wordGapRatio = 0.2

func extractPDF(content []byte) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			if line := joinRow(row.Content); line != "" {
				lines = append(lines, line)
			}
		}

		// scanned pages have no text layer
		if len(lines) == 0 {
			continue
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}

	return strings.Join(pages, " "), nil
}

// joinRow glues the text fragments of one row, inserting a space where the
// fragments are visibly apart.
func joinRow(texts []pdf.Text) string {
	var b strings.Builder
	var prevEnd float64
	for i, t := range texts {
		if i > 0 && t.X-prevEnd > t.FontSize*wordGapRatio {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
