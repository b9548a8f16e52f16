package jobdesc

import (
	"strings"

	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "article": true, "header": true, "footer": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true, "svg": true,
}

// StripHTML returns the visible text of an HTML fragment. Block elements
// become line breaks and runs of blank space are collapsed.
func StripHTML(s string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))

	var b strings.Builder
	skip := 0
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return collapse(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedElements[tag] && tt == html.StartTagToken {
				skip++
			}
			if blockElements[tag] {
				b.WriteString("\n")
			}
			if tag == "li" {
				b.WriteString("- ")
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedElements[tag] && skip > 0 {
				skip--
			}
			if blockElements[tag] {
				b.WriteString("\n")
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || line == "-" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
