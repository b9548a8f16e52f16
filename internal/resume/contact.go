package resume

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// minPhoneLength drops short digit runs such as years and zip codes.
const minPhoneLength = 10

// Contact holds the emails and phone numbers found in a resume.
type Contact struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

var phonePatterns = []*regexp.Regexp{
	// international: +44 20 7946 0958, +1-415-555-0100
	regexp.MustCompile(`\+\d{1,3}[\s.-]?\(?\d{1,4}\)?(?:[\s.-]?\d{2,4}){2,4}`),
	// US formatted: (415) 555-0100, 415.555.0100
	regexp.MustCompile(`\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]\d{4}\b`),
	// plain ten digits
	regexp.MustCompile(`\b\d{10}\b`),
	// separator-delimited groups: 0300-1234567, 020 7946 0958
	regexp.MustCompile(`\b\d{3,5}[\s.-]\d{3,4}[\s.-]?\d{3,4}\b`),
}

// ExtractContact finds emails and phone numbers in text. Results are
// deduplicated and sorted; no validation beyond the patterns is done.
func ExtractContact(text string) Contact {
	emails := make(map[string]string)
	for _, email := range emailPattern.FindAllString(text, -1) {
		key := strings.ToLower(email)
		if _, ok := emails[key]; !ok {
			emails[key] = email
		}
	}

	phones := make(map[string]struct{})
	for _, pattern := range phonePatterns {
		for _, phone := range pattern.FindAllString(text, -1) {
			phone = strings.TrimSpace(phone)
			if utf8.RuneCountInString(phone) < minPhoneLength {
				continue
			}
			phones[phone] = struct{}{}
		}
	}

	return Contact{
		Emails: sortedValues(emails),
		Phones: sortedKeys(phones),
	}
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
