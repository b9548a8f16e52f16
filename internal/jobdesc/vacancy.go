package jobdesc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type Vacancy struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Employer struct {
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	Experience struct {
		Name string `json:"name,omitempty"`
	} `json:"experience,omitempty"`
	Description string `json:"description,omitempty"`
	KeySkills   []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
}

// Vacancy fetches a public vacancy from the hh.ru API.
func (c *Client) Vacancy(ctx context.Context, id string) (*Vacancy, error) {
	if id == "" {
		return nil, errors.New("vacancy id is required")
	}

	var vacancy Vacancy
	if err := c.getJSON(ctx, fmt.Sprintf("%s/vacancies/%s", c.APIURL, url.PathEscape(id)), &vacancy); err != nil {
		return nil, fmt.Errorf("get vacancy %s: %w", id, err)
	}

	return &vacancy, nil
}

// Text renders the vacancy as plain text with its key skills listed last.
func (v *Vacancy) Text() string {
	var b strings.Builder
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&b, "%s%s\n", label, value)
		}
	}

	line("", v.Name)
	line("Employer: ", v.Employer.Name)
	line("Experience: ", v.Experience.Name)
	if desc := StripHTML(v.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	skills := make([]string, 0, len(v.KeySkills))
	for _, s := range v.KeySkills {
		if name := strings.TrimSpace(s.Name); name != "" {
			skills = append(skills, name)
		}
	}
	if len(skills) > 0 {
		b.WriteString("\n")
		line("Key skills: ", strings.Join(skills, ", "))
	}

	return strings.TrimSpace(b.String())
}
