// Package jobdesc resolves target job descriptions from text, files, web pages
// and hh.ru vacancies.
package jobdesc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "spigell/resume-analyzer (spigelly@gmail.com)"

	// HHPrefix marks a reference to an hh.ru vacancy id.
	HHPrefix = "hh:"
	// MaxLength bounds the description handed to the collaborator.
	MaxLength = 8000
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Resolve returns the description behind ref. ref is an "hh:<vacancy id>"
// reference, an http(s) URL, a path to an existing file, or the text itself.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	var (
		text string
		err  error
		kind string
	)
	switch {
	case strings.HasPrefix(strings.ToLower(ref), HHPrefix):
		kind = "hh"
		var vacancy *Vacancy
		if vacancy, err = c.Vacancy(ctx, strings.TrimSpace(ref[len(HHPrefix):])); err == nil {
			text = vacancy.Text()
		}
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		kind = "url"
		text, err = c.page(ctx, ref)
	case isFile(ref):
		kind = "file"
		var data []byte
		if data, err = os.ReadFile(ref); err == nil {
			text = string(data)
		}
	default:
		kind = "text"
		text = ref
	}
	if err != nil {
		return "", fmt.Errorf("resolve job description (%s): %w", kind, err)
	}

	text = truncate(strings.TrimSpace(text), MaxLength)
	if text == "" {
		return "", errors.New("job description is empty")
	}

	c.logger.Debug("job description resolved", zap.String("kind", kind), zap.Int("length", len([]rune(text))))
	return text, nil
}

func isFile(ref string) bool {
	if strings.ContainsAny(ref, "\n\r") {
		return false
	}
	info, err := os.Stat(ref)
	return err == nil && info.Mode().IsRegular()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
