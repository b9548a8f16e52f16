// Package document turns PDF and DOCX resumes into plain text.
package document

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/failure"
	"github.com/spigell/resume-analyzer/internal/logger"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const (
	// DefaultMaxSize is the largest document accepted for analysis.
	DefaultMaxSize int64 = 5 << 20
	// MinTextLength is the minimum trimmed text length of a usable document.
	MinTextLength = 50

	s3Scheme = "s3"
)

// Document is a resume read from disk or object storage.
type Document struct {
	Source  string
	Format  Format
	Content []byte
}

// ObjectStore fetches objects from S3-compatible storage.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader reads documents from local paths or s3://bucket/key locations.
type Loader struct {
	objects ObjectStore
	maxSize int64
	logger  *zap.Logger
}

// NewLoader creates a Loader. objects may be nil when object storage is not configured.
func NewLoader(logger *zap.Logger, objects ObjectStore, maxSize int64) *Loader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &Loader{
		objects: objects,
		maxSize: maxSize,
		logger:  logger,
	}
}

// FormatFromPath detects the document format by extension.
func FormatFromPath(p string) (Format, error) {
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", failure.NewUnsupportedFormat("detect format", ext)
	}
}

// Load reads the document behind source. The format is checked before any I/O.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	source = strings.TrimSpace(source)

	format, err := FormatFromPath(source)
	if err != nil {
		return nil, err
	}

	var content []byte
	if bucket, key, ok := parseObjectURL(source); ok {
		content, err = l.loadObject(ctx, bucket, key)
	} else {
		content, err = l.loadFile(source)
	}
	if err != nil {
		return nil, err
	}

	logger.WithFields(l.logger, logger.DocumentFields(source, string(format))...).
		Debug("document loaded", zap.Int("size", len(content)))

	return &Document{Source: source, Format: format, Content: content}, nil
}

// Text loads and extracts the document behind source.
func (l *Loader) Text(ctx context.Context, source string) (string, error) {
	doc, err := l.Load(ctx, source)
	if err != nil {
		return "", err
	}
	return Extract(doc)
}

func (l *Loader) loadFile(p string) ([]byte, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, failure.NewExtractionFailure("load document", err)
	}
	if info.IsDir() {
		return nil, failure.NewExtractionFailure("load document", fmt.Errorf("%s is a directory", p))
	}
	if info.Size() > l.maxSize {
		return nil, failure.NewExtractionFailure("load document", fmt.Errorf("file size %d exceeds limit of %d bytes", info.Size(), l.maxSize))
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, failure.NewExtractionFailure("load document", err)
	}
	return data, nil
}

func (l *Loader) loadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if l.objects == nil {
		return nil, failure.NewExtractionFailure("load document", fmt.Errorf("object storage is not configured for s3://%s/%s", bucket, key))
	}

	data, err := l.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, failure.NewExtractionFailure("load document", err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, failure.NewExtractionFailure("load document", fmt.Errorf("object size %d exceeds limit of %d bytes", len(data), l.maxSize))
	}
	return data, nil
}

// Extract converts the document into plain text.
func Extract(doc *Document) (string, error) {
	if doc == nil {
		return "", failure.NewExtractionFailure("extract text", fmt.Errorf("document is required"))
	}

	var (
		text string
		err  error
	)
	switch doc.Format {
	case FormatPDF:
		text, err = extractPDF(doc.Content)
	case FormatDOCX:
		text, err = extractDOCX(doc.Content)
	default:
		return "", failure.NewUnsupportedFormat("extract text", string(doc.Format))
	}
	if err != nil {
		return "", failure.NewExtractionFailure("extract text", err)
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		return "", failure.NewEmptyDocument("extract text")
	}

	return text, nil
}

func parseObjectURL(source string) (bucket, key string, ok bool) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme != s3Scheme || u.Host == "" {
		return "", "", false
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", false
	}
	return u.Host, key, true
}
