// Package history persists analysis results.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record kinds.
const (
	KindExtraction  = "extraction"
	KindAnalysis    = "analysis"
	KindImprovement = "improvement"
)

// Store drivers.
const (
	DriverNone     = "none"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

const DefaultLimit = 20

var ErrNotFound = errors.New("history record not found")

// Record is a saved pipeline result.
type Record struct {
	ID           uuid.UUID       `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	Kind         string          `json:"kind"`
	Source       string          `json:"source"`
	OverallScore int             `json:"overall_score"`
	Profile      json.RawMessage `json:"profile,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
}

// Store saves and lists records.
type Store interface {
	Save(ctx context.Context, record *Record) error
	List(ctx context.Context, limit int) ([]Record, error)
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Close() error
}

// Config selects and configures a store.
type Config struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database-url"`
}

// NewRecord builds a record with a fresh id. profile and result are stored as JSON.
func NewRecord(kind, source string, score int, profile, result any) (*Record, error) {
	record := &Record{
		ID:           uuid.New(),
		CreatedAt:    time.Now().UTC(),
		Kind:         kind,
		Source:       source,
		OverallScore: score,
	}

	var err error
	if profile != nil {
		if record.Profile, err = json.Marshal(profile); err != nil {
			return nil, fmt.Errorf("marshal profile: %w", err)
		}
	}
	if result != nil {
		if record.Result, err = json.Marshal(result); err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}
	}

	return record, nil
}

// Open returns the store selected by cfg.Driver. An empty driver means none.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverNone:
		return NopStore{}, nil
	case DriverFile:
		return NewFileStore(cfg.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Save(context.Context, *Record) error { return nil }

func (NopStore) List(context.Context, int) ([]Record, error) { return []Record{}, nil }

func (NopStore) Get(context.Context, uuid.UUID) (*Record, error) { return nil, ErrNotFound }

func (NopStore) Close() error { return nil }
