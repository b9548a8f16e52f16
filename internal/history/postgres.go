package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/database"
)

// PostgresStore keeps records in the analyses table.
type PostgresStore struct {
	db      *sql.DB
	queries *database.Queries
	logger  *zap.Logger
}

// OpenPostgres connects to url and creates the schema when missing.
func OpenPostgres(ctx context.Context, url string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("history database url is required")
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, database.Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Debug("history database ready")
	return NewPostgresStore(db, logger), nil
}

// NewPostgresStore wraps an open database. The schema must already exist.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, queries: database.New(db), logger: logger}
}

func (s *PostgresStore) Save(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}

	err := s.queries.CreateAnalysis(ctx, database.CreateAnalysisParams{
		ID:           record.ID,
		Kind:         record.Kind,
		Source:       record.Source,
		OverallScore: int32(record.OverallScore),
		Profile:      record.Profile,
		Result:       record.Result,
		CreatedAt:    record.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.queries.ListAnalyses(ctx, int32(normalizeLimit(limit)))
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromRow(row))
	}
	return records, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	row, err := s.queries.GetAnalysis(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	record := fromRow(row)
	return &record, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func fromRow(row database.Analysis) Record {
	return Record{
		ID:           row.ID,
		CreatedAt:    row.CreatedAt.UTC(),
		Kind:         row.Kind,
		Source:       row.Source,
		OverallScore: int(row.OverallScore),
		Profile:      row.Profile,
		Result:       row.Result,
	}
}
