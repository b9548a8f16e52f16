package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const createAnalysis = `-- name: CreateAnalysis :exec
INSERT INTO analyses (
id, kind, source, overall_score, profile, result, created_at)
VALUES ( $1, $2, $3, $4, $5, $6, $7)
`

type CreateAnalysisParams struct {
	ID           uuid.UUID
	Kind         string
	Source       string
	OverallScore int32
	Profile      json.RawMessage
	Result       json.RawMessage
	CreatedAt    time.Time
}

func (q *Queries) CreateAnalysis(ctx context.Context, arg CreateAnalysisParams) error {
	_, err := q.db.ExecContext(ctx, createAnalysis,
		arg.ID,
		arg.Kind,
		arg.Source,
		arg.OverallScore,
		jsonParam(arg.Profile),
		jsonParam(arg.Result),
		arg.CreatedAt,
	)
	return err
}

// jsonParam passes JSON as text; lib/pq would otherwise send []byte as bytea.
func jsonParam(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

const getAnalysis = `-- name: GetAnalysis :one
SELECT id, kind, source, overall_score, profile, result, created_at FROM analyses
WHERE id = $1
`

func (q *Queries) GetAnalysis(ctx context.Context, id uuid.UUID) (Analysis, error) {
	row := q.db.QueryRowContext(ctx, getAnalysis, id)
	var i Analysis
	err := row.Scan(
		&i.ID,
		&i.Kind,
		&i.Source,
		&i.OverallScore,
		&i.Profile,
		&i.Result,
		&i.CreatedAt,
	)
	return i, err
}

const listAnalyses = `-- name: ListAnalyses :many
SELECT id, kind, source, overall_score, profile, result, created_at FROM analyses
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListAnalyses(ctx context.Context, limit int32) ([]Analysis, error) {
	rows, err := q.db.QueryContext(ctx, listAnalyses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Analysis
	for rows.Next() {
		var i Analysis
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Source,
			&i.OverallScore,
			&i.Profile,
			&i.Result,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
