package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Analysis struct {
	ID           uuid.UUID
	Kind         string
	Source       string
	OverallScore int32
	Profile      json.RawMessage
	Result       json.RawMessage
	CreatedAt    time.Time
}
