package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/history"
)

// Update statuses published for every job.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrMalformedJob marks deliveries that can never succeed.
var ErrMalformedJob = errors.New("malformed job")

// Job is the message body consumed from the queue.
type Job struct {
	ID             string `json:"id"`
	Source         string `json:"source"`
	JobDescription string `json:"job_description"`
	Kind           string `json:"kind"`
	CurrentScore   *int   `json:"current_score,omitempty"`
}

// Update is published to the results exchange.
type Update struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	RecordID string `json:"record_id,omitempty"`
	Result   any    `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RoutingKey returns the key updates for id are published with.
func RoutingKey(id string) string {
	return "analysis." + id
}

// Runner executes a pipeline job.
type Runner interface {
	Run(ctx context.Context, job analysis.Job) (*analysis.Outcome, error)
}

// Resolver turns a job description reference into text.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Publisher sends an update with the given routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, update Update) error
}

// Handler decodes deliveries and runs them through the pipeline.
type Handler struct {
	runner   Runner
	resolver Resolver
	logger   *zap.Logger
}

// NewHandler builds a Handler. A nil resolver passes job descriptions through as text.
func NewHandler(runner Runner, resolver Resolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{runner: runner, resolver: resolver, logger: logger}
}

// DecodeJob parses and validates a delivery body. A missing id is generated.
func DecodeJob(body []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}

	job.Source = strings.TrimSpace(job.Source)
	if job.Source == "" {
		return nil, fmt.Errorf("%w: source is required", ErrMalformedJob)
	}

	job.Kind = strings.TrimSpace(job.Kind)
	switch job.Kind {
	case "":
		job.Kind = history.KindAnalysis
	case history.KindExtraction, history.KindAnalysis, history.KindImprovement:
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedJob, job.Kind)
	}

	if strings.TrimSpace(job.ID) == "" {
		job.ID = uuid.NewString()
	}
	return &job, nil
}

// Handle processes one delivery body. Pipeline failures are published as
// failed updates and do not return an error. ErrMalformedJob is returned for
// bodies that cannot be decoded.
func (h *Handler) Handle(ctx context.Context, body []byte, pub Publisher) error {
	job, err := DecodeJob(body)
	if err != nil {
		return err
	}

	log := h.logger.With(zap.String("job_id", job.ID), zap.String("kind", job.Kind))
	key := RoutingKey(job.ID)

	if err := pub.Publish(ctx, key, Update{ID: job.ID, Status: StatusProcessing}); err != nil {
		return fmt.Errorf("publish processing update: %w", err)
	}

	outcome, err := h.run(ctx, job)
	if err != nil {
		log.Warn("job failed", zap.Error(err))
		if perr := pub.Publish(ctx, key, Update{ID: job.ID, Status: StatusFailed, Error: err.Error()}); perr != nil {
			return fmt.Errorf("publish failed update: %w", perr)
		}
		return nil
	}

	log.Info("job completed", zap.String("record_id", outcome.RecordID))
	update := Update{
		ID:       job.ID,
		Status:   StatusCompleted,
		RecordID: outcome.RecordID,
		Result:   outcome.Result(),
	}
	if err := pub.Publish(ctx, key, update); err != nil {
		return fmt.Errorf("publish completed update: %w", err)
	}
	return nil
}

func (h *Handler) run(ctx context.Context, job *Job) (*analysis.Outcome, error) {
	description := job.JobDescription
	if h.resolver != nil && description != "" {
		resolved, err := h.resolver.Resolve(ctx, description)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", job.ID, err)
		}
		description = resolved
	}

	return h.runner.Run(ctx, analysis.Job{
		Kind:           job.Kind,
		Source:         job.Source,
		JobDescription: description,
		CurrentScore:   job.CurrentScore,
		Save:           true,
	})
}
