package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/scoring"
)

// TextSource returns the plain text of a document.
type TextSource interface {
	Text(ctx context.Context, source string) (string, error)
}

// Service wires document loading, profile parsing, the strategy chain and history.
type Service struct {
	documents TextSource
	parser    *resume.Parser
	steps     []Strategy
	history   history.Store
	logger    *zap.Logger
}

// NewService builds a Service. A nil store disables saving.
func NewService(documents TextSource, parser *resume.Parser, steps []Strategy, store history.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if parser == nil {
		parser = resume.NewParser(log)
	}
	if store == nil {
		store = history.NopStore{}
	}
	return &Service{documents: documents, parser: parser, steps: steps, history: store, logger: log}
}

// Job describes one pipeline run.
type Job struct {
	Kind string
	// Source locates the document. It is ignored when Profile is set.
	Source         string
	Profile        *resume.Profile
	JobDescription string
	// CurrentScore seeds improvement plans. When nil the deterministic score is used.
	CurrentScore *int
	Save         bool
}

// Outcome is the product of a Job.
type Outcome struct {
	RecordID string
	Profile  *resume.Profile
	Analysis *ai.Analysis
	Plan     *ai.ImprovementPlan
}

// Result returns the value that should be reported for kind.
func (o *Outcome) Result() any {
	switch {
	case o.Analysis != nil:
		return o.Analysis
	case o.Plan != nil:
		return o.Plan
	default:
		return o.Profile
	}
}

func (o *Outcome) score() int {
	switch {
	case o.Analysis != nil:
		return o.Analysis.OverallScore
	case o.Plan != nil:
		return o.Plan.OverallScore
	default:
		return 0
	}
}

// Extract loads the document at source and parses it into a profile.
func (s *Service) Extract(ctx context.Context, source string) (*resume.Profile, error) {
	if s.documents == nil {
		return nil, errors.New("document loader is not configured")
	}

	text, err := s.documents.Text(ctx, source)
	if err != nil {
		return nil, err
	}

	profile := s.parser.Parse(resume.NewRawText(text))
	s.logger.Info("profile extracted",
		append(logger.DocumentFields(source, ""),
			zap.Int("skills", len(profile.Skills)),
			zap.Int("words", profile.WordCount),
		)...,
	)
	return profile, nil
}

// Run executes job and saves the outcome when requested.
func (s *Service) Run(ctx context.Context, job Job) (*Outcome, error) {
	kind := strings.TrimSpace(job.Kind)
	if kind == "" {
		kind = history.KindAnalysis
	}

	profile := job.Profile
	if profile == nil {
		var err error
		if profile, err = s.Extract(ctx, job.Source); err != nil {
			return nil, err
		}
	}

	outcome := &Outcome{Profile: profile}
	req := Request{Profile: profile, JobDescription: job.JobDescription}

	switch kind {
	case history.KindExtraction:
	case history.KindAnalysis:
		result, err := Analyze(ctx, s.logger, s.steps, req)
		if err != nil {
			return nil, err
		}
		outcome.Analysis = result
	case history.KindImprovement:
		if job.CurrentScore != nil {
			req.CurrentScore = *job.CurrentScore
		} else {
			req.CurrentScore = scoring.Score(profile).OverallScore
		}
		plan, err := Improve(ctx, s.logger, s.steps, req)
		if err != nil {
			return nil, err
		}
		outcome.Plan = plan
	default:
		return nil, fmt.Errorf("unknown job kind %q", job.Kind)
	}

	if job.Save {
		record, err := history.NewRecord(kind, job.Source, outcome.score(), profile, outcome.Result())
		if err != nil {
			return nil, err
		}
		if err := s.history.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("save history: %w", err)
		}
		outcome.RecordID = record.ID.String()
		s.logger.Debug("outcome saved", zap.String("record_id", outcome.RecordID), zap.String("kind", kind))
	}

	return outcome, nil
}

// Describe reports the strategy chain of the service.
func (s *Service) Describe() []Status {
	return Describe(s.steps)
}
