package analysis

import (
	"context"
	"errors"

	"github.com/spigell/resume-analyzer/internal/ai"
)

const AIStrategyName = "ai"

type aiStrategy struct {
	analyzer ai.Analyzer
	provider string
	enabled  bool
	reason   string
	err      error
}

// NewAIStrategy wraps a collaborator. When initErr is not nil, usually a
// missing credential, the strategy starts disabled and hands initErr to the
// next strategy.
func NewAIStrategy(analyzer ai.Analyzer, provider string, initErr error) Strategy {
	s := &aiStrategy{analyzer: analyzer, provider: provider, enabled: true}
	if initErr != nil {
		s.enabled = false
		s.reason = initErr.Error()
		s.err = initErr
	} else if analyzer == nil {
		s.enabled = false
		s.reason = "ai analyzer is not configured"
	}
	return s
}

func (s *aiStrategy) Name() string { return AIStrategyName }

func (s *aiStrategy) Disable(reason string) {
	s.enabled = false
	s.reason = reason
}

func (s *aiStrategy) IsEnabled() bool { return s.enabled }

func (s *aiStrategy) Err() error { return s.err }

func (s *aiStrategy) Analyze(ctx context.Context, req Request, _ error) (*ai.Analysis, error) {
	if req.Profile == nil {
		return nil, errors.New("resume profile is required")
	}
	return s.analyzer.Analyze(ctx, req.Profile, req.JobDescription)
}

func (s *aiStrategy) Improve(ctx context.Context, req Request, _ error) (*ai.ImprovementPlan, error) {
	if req.Profile == nil {
		return nil, errors.New("resume profile is required")
	}
	return s.analyzer.Improve(ctx, req.Profile, req.CurrentScore)
}

func (s *aiStrategy) Status() Status {
	details := map[string]string{}
	if s.provider != "" {
		details["provider"] = s.provider
	}
	if s.analyzer != nil && s.analyzer.Model() != "" {
		details["model"] = s.analyzer.Model()
	}
	return Status{Name: s.Name(), Enabled: s.enabled, Reason: s.reason, Details: details}
}
