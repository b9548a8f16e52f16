package analysis

import (
	"context"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/scoring"
)

const FallbackStrategyName = "fallback"

type fallbackStrategy struct{}

// NewFallbackStrategy returns the deterministic scorer. It never fails and
// cannot be disabled.
func NewFallbackStrategy() Strategy {
	return &fallbackStrategy{}
}

func (f *fallbackStrategy) Name() string { return FallbackStrategyName }

func (f *fallbackStrategy) Disable(string) {}

func (f *fallbackStrategy) IsEnabled() bool { return true }

func (f *fallbackStrategy) Analyze(_ context.Context, req Request, previous error) (*ai.Analysis, error) {
	return scoring.Fallback(req.Profile, previous), nil
}

func (f *fallbackStrategy) Improve(_ context.Context, req Request, previous error) (*ai.ImprovementPlan, error) {
	return scoring.FallbackImprovement(req.Profile, previous), nil
}

func (f *fallbackStrategy) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"method": scoring.Method},
	}
}
