// Package analysis runs resume profiles through an ordered chain of scoring strategies.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/failure"
	"github.com/spigell/resume-analyzer/internal/resume"
)

// Strategy produces results for a profile. previous is the error of the
// strategy that ran before it, if any.
type Strategy interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Analyze(ctx context.Context, req Request, previous error) (*ai.Analysis, error)
	Improve(ctx context.Context, req Request, previous error) (*ai.ImprovementPlan, error)
}

// Request is the input shared by all strategies.
type Request struct {
	Profile        *resume.Profile
	JobDescription string
	CurrentScore   int
}

// Status represents runtime information about a strategy.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// errorCarrier is implemented by strategies that were disabled because of an error.
type errorCarrier interface {
	Err() error
}

var errNoStrategy = errors.New("no analysis strategy is enabled")

// DisableByName marks a strategy with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Strategy, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Recoverable reports whether err lets the chain move on to the next strategy.
func Recoverable(err error) bool {
	return errors.Is(err, failure.ErrMissingCredential) ||
		errors.Is(err, failure.ErrCollaboratorFailure) ||
		errors.Is(err, failure.ErrAIResponseParseError)
}

// Analyze runs the strategies in order and returns the first analysis produced.
func Analyze(ctx context.Context, logger *zap.Logger, steps []Strategy, req Request) (*ai.Analysis, error) {
	return run(ctx, logger, steps, "analyze", func(step Strategy, previous error) (*ai.Analysis, error) {
		return step.Analyze(ctx, req, previous)
	})
}

// Improve runs the strategies in order and returns the first plan produced.
func Improve(ctx context.Context, logger *zap.Logger, steps []Strategy, req Request) (*ai.ImprovementPlan, error) {
	return run(ctx, logger, steps, "improve", func(step Strategy, previous error) (*ai.ImprovementPlan, error) {
		return step.Improve(ctx, req, previous)
	})
}

func run[T any](ctx context.Context, logger *zap.Logger, steps []Strategy, op string, call func(Strategy, error) (*T, error)) (*T, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var previous error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !step.IsEnabled() {
			if carrier, ok := step.(errorCarrier); ok && carrier.Err() != nil {
				previous = carrier.Err()
			}
			logger.Debug("strategy disabled", zap.String("name", step.Name()), zap.String("operation", op))
			continue
		}

		result, err := call(step, previous)
		if err != nil {
			if !Recoverable(err) {
				return nil, fmt.Errorf("%s: %w", step.Name(), err)
			}
			logger.Warn("strategy failed, trying next one",
				zap.String("name", step.Name()),
				zap.String("operation", op),
				zap.Error(err),
			)
			previous = err
			continue
		}

		logger.Info("strategy step", zap.String("name", step.Name()), zap.String("operation", op))
		return result, nil
	}

	if previous != nil {
		return nil, previous
	}
	return nil, errNoStrategy
}

// Describe returns status entries for the provided strategies.
func Describe(steps []Strategy) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
