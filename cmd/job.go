package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/history"
)

// jobInput collects the flags shared by extract, analyze and improve.
type jobInput struct {
	kind           string
	source         string
	profileRef     string
	jobDescription string
	currentScore   *int
	noAI           bool
	save           bool
}

func runJob(cmd *cobra.Command, in jobInput) error {
	ctx := cmd.Context()

	a, err := newApplication(ctx, appOptions{noAI: in.noAI, withHistory: in.save})
	if err != nil {
		return wrapFor(in.kind, err)
	}
	defer a.Close()

	job := analysis.Job{
		Kind:         in.kind,
		Source:       in.source,
		CurrentScore: in.currentScore,
		Save:         in.save,
	}

	switch {
	case in.profileRef != "":
		if job.Profile, err = readProfile(in.profileRef); err != nil {
			return wrapFor(in.kind, err)
		}
	case in.source == "":
		return wrapFor(in.kind, errors.New("a resume file or --profile is required"))
	}

	if in.jobDescription != "" {
		if job.JobDescription, err = a.jobs.Resolve(ctx, in.jobDescription); err != nil {
			return wrapFor(in.kind, err)
		}
	}

	outcome, err := a.service.Run(ctx, job)
	if err != nil {
		return wrapFor(in.kind, err)
	}

	if outcome.RecordID != "" {
		a.logger.Info("result saved", zap.String("record_id", outcome.RecordID), zap.String("kind", in.kind))
	}

	return printResult(outcome.Result())
}

// wrapFor selects the error payload: extraction reports a bare error object,
// analysis and improvement report a zero-score result.
func wrapFor(kind string, err error) error {
	if kind == history.KindExtraction {
		return err
	}
	return asAnalysisError(err)
}
