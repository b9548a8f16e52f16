package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/failure"
)

// stdout carries results and errors. Logs go to stderr.
var stdout io.Writer = os.Stdout

// analysisError marks failures of commands that report analysis payloads.
type analysisError struct {
	err error
}

func (e *analysisError) Error() string { return e.err.Error() }

func (e *analysisError) Unwrap() error { return e.err }

func asAnalysisError(err error) error {
	if err == nil {
		return nil
	}
	return &analysisError{err: err}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printResult(v any) error {
	return writeJSON(stdout, v)
}

func writeError(err error) {
	_ = writeJSON(stdout, errorPayload(err))
}

func errorPayload(err error) any {
	var ae *analysisError
	if errors.As(err, &ae) {
		return ai.NewErrorResult(errorMessage(ae.err), failure.RawResponse(ae.err))
	}
	return map[string]string{"error": errorMessage(err)}
}

// errorMessage drops the operation prefix of pipeline failures.
func errorMessage(err error) string {
	var fe *failure.Error
	if !errors.As(err, &fe) {
		return err.Error()
	}
	if fe.Err == nil {
		return fe.Message()
	}
	return fmt.Sprintf("%s: %v", fe.Message(), fe.Err)
}
