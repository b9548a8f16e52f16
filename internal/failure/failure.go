// Package failure defines the error kinds surfaced by the analysis pipeline.
package failure

import (
	"errors"
	"fmt"
)

// Kinds of failures. Match them with errors.Is.
var (
	ErrUnsupportedFormat    = errors.New("unsupported format")
	ErrExtractionFailure    = errors.New("extraction failure")
	ErrEmptyDocument        = errors.New("empty document")
	ErrMissingCredential    = errors.New("missing credential")
	ErrCollaboratorFailure  = errors.New("collaborator failure")
	ErrAIResponseParseError = errors.New("ai response parse error")
	ErrInputParseError      = errors.New("input parse error")
)

// MaxRawLength bounds the raw collaborator text kept on parse errors.
const MaxRawLength = 500

// Error carries the failing operation and a user-facing detail next to its kind.
type Error struct {
	Op     string
	Kind   error
	Detail string
	// Raw holds the truncated collaborator response for AIResponseParseError.
	Raw    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Message returns the detail without the operation prefix, which is what the
// CLI prints for extraction failures.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error()
}

func NewUnsupportedFormat(op, ext string) error {
	return &Error{
		Op:     op,
		Kind:   ErrUnsupportedFormat,
		Detail: fmt.Sprintf("unsupported file format %q. Please upload a PDF or DOCX file.", ext),
	}
}

func NewExtractionFailure(op string, err error) error {
	return &Error{Op: op, Kind: ErrExtractionFailure, Detail: "error reading file", Err: err}
}

func NewEmptyDocument(op string) error {
	return &Error{
		Op:     op,
		Kind:   ErrEmptyDocument,
		Detail: "The document appears to be empty or too short to process.",
	}
}

func NewMissingCredential(op string, err error) error {
	return &Error{Op: op, Kind: ErrMissingCredential, Detail: "ai credential is not configured", Err: err}
}

func NewCollaboratorFailure(op string, err error) error {
	return &Error{Op: op, Kind: ErrCollaboratorFailure, Detail: "AI analysis failed", Err: err}
}

// NewAIResponseParse keeps at most MaxRawLength characters of raw.
func NewAIResponseParse(op, raw string, err error) error {
	runes := []rune(raw)
	if len(runes) > MaxRawLength {
		runes = runes[:MaxRawLength]
	}
	return &Error{
		Op:     op,
		Kind:   ErrAIResponseParseError,
		Detail: "failed to parse AI response",
		Raw:    string(runes),
		Err:    err,
	}
}

func NewInputParse(op string, err error) error {
	return &Error{Op: op, Kind: ErrInputParseError, Detail: "invalid JSON input", Err: err}
}

// RawResponse returns the raw collaborator text attached to err, if any.
func RawResponse(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Raw
	}
	return ""
}
