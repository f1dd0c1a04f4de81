// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies conversion failures for callers that map them to
// responses without inspecting the underlying cause.
type ErrorKind string

const (
	ErrInvalidRequest        ErrorKind = "invalid_request"
	ErrBackendUnavailable    ErrorKind = "backend_unavailable"
	ErrConversionFailed      ErrorKind = "conversion_failed"
	ErrExtractionFailed      ErrorKind = "extraction_failed"
	ErrArtifactNotFound      ErrorKind = "artifact_not_found"
	ErrIO                    ErrorKind = "io_error"
	ErrUnsupportedFormat     ErrorKind = "unsupported_format"
	ErrUnsupportedOutputKind ErrorKind = "unsupported_output_kind"
)

// ConversionError is the structured error returned across the engine
// boundary.
type ConversionError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// NewError builds a ConversionError with a formatted reason.
func NewError(kind ErrorKind, format string, args ...any) *ConversionError {
	return &ConversionError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// WrapError builds a ConversionError around cause.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *ConversionError {
	return &ConversionError{Kind: kind, Reason: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first ConversionError in err's chain, or
// the empty kind when there is none.
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
