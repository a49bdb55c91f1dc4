package domain

import (
	"errors"
	"fmt"
)

// ErrKind classifies pipeline failures. Extraction code never surfaces these
// to the pipeline caller; they exist for the fetch and verify collaborators
// and for logging.
type ErrKind string

const (
	ErrNetwork     ErrKind = "network"      // fetch failure or timeout
	ErrParsing     ErrKind = "parsing"      // no extractable content
	ErrValidation  ErrKind = "validation"   // AI response schema mismatch
	ErrRateLimit   ErrKind = "rate_limit"   // upstream throttling
	ErrSecurity    ErrKind = "security"     // rejected URL
	ErrBackendDown ErrKind = "backend_down" // verification engine unavailable
)

// KindError wraps a cause with its taxonomy bucket.
type KindError struct {
	Kind ErrKind
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *KindError) Unwrap() error { return e.Err }

// Errf builds a classified error, wrapping like fmt.Errorf.
func Errf(kind ErrKind, format string, args ...any) error {
	return &KindError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the taxonomy bucket from err, or "" if unclassified.
func KindOf(err error) ErrKind {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return ""
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrKind) bool {
	return KindOf(err) == kind
}
