package ingest

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrSourceNotFound    = errors.New("edge source not found")
	ErrUnsupportedSource = errors.New("unsupported edge source")
	ErrLineTooLong       = errors.New("line exceeds maximum length")
)

// SourceError provides structured error information for ingestion failures.
type SourceError struct {
	Op     string // Operation that failed (e.g., "open", "read", "query")
	Source string // Source name, such as a path or s3:// URL
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

func newSourceError(op, source string, cause error) error {
	return &SourceError{Op: op, Source: source, Cause: cause}
}
