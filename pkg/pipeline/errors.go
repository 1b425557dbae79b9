package pipeline

import (
	"errors"
	"fmt"
)

// ErrUnknownMetric is returned for a metric name that is not computed by
// the pipeline.
var ErrUnknownMetric = errors.New("unknown metric")

// StageError reports the pipeline stage that failed.
type StageError struct {
	Stage string // "load", "build" or a metric name
	Cause error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StageError) Unwrap() error {
	return e.Cause
}
