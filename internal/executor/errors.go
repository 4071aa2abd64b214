package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrFilter is returned when a stage's filter fails.
	ErrFilter = errors.New("filter failed")
	// ErrUnknownStage is returned for a name the graph does not hold.
	ErrUnknownStage = errors.New("unknown stage")
)

// FilterError wraps the error of a failing filter with the stage it belongs
// to.
type FilterError struct {
	Stage string
	Kind  string
	Err   error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("%s: stage %q (%s): %v", ErrFilter, e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both ErrFilter and the filter's own error.
func (e *FilterError) Unwrap() []error {
	return []error{ErrFilter, e.Err}
}
