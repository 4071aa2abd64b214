package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned when a non-source stage has no primary input.
	ErrMissingInput = errors.New("missing input")
	// ErrDisconnectedGraph is returned when an input chain does not reach a
	// source stage.
	ErrDisconnectedGraph = errors.New("disconnected graph")
	// ErrCycle is returned when the input references form a cycle.
	ErrCycle = errors.New("cycle in pipeline")
	// ErrDuplicateStage is returned when two stages share a name.
	ErrDuplicateStage = errors.New("duplicate stage")
	// ErrUnnamedStage is returned for a description without a name.
	ErrUnnamedStage = errors.New("unnamed stage")
	// ErrUnknownKind is returned when no filter is registered for a kind.
	ErrUnknownKind = errors.New("unknown filter kind")
	// ErrInvalidParameters is returned when a filter rejects its parameters.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrLayout is returned when the stages cannot be placed on the grid.
	ErrLayout = errors.New("layout failed")
)

// GraphError is the error returned by every failed build. Kind is one of the
// sentinels above and Stage names the offending stage.
type GraphError struct {
	Kind  error
	Stage string
	Err   error
}

func (e *GraphError) Error() string {
	msg := e.Kind.Error()
	if e.Stage != "" {
		msg = fmt.Sprintf("%s: stage %q", msg, e.Stage)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and
// errors.As.
func (e *GraphError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, stage string, cause error) *GraphError {
	return &GraphError{Kind: kind, Stage: stage, Err: cause}
}
