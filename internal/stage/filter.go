package stage

import (
	"context"
	"errors"
)

// Invocation carries everything a filter may touch during one evaluation.
// Inputs are borrowed from the producers and are read-only; Output is owned
// by the evaluated stage.
type Invocation struct {
	Stage  string
	Inputs []*Buffer
	Output *Buffer
}

// Input returns the i-th input buffer, or nil when the slot is unused.
func (inv *Invocation) Input(i int) *Buffer {
	if i < 0 || i >= len(inv.Inputs) {
		return nil
	}
	return inv.Inputs[i]
}

// Filter is the opaque numeric transform behind a stage. Parameters are set
// on the implementing struct by the registry before the first evaluation.
type Filter interface {
	Evaluate(ctx context.Context, inv *Invocation) error
}

// ErrNoSourceImage is returned when a source stage is evaluated before any
// image data was supplied for it.
var ErrNoSourceImage = errors.New("no image supplied for source stage")

// SourceFilter publishes externally supplied image data. It is the filter
// behind COLOR and GRAY.
type SourceFilter struct {
	Image *Buffer
}

// Evaluate copies the supplied image into the stage output.
func (f *SourceFilter) Evaluate(_ context.Context, inv *Invocation) error {
	if f.Image.Empty() {
		return ErrNoSourceImage
	}
	inv.Output.CopyFrom(f.Image)
	return nil
}

// NewSource creates one of the two fixed source stages.
func NewSource(name string) *Stage {
	channels := 4
	if name == Gray {
		channels = 1
	}
	s := New(name, SourceKind, 0, channels, &SourceFilter{})
	s.Position, _ = SourcePosition(name)
	return s
}
