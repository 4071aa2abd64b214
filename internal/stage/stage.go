package stage

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

const (
	// Color is the name of the RGBA source stage.
	Color = "COLOR"
	// Gray is the name of the single-channel source stage.
	Gray = "GRAY"
	// NoInput is the sentinel used for an unused input slot.
	NoInput = "NULL"
	// SourceKind is the filter kind shared by both source stages.
	SourceKind = "source"
	// MaxInputs is the largest input arity a filter can declare.
	MaxInputs = 2
)

// Position is a cell of the occupancy grid. Col is -1 until the layout pass
// has placed the stage.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Unplaced is the position of a stage the layout has not visited yet.
var Unplaced = Position{Row: -1, Col: -1}

// Placed reports whether the position was assigned.
func (p Position) Placed() bool {
	return p.Col >= 0
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Stage is a single vertex in the pipeline graph.
type Stage struct {
	// Name is unique across the graph and keys the stage's output.
	Name string
	// Kind selects the filter implementation from the registry.
	Kind string
	// Arity is the number of meaningful entries in Inputs.
	Arity int
	// Channels is the output channel count declared by the filter kind.
	// Zero means "same as input 0".
	Channels int
	// Inputs holds producer names, or NoInput for unused slots.
	Inputs [MaxInputs]string
	// Position is assigned by the layout pass.
	Position Position
	// Params are the opaque filter parameters, kept for serialization.
	Params map[string]cty.Value
	// Filter is the implementation invoked on evaluation.
	Filter Filter

	output Buffer
}

// New creates an unplaced stage with both input slots unused.
func New(name, kind string, arity, channels int, f Filter) *Stage {
	return &Stage{
		Name:     name,
		Kind:     kind,
		Arity:    arity,
		Channels: channels,
		Inputs:   [MaxInputs]string{NoInput, NoInput},
		Position: Unplaced,
		Params:   map[string]cty.Value{},
		Filter:   f,
	}
}

// IsSourceName reports whether name is one of the two fixed source stages.
func IsSourceName(name string) bool {
	return name == Color || name == Gray
}

// IsSource reports whether the stage is a source stage.
func (s *Stage) IsSource() bool {
	return s.Arity == 0 && IsSourceName(s.Name)
}

// SourcePosition returns the fixed cell of a source stage.
func SourcePosition(name string) (Position, bool) {
	switch name {
	case Color:
		return Position{Row: 0, Col: 0}, true
	case Gray:
		return Position{Row: 1, Col: 0}, true
	}
	return Unplaced, false
}

// ConnectedInputs returns the producer names of the meaningful slots, in slot
// order. Unused slots are reported as NoInput.
func (s *Stage) ConnectedInputs() []string {
	out := make([]string, 0, s.Arity)
	for i := 0; i < s.Arity && i < MaxInputs; i++ {
		out = append(out, s.Inputs[i])
	}
	return out
}

// Output returns the stage's own buffer. Consumers must treat it as
// read-only and must not retain it past a single Evaluate call.
func (s *Stage) Output() *Buffer {
	return &s.output
}
