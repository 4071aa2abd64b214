package graph

import (
	"context"
	"fmt"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/dag"
	"github.com/vk/filtergrid/internal/grid"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/topologystore"
)

// Graph is a built pipeline: stages, their edges, their cells and the
// derived execution order.
type Graph struct {
	stages  topologystore.Store
	tracker *dag.Tracker
	cells   *grid.Grid
	order   []string
}

// New creates a graph from its parts. The order is empty until SetOrder.
func New(stages topologystore.Store, tracker *dag.Tracker, cells *grid.Grid) *Graph {
	return &Graph{stages: stages, tracker: tracker, cells: cells}
}

// Store returns the underlying stage store.
func (g *Graph) Store() topologystore.Store { return g.stages }

// Tracker returns the edge tracker.
func (g *Graph) Tracker() *dag.Tracker { return g.tracker }

// Grid returns the occupancy grid.
func (g *Graph) Grid() *grid.Grid { return g.cells }

// Stage returns the stage named name.
func (g *Graph) Stage(ctx context.Context, name string) (*stage.Stage, bool) {
	return g.stages.Get(ctx, name)
}

// Stages returns all stages in registration order.
func (g *Graph) Stages(ctx context.Context) []*stage.Stage {
	return g.stages.All(ctx)
}

// Len returns the number of stages, sources included.
func (g *Graph) Len() int { return g.stages.Len() }

// Dependents returns the direct consumers of name in insertion order. An
// unknown name has no dependents.
func (g *Graph) Dependents(name string) []string {
	d, err := g.tracker.Dependents(name)
	if err != nil {
		return nil
	}
	return d
}

// Terminals returns the stages whose output nobody consumes, sources
// excluded, in registration order.
func (g *Graph) Terminals() []string {
	var out []string
	for _, name := range g.tracker.Terminals() {
		if !stage.IsSourceName(name) {
			out = append(out, name)
		}
	}
	return out
}

// Order returns the execution order. The slice is a copy.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// SetOrder records the execution order derived by the layout pass.
func (g *Graph) SetOrder(order []string) {
	g.order = append([]string(nil), order...)
}

// Positions returns the cell of every stage.
func (g *Graph) Positions(ctx context.Context) map[string]stage.Position {
	out := make(map[string]stage.Position, g.stages.Len())
	for _, s := range g.stages.All(ctx) {
		out[s.Name] = s.Position
	}
	return out
}

// Inputs returns the output buffers of the producers of s, in slot order.
// The buffers are borrowed and must not be retained.
func (g *Graph) Inputs(ctx context.Context, s *stage.Stage) ([]*stage.Buffer, error) {
	inputs := make([]*stage.Buffer, 0, s.Arity)
	for _, name := range s.ConnectedInputs() {
		producer, ok := g.stages.Get(ctx, name)
		if !ok {
			return nil, fmt.Errorf("stage %q reads missing producer %q", s.Name, name)
		}
		inputs = append(inputs, producer.Output())
	}
	return inputs, nil
}

// SetSourceImage supplies the image published by a source stage.
func (g *Graph) SetSourceImage(ctx context.Context, name string, img *stage.Buffer) error {
	s, ok := g.stages.Get(ctx, name)
	if !ok || !s.IsSource() {
		return fmt.Errorf("%q is not a source stage", name)
	}
	src, ok := s.Filter.(*stage.SourceFilter)
	if !ok {
		return fmt.Errorf("source stage %q has filter %T", name, s.Filter)
	}
	src.Image = img
	ctxlog.FromContext(ctx).Debug("Source image attached.", "stage", name, "width", img.Width, "height", img.Height)
	return nil
}
