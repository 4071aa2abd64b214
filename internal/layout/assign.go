package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/grid"
	"github.com/vk/filtergrid/internal/stage"
)

// ErrUnresolvable is returned when a stage's inputs cannot be followed to a
// placed stage. The builder rejects such graphs first, so seeing it means the
// graph was assembled by hand.
var ErrUnresolvable = errors.New("stage position cannot be resolved")

// Assigner holds the state of one layout pass: the memoized cells and the
// row counter used to seed terminal stages.
type Assigner struct {
	g       *graph.Graph
	placed  map[string]stage.Position
	active  map[string]bool
	nextRow int
}

// NewAssigner creates an assigner for g.
func NewAssigner(g *graph.Graph) *Assigner {
	return &Assigner{
		g:      g,
		placed: make(map[string]stage.Position),
		active: make(map[string]bool),
	}
}

// Assign positions every stage of g. See Assigner.Run.
func Assign(ctx context.Context, g *graph.Graph) error {
	return NewAssigner(g).Run(ctx)
}

// Run clears the grid, pins the sources and then walks every terminal stage,
// in registration order, resolving its inputs recursively. Each stage's cell
// is written to Stage.Position and to the grid.
func (a *Assigner) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	cells := a.g.Grid()
	cells.Clear()

	for _, s := range a.g.Stages(ctx) {
		if p, ok := stage.SourcePosition(s.Name); ok && s.IsSource() {
			if err := cells.Place(s.Name, p); err != nil {
				return err
			}
			s.Position = p
			a.placed[s.Name] = p
			continue
		}
		s.Position = stage.Unplaced
	}

	for _, name := range a.g.Terminals() {
		seed := a.nextRow
		a.nextRow++
		logger.Debug("Seeding terminal stage.", "stage", name, "row", seed)
		if _, err := a.resolve(ctx, name, seed); err != nil {
			return err
		}
	}
	logger.Debug("Layout complete.", "stages", len(a.placed))
	return nil
}

// resolve returns the memoized cell of name, computing it from its inputs on
// first use. minRow is the lowest row the stage may take.
func (a *Assigner) resolve(ctx context.Context, name string, minRow int) (stage.Position, error) {
	if p, ok := a.placed[name]; ok {
		return p, nil
	}
	if a.active[name] {
		return stage.Unplaced, fmt.Errorf("%w: %q depends on itself", ErrUnresolvable, name)
	}
	s, ok := a.g.Stage(ctx, name)
	if !ok {
		return stage.Unplaced, fmt.Errorf("%w: %q does not exist", ErrUnresolvable, name)
	}
	if s.Arity < 1 {
		return stage.Unplaced, fmt.Errorf("%w: %q has no inputs", ErrUnresolvable, name)
	}

	a.active[name] = true
	defer delete(a.active, name)

	inputs := make([]stage.Position, 0, s.Arity)
	for _, in := range s.ConnectedInputs() {
		p, err := a.resolve(ctx, in, 0)
		if err != nil {
			return stage.Unplaced, err
		}
		inputs = append(inputs, p)
	}

	want := derive(inputs)
	if want.Row < minRow {
		want.Row = minRow
	}
	return a.place(ctx, s, want)
}

// derive computes the cell a stage would take given its inputs' cells.
func derive(inputs []stage.Position) stage.Position {
	p0 := inputs[0]
	if len(inputs) == 1 {
		return stage.Position{Row: p0.Row, Col: p0.Col + 1}
	}
	p1 := inputs[1]
	if p0 == p1 {
		return stage.Position{Row: p0.Row, Col: p0.Col + 1}
	}

	// The row follows the input in the larger column; a lower row on the
	// other input pushes the stage down.
	lead, other := p0, p1
	if p1.Col > p0.Col {
		lead, other = p1, p0
	}
	row := lead.Row
	if other.Row >= row {
		row = other.Row
	}
	return stage.Position{Row: row, Col: max(p0.Col, p1.Col) + 1}
}

// place writes s at want, moving down the column when the cell is taken.
func (a *Assigner) place(ctx context.Context, s *stage.Stage, want stage.Position) (stage.Position, error) {
	cells := a.g.Grid()
	if want.Col >= cells.Cols() {
		return stage.Unplaced, fmt.Errorf("%w: stage %q needs column %d", grid.ErrGridFull, s.Name, want.Col)
	}
	row, ok := cells.FirstFreeRow(want.Col, want.Row)
	if !ok {
		return stage.Unplaced, fmt.Errorf("%w: no free row in column %d for stage %q", grid.ErrGridFull, want.Col, s.Name)
	}
	got := stage.Position{Row: row, Col: want.Col}
	if err := cells.Place(s.Name, got); err != nil {
		return stage.Unplaced, err
	}
	if got != want {
		ctxlog.FromContext(ctx).Debug("Derived cell occupied, moved down.", "stage", s.Name, "wanted", want.String(), "got", got.String())
	}
	s.Position = got
	a.placed[s.Name] = got
	return got, nil
}
