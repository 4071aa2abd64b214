// Package grid implements the occupancy table shared by the layout pass and
// interactive stage placement.
package grid

import (
	"errors"
	"fmt"

	"github.com/vk/filtergrid/internal/stage"
)

const (
	// DefaultRows is the row capacity of a grid created with New.
	DefaultRows = 64
	// DefaultCols is the column capacity of a grid created with New.
	DefaultCols = 64
)

var (
	// ErrPlacement is returned when a stage is placed on an occupied cell.
	ErrPlacement = errors.New("placement error")
	// ErrGridFull is returned when a cell lies outside the fixed table.
	ErrGridFull = errors.New("grid capacity exceeded")
)

// PlacementError reports a rejected manual placement.
type PlacementError struct {
	Row, Col int
	Occupant string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s: cell (%d,%d) is occupied by %q", ErrPlacement, e.Row, e.Col, e.Occupant)
}

func (e *PlacementError) Unwrap() error { return ErrPlacement }

// Grid is a fixed-size table of cells. A cell holds the name of the stage
// occupying it, or the empty string.
type Grid struct {
	rows, cols int
	cells      [][]string
}

// New creates an empty grid with the default capacity.
func New() *Grid {
	return NewSized(DefaultRows, DefaultCols)
}

// NewSized creates an empty grid with an explicit capacity. Negative sizes
// yield an empty table.
func NewSized(rows, cols int) *Grid {
	rows, cols = max(rows, 0), max(cols, 0)
	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

// Rows returns the row capacity.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the column capacity.
func (g *Grid) Cols() int { return g.cols }

// Contains reports whether p lies inside the table.
func (g *Grid) Contains(p stage.Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Occupied reports whether p holds a stage. Cells outside the table are
// never occupied.
func (g *Grid) Occupied(p stage.Position) bool {
	return g.Contains(p) && g.cells[p.Row][p.Col] != ""
}

// At returns the occupant of p.
func (g *Grid) At(p stage.Position) (string, bool) {
	if !g.Occupied(p) {
		return "", false
	}
	return g.cells[p.Row][p.Col], true
}

// Place puts name on p. It fails without touching the grid when p is outside
// the table or already held by another stage.
func (g *Grid) Place(name string, p stage.Position) error {
	if !g.Contains(p) {
		return fmt.Errorf("%w: cell %s outside %dx%d", ErrGridFull, p, g.rows, g.cols)
	}
	if occupant := g.cells[p.Row][p.Col]; occupant != "" && occupant != name {
		return &PlacementError{Row: p.Row, Col: p.Col, Occupant: occupant}
	}
	g.cells[p.Row][p.Col] = name
	return nil
}

// Move relocates name from one cell to another, validating the destination
// first so a rejected move leaves the grid unchanged.
func (g *Grid) Move(name string, from, to stage.Position) error {
	if from == to {
		return nil
	}
	if err := g.Place(name, to); err != nil {
		return err
	}
	g.Release(from)
	return nil
}

// Release frees p.
func (g *Grid) Release(p stage.Position) {
	if g.Contains(p) {
		g.cells[p.Row][p.Col] = ""
	}
}

// FirstFreeRow returns the first free row of col at or below row.
func (g *Grid) FirstFreeRow(col, row int) (int, bool) {
	if col < 0 || col >= g.cols {
		return 0, false
	}
	if row < 0 {
		row = 0
	}
	for r := row; r < g.rows; r++ {
		if g.cells[r][col] == "" {
			return r, true
		}
	}
	return 0, false
}

// Clear frees every cell.
func (g *Grid) Clear() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = ""
		}
	}
}

// ColumnMajor visits every occupied cell, column by column and top to bottom
// within a column.
func (g *Grid) ColumnMajor(visit func(name string, p stage.Position)) {
	for c := 0; c < g.cols; c++ {
		for r := 0; r < g.rows; r++ {
			if name := g.cells[r][c]; name != "" {
				visit(name, stage.Position{Row: r, Col: c})
			}
		}
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := NewSized(g.rows, g.cols)
	for r := range g.cells {
		copy(out.cells[r], g.cells[r])
	}
	return out
}
