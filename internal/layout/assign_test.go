package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filtergrid/internal/dag"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/grid"
	"github.com/vk/filtergrid/internal/inmemorytopology"
	"github.com/vk/filtergrid/internal/stage"
)

// newGraph wires stages by hand; each entry is name followed by its inputs.
func newGraph(t *testing.T, rows, cols int, specs ...[]string) *graph.Graph {
	t.Helper()
	ctx := context.Background()
	store := inmemorytopology.WithSources()
	for _, spec := range specs {
		s := stage.New(spec[0], "test", len(spec)-1, 0, nil)
		copy(s.Inputs[:], spec[1:])
		require.NoError(t, store.Add(ctx, s))
	}
	tracker := dag.New()
	for _, s := range store.All(ctx) {
		tracker.AddNode(s.Name)
	}
	for _, s := range store.All(ctx) {
		for _, in := range s.ConnectedInputs() {
			require.NoError(t, tracker.AddEdge(in, s.Name))
		}
	}
	return graph.New(store, tracker, grid.NewSized(rows, cols))
}

func TestDerive(t *testing.T) {
	t.Parallel()
	p := func(r, c int) stage.Position { return stage.Position{Row: r, Col: c} }

	tests := []struct {
		name   string
		inputs []stage.Position
		want   stage.Position
	}{
		{"single input", []stage.Position{p(3, 2)}, p(3, 3)},
		{"shared ancestor", []stage.Position{p(1, 1), p(1, 1)}, p(1, 2)},
		{"row follows larger column", []stage.Position{p(0, 1), p(2, 4)}, p(2, 5)},
		{"other input pushes down", []stage.Position{p(5, 1), p(2, 4)}, p(5, 5)},
		{"tie keeps lower of both rows", []stage.Position{p(0, 2), p(3, 2)}, p(3, 3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, derive(tc.inputs))
		})
	}
}

func TestAssign_SeedsTerminalRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	// --- Arrange ---
	g := newGraph(t, 8, 8,
		[]string{"a", stage.Color},
		[]string{"b", stage.Color},
		[]string{"c", stage.Color},
	)

	// --- Act ---
	require.NoError(t, Assign(ctx, g))

	// --- Assert ---
	pos := g.Positions(ctx)
	assert.Equal(t, stage.Position{Row: 0, Col: 1}, pos["a"])
	assert.Equal(t, stage.Position{Row: 1, Col: 1}, pos["b"])
	assert.Equal(t, stage.Position{Row: 2, Col: 1}, pos["c"])
	assert.Equal(t, []string{stage.Color, stage.Gray, "a", "b", "c"}, DeriveOrder(g))
}

func TestAssign_MovesDownOnCollision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g := newGraph(t, 8, 8,
		[]string{"a", stage.Gray},
		[]string{"b", stage.Gray},
	)

	require.NoError(t, Assign(ctx, g))

	pos := g.Positions(ctx)
	assert.Equal(t, stage.Position{Row: 1, Col: 1}, pos["a"])
	assert.Equal(t, stage.Position{Row: 2, Col: 1}, pos["b"])
	name, ok := g.Grid().At(stage.Position{Row: 2, Col: 1})
	require.True(t, ok)
	assert.Equal(t, "b", name)
}

func TestAssign_IsRepeatable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g := newGraph(t, 8, 8,
		[]string{"a", stage.Gray},
		[]string{"b", "a", stage.Color},
	)

	require.NoError(t, Assign(ctx, g))
	first := g.Positions(ctx)
	require.NoError(t, Assign(ctx, g))

	assert.Equal(t, first, g.Positions(ctx))
	assert.Equal(t, []string{stage.Color, stage.Gray, "a", "b"}, DeriveOrder(g))
}

func TestAssign_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("column overflow", func(t *testing.T) {
		g := newGraph(t, 4, 2, []string{"a", stage.Gray}, []string{"b", "a"})
		assert.ErrorIs(t, Assign(ctx, g), grid.ErrGridFull)
	})

	t.Run("row overflow", func(t *testing.T) {
		g := newGraph(t, 2, 4, []string{"a", stage.Gray}, []string{"b", stage.Gray})
		assert.ErrorIs(t, Assign(ctx, g), grid.ErrGridFull)
	})
}
