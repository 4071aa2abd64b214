package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tr := New()
	require.NotNil(t, tr)
	assert.Empty(t, tr.nodes)
	assert.Empty(t, tr.Nodes())
}

func TestAddNode(t *testing.T) {
	tr := New()

	tr.AddNode("a")
	tr.AddNode("a") // idempotent
	tr.AddNode("b")

	assert.Equal(t, []string{"a", "b"}, tr.Nodes())
	assert.True(t, tr.Has("a"))
	assert.False(t, tr.Has("c"))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case keeps order and repeats", func(t *testing.T) {
		tr := New()
		for _, id := range []string{"a", "b", "c"} {
			tr.AddNode(id)
		}

		require.NoError(t, tr.AddEdge("a", "c"))
		require.NoError(t, tr.AddEdge("a", "b"))
		require.NoError(t, tr.AddEdge("a", "b"))

		dependents, err := tr.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "b"}, dependents)

		deps, err := tr.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "a"}, deps)
	})

	t.Run("error cases", func(t *testing.T) {
		tr := New()
		tr.AddNode("a")

		assert.ErrorContains(t, tr.AddEdge("dne", "a"), "source node not found")
		assert.ErrorContains(t, tr.AddEdge("a", "dne"), "destination node not found")

		err := tr.AddEdge("a", "a")
		assert.ErrorIs(t, err, ErrCycle)
		var cycle *CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, "a", cycle.Node)

		_, err = tr.Dependents("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestTerminalsAndReachable(t *testing.T) {
	// a -> b, a -> c, b -> d, c -> d
	tr := New()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		tr.AddNode(id)
	}
	require.NoError(t, tr.AddEdge("a", "b"))
	require.NoError(t, tr.AddEdge("a", "c"))
	require.NoError(t, tr.AddEdge("b", "d"))
	require.NoError(t, tr.AddEdge("c", "d"))

	assert.Equal(t, []string{"d", "e"}, tr.Terminals())

	reach, err := tr.Reachable("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "c"}, reach)
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty tracker has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		tr := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			tr.AddNode(id)
		}
		require.NoError(t, tr.AddEdge("a", "b"))
		require.NoError(t, tr.AddEdge("b", "c"))
		require.NoError(t, tr.AddEdge("a", "c"))
		require.NoError(t, tr.AddEdge("c", "d"))
		assert.NoError(t, tr.DetectCycles())
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		tr := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			tr.AddNode(id)
		}
		require.NoError(t, tr.AddEdge("a", "b"))
		require.NoError(t, tr.AddEdge("b", "c"))
		require.NoError(t, tr.AddEdge("c", "d"))
		require.NoError(t, tr.AddEdge("d", "a"))

		err := tr.DetectCycles()
		assert.ErrorIs(t, err, ErrCycle)
		assert.ErrorContains(t, err, "involving node 'a'")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		tr := New()
		for _, id := range []string{"a", "b", "x", "y", "z"} {
			tr.AddNode(id)
		}
		require.NoError(t, tr.AddEdge("a", "b"))
		require.NoError(t, tr.AddEdge("x", "y"))
		require.NoError(t, tr.AddEdge("y", "z"))
		require.NoError(t, tr.AddEdge("z", "y"))

		assert.ErrorIs(t, tr.DetectCycles(), ErrCycle)
	})
}
