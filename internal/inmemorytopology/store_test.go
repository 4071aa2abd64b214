package inmemorytopology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/topologystore"
)

func names(stages []*stage.Stage) []string {
	out := make([]string, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Name)
	}
	return out
}

func TestWithSources(t *testing.T) {
	t.Parallel()
	s := WithSources()

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{stage.Color, stage.Gray}, names(s.All(context.Background())))

	gray, ok := s.Get(context.Background(), stage.Gray)
	require.True(t, ok)
	assert.Equal(t, stage.Position{Row: 1, Col: 0}, gray.Position)
	assert.Equal(t, 1, gray.Channels)
}

func TestAdd_RejectsDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Add(ctx, stage.New("a", "invert", 1, 0, nil)))
	err := s.Add(ctx, stage.New("a", "invert", 1, 0, nil))

	assert.ErrorIs(t, err, topologystore.ErrDuplicate)
	assert.Equal(t, 1, s.Len())
}

func TestRemove_FreesSlotForReuse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := WithSources()

	// --- Arrange ---
	require.NoError(t, s.Add(ctx, stage.New("a", "invert", 1, 0, nil)))
	require.NoError(t, s.Add(ctx, stage.New("b", "invert", 1, 0, nil)))
	require.Equal(t, 4, s.Slots())

	// --- Act ---
	require.NoError(t, s.Remove(ctx, "a"))
	require.NoError(t, s.Add(ctx, stage.New("c", "invert", 1, 0, nil)))

	// --- Assert ---
	assert.Equal(t, 4, s.Slots(), "the freed slot is reused")
	assert.Equal(t, []string{stage.Color, stage.Gray, "b", "c"}, names(s.All(ctx)))
	_, ok := s.Get(ctx, "a")
	assert.False(t, ok)
}

func TestRemove_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := WithSources()

	assert.ErrorIs(t, s.Remove(ctx, stage.Color), topologystore.ErrSourceRemoval)
	assert.ErrorIs(t, s.Remove(ctx, "missing"), topologystore.ErrNotFound)
	assert.Equal(t, 2, s.Len())
}
