package invert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/testutil"
)

func TestInvert(t *testing.T) {
	t.Parallel()
	out := &stage.Buffer{}
	inv := &stage.Invocation{
		Inputs: []*stage.Buffer{testutil.ColorImage(1, 1, 0, 100, 255, 200)},
		Output: out,
	}

	require.NoError(t, (&Filter{}).Evaluate(context.Background(), inv))
	assert.Equal(t, []uint8{255, 155, 0, 200}, out.Pix)
}
