package scale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/testutil"
)

func TestScale(t *testing.T) {
	t.Parallel()
	out := &stage.Buffer{}
	inv := &stage.Invocation{Inputs: []*stage.Buffer{testutil.GrayImage(8, 4, 77)}, Output: out}

	require.NoError(t, (&Filter{Factor: 0.5}).Evaluate(context.Background(), inv))

	assert.Equal(t, 4, out.Width)
	assert.Equal(t, 2, out.Height)
	assert.Equal(t, 1, out.Channels)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(77), v, "a flat image stays flat")
	}
}

func TestScale_ColorAndErrors(t *testing.T) {
	t.Parallel()
	out := &stage.Buffer{}
	inv := &stage.Invocation{Inputs: []*stage.Buffer{testutil.ColorImage(2, 2, 10, 20, 30, 255)}, Output: out}

	require.NoError(t, (&Filter{Factor: 2}).Evaluate(context.Background(), inv))
	assert.Equal(t, 4, out.Width)
	assert.Equal(t, 4, out.Channels)

	assert.Error(t, (&Filter{Factor: 0}).Evaluate(context.Background(), inv))
}
