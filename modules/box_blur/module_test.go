package box_blur

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filtergrid/internal/stage"
)

func TestBoxBlur(t *testing.T) {
	t.Parallel()
	in := &stage.Buffer{Width: 3, Height: 1, Channels: 1, Pix: []uint8{0, 90, 0}}
	out := &stage.Buffer{}

	require.NoError(t, (&Filter{Radius: 1}).Evaluate(context.Background(), &stage.Invocation{Inputs: []*stage.Buffer{in}, Output: out}))

	// Edge clamping repeats the border pixel in the window.
	assert.Equal(t, []uint8{30, 30, 30}, out.Pix)
}

func TestBoxBlur_ZeroRadiusCopies(t *testing.T) {
	t.Parallel()
	in := &stage.Buffer{Width: 2, Height: 1, Channels: 1, Pix: []uint8{7, 9}}
	out := &stage.Buffer{}

	require.NoError(t, (&Filter{}).Evaluate(context.Background(), &stage.Invocation{Inputs: []*stage.Buffer{in}, Output: out}))
	assert.Equal(t, in.Pix, out.Pix)

	err := (&Filter{Radius: -1}).Evaluate(context.Background(), &stage.Invocation{Inputs: []*stage.Buffer{in}, Output: out})
	assert.Error(t, err)
}
