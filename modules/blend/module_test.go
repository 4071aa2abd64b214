package blend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/testutil"
)

func TestBlend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("gray inputs stay gray", func(t *testing.T) {
		out := &stage.Buffer{}
		inv := &stage.Invocation{
			Inputs: []*stage.Buffer{testutil.GrayImage(1, 1, 0), testutil.GrayImage(1, 1, 200)},
			Output: out,
		}
		require.NoError(t, (&Filter{Alpha: 0.25}).Evaluate(ctx, inv))
		assert.Equal(t, []uint8{50}, out.Pix)
	})

	t.Run("mixed inputs become color", func(t *testing.T) {
		out := &stage.Buffer{}
		inv := &stage.Invocation{
			Inputs: []*stage.Buffer{testutil.ColorImage(1, 1, 100, 0, 0, 255), testutil.GrayImage(1, 1, 0)},
			Output: out,
		}
		require.NoError(t, (&Filter{Alpha: 0.5}).Evaluate(ctx, inv))
		assert.Equal(t, []uint8{50, 0, 0, 255}, out.Pix)
	})

	t.Run("size mismatch", func(t *testing.T) {
		inv := &stage.Invocation{
			Inputs: []*stage.Buffer{testutil.GrayImage(1, 1, 0), testutil.GrayImage(2, 1, 0)},
			Output: &stage.Buffer{},
		}
		assert.ErrorContains(t, (&Filter{Alpha: 0.5}).Evaluate(ctx, inv), "input sizes differ")
	})
}
