package stage

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	t.Parallel()
	rgba := NewSource(Color)
	gray := NewSource(Gray)

	assert.True(t, rgba.IsSource())
	assert.Equal(t, Position{Row: 0, Col: 0}, rgba.Position)
	assert.Equal(t, 4, rgba.Channels)
	assert.Equal(t, Position{Row: 1, Col: 0}, gray.Position)
	assert.Equal(t, 1, gray.Channels)
	assert.Empty(t, gray.ConnectedInputs())

	fake := New(Gray, "invert", 1, 0, nil)
	assert.False(t, fake.IsSource(), "a stage with inputs is never a source")
}

func TestConnectedInputs(t *testing.T) {
	t.Parallel()
	s := New("b", "blend", 2, 0, nil)
	s.Inputs[0] = "a"

	assert.Equal(t, []string{"a", NoInput}, s.ConnectedInputs())
	assert.False(t, s.Position.Placed())
}

func TestSourceFilter(t *testing.T) {
	t.Parallel()
	out := &Buffer{}
	f := &SourceFilter{}

	err := f.Evaluate(context.Background(), &Invocation{Stage: Gray, Output: out})
	assert.ErrorIs(t, err, ErrNoSourceImage)

	f.Image = &Buffer{Width: 1, Height: 1, Channels: 1, Pix: []uint8{9}}
	require.NoError(t, f.Evaluate(context.Background(), &Invocation{Stage: Gray, Output: out}))
	assert.Equal(t, []uint8{9}, out.Pix)
	out.Pix[0] = 1
	assert.Equal(t, uint8(9), f.Image.Pix[0], "output is a copy")
}

func TestBuffer_FromImage(t *testing.T) {
	t.Parallel()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})

	gray, err := FromImage(img, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 76}, gray.Pix)

	rgba, err := FromImage(img, 4)
	require.NoError(t, err)
	r, g, b, a := rgba.RGBA(1, 0)
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, [4]uint8{r, g, b, a})
	assert.Equal(t, uint8(76), rgba.Luma(1, 0))

	_, ok := gray.Image().(*image.Gray)
	assert.True(t, ok)

	_, err = FromImage(img, 3)
	assert.Error(t, err)
}
