package imageio

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filtergrid/internal/builder"
	"github.com/vk/filtergrid/internal/executor"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/testutil"
)

func writeSample(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoadSources(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "in.png")
	writeSample(t, path)

	src, err := LoadSources(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 4, src.Color.Channels)
	assert.Equal(t, 1, src.Gray.Channels)
	assert.Equal(t, 3, src.Gray.Width)
	assert.Equal(t, 2, src.Gray.Height)

	_, err = LoadSources(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestWriteTerminals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	in := filepath.Join(t.TempDir(), "in.png")
	writeSample(t, in)
	outDir := filepath.Join(t.TempDir(), "out")

	// --- Arrange ---
	g, err := builder.Build(ctx, testutil.Pipeline(
		testutil.Desc("A", testutil.UnaryKind, stage.Gray),
		testutil.Desc("B", testutil.UnaryKind, stage.Color),
	), testutil.NewRecorder().Registry())
	require.NoError(t, err)
	src, err := LoadSources(ctx, in)
	require.NoError(t, err)
	require.NoError(t, src.Attach(ctx, g))
	_, err = executor.New(g).EvaluateAll(ctx)
	require.NoError(t, err)

	// --- Act ---
	written, err := WriteTerminals(ctx, g, outDir)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(outDir, "A.png"), filepath.Join(outDir, "B.png")}, written)

	f, err := os.Open(written[0])
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	_, isGray := decoded.(*image.Gray)
	assert.True(t, isGray)
}
