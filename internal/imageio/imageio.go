// Package imageio moves image data between files and stage buffers.
//
// Decoding supports PNG, JPEG, GIF, BMP and TIFF input; outputs are always
// written as PNG.
package imageio

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/stage"
)

// Sources holds the decoded source images.
type Sources struct {
	Color *stage.Buffer
	Gray  *stage.Buffer
}

// LoadSources decodes the image at path into a COLOR and a GRAY buffer.
func LoadSources(ctx context.Context, path string) (*Sources, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Source image decoded.", "path", path, "format", format, "bounds", img.Bounds().String())
	return SourcesFromImage(img)
}

// SourcesFromImage converts img into both source buffers.
func SourcesFromImage(img image.Image) (*Sources, error) {
	c, err := stage.FromImage(img, 4)
	if err != nil {
		return nil, err
	}
	g, err := stage.FromImage(img, 1)
	if err != nil {
		return nil, err
	}
	return &Sources{Color: c, Gray: g}, nil
}

// Attach hands the source images to the source stages of g.
func (s *Sources) Attach(ctx context.Context, g *graph.Graph) error {
	if err := g.SetSourceImage(ctx, stage.Color, s.Color); err != nil {
		return err
	}
	return g.SetSourceImage(ctx, stage.Gray, s.Gray)
}

// WritePNG encodes buf as PNG at path.
func WritePNG(path string, buf *stage.Buffer) error {
	if buf.Empty() {
		return fmt.Errorf("refusing to write empty image to %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, buf.Image()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// WriteTerminals writes the output of every terminal stage of g to
// dir/<name>.png and returns the written paths.
func WriteTerminals(ctx context.Context, g *graph.Graph, dir string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, name := range g.Terminals() {
		s, ok := g.Stage(ctx, name)
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+".png")
		if err := WritePNG(path, s.Output()); err != nil {
			return written, fmt.Errorf("stage %q: %w", name, err)
		}
		logger.Info("Wrote stage output.", "stage", name, "path", path)
		written = append(written, path)
	}
	return written, nil
}
