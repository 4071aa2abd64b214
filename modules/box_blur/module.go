// Package box_blur provides the "box_blur" filter.
package box_blur

import (
	"context"
	"fmt"

	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Kind is the filter kind registered by this module.
const Kind = "box_blur"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Filter averages every channel over a (2*Radius+1)² window. Pixels outside
// the image are clamped to the nearest edge.
type Filter struct {
	Radius int `param:"radius"`
}

// Evaluate implements stage.Filter.
func (f *Filter) Evaluate(_ context.Context, inv *stage.Invocation) error {
	if f.Radius < 0 {
		return fmt.Errorf("radius must not be negative, got %d", f.Radius)
	}
	in := inv.Input(0)
	out := inv.Output
	out.Reset(in.Width, in.Height, in.Channels)

	window := (2*f.Radius + 1) * (2*f.Radius + 1)
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			for c := 0; c < in.Channels; c++ {
				sum := 0
				for dy := -f.Radius; dy <= f.Radius; dy++ {
					sy := clamp(y+dy, in.Height)
					for dx := -f.Radius; dx <= f.Radius; dx++ {
						sx := clamp(x+dx, in.Width)
						sum += int(in.Pix[in.Offset(sx, sy)+c])
					}
				}
				out.Pix[out.Offset(x, y)+c] = uint8((sum + window/2) / window)
			}
		}
	}
	return nil
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Register registers the filter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  Kind,
		Arity: 1,
		New:   func() stage.Filter { return &Filter{Radius: 1} },
	})
}
