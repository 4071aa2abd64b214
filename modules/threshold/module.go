// Package threshold provides the "threshold" filter, which turns its input
// into a black and white single-channel image.
package threshold

import (
	"context"
	"fmt"

	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Kind is the filter kind registered by this module.
const Kind = "threshold"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Filter maps pixels whose luma is at least Level to white, others to black.
type Filter struct {
	Level int `param:"level"`
}

// Evaluate implements stage.Filter.
func (f *Filter) Evaluate(_ context.Context, inv *stage.Invocation) error {
	if f.Level < 0 || f.Level > 255 {
		return fmt.Errorf("level %d outside 0..255", f.Level)
	}
	in := inv.Input(0)
	out := inv.Output
	out.Reset(in.Width, in.Height, 1)
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			var v uint8
			if int(in.Luma(x, y)) >= f.Level {
				v = 255
			}
			out.Pix[out.Offset(x, y)] = v
		}
	}
	return nil
}

// Register registers the filter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:     Kind,
		Arity:    1,
		Channels: 1,
		New:      func() stage.Filter { return &Filter{Level: 128} },
	})
}
