// Package difference provides the two-input "difference" filter.
package difference

import (
	"context"
	"fmt"

	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Kind is the filter kind registered by this module.
const Kind = "difference"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Filter writes |in0 - in1| per channel. Alpha is taken from input 0.
type Filter struct{}

// Evaluate implements stage.Filter.
func (f *Filter) Evaluate(_ context.Context, inv *stage.Invocation) error {
	a, b := inv.Input(0), inv.Input(1)
	if a.Width != b.Width || a.Height != b.Height {
		return fmt.Errorf("input sizes differ: %dx%d and %dx%d", a.Width, a.Height, b.Width, b.Height)
	}

	out := inv.Output
	if a.Channels == 1 && b.Channels == 1 {
		out.Reset(a.Width, a.Height, 1)
		for i := range out.Pix {
			out.Pix[i] = absDiff(a.Pix[i], b.Pix[i])
		}
		return nil
	}

	out.Reset(a.Width, a.Height, 4)
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			ar, ag, ab, aa := a.RGBA(x, y)
			br, bg, bb, _ := b.RGBA(x, y)
			i := out.Offset(x, y)
			out.Pix[i] = absDiff(ar, br)
			out.Pix[i+1] = absDiff(ag, bg)
			out.Pix[i+2] = absDiff(ab, bb)
			out.Pix[i+3] = aa
		}
	}
	return nil
}

func absDiff(x, y uint8) uint8 {
	if x > y {
		return x - y
	}
	return y - x
}

// Register registers the filter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  Kind,
		Arity: 2,
		New:   func() stage.Filter { return &Filter{} },
	})
}
