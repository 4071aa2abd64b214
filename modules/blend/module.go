// Package blend provides the two-input "blend" filter.
package blend

import (
	"context"
	"fmt"

	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Kind is the filter kind registered by this module.
const Kind = "blend"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Filter mixes its inputs as (1-Alpha)*in0 + Alpha*in1. The output is gray
// only when both inputs are gray.
type Filter struct {
	Alpha float64 `param:"alpha"`
}

// Evaluate implements stage.Filter.
func (f *Filter) Evaluate(_ context.Context, inv *stage.Invocation) error {
	if f.Alpha < 0 || f.Alpha > 1 {
		return fmt.Errorf("alpha %g outside 0..1", f.Alpha)
	}
	a, b := inv.Input(0), inv.Input(1)
	if a.Width != b.Width || a.Height != b.Height {
		return fmt.Errorf("input sizes differ: %dx%d and %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	mix := func(x, y uint8) uint8 {
		return uint8((1-f.Alpha)*float64(x) + f.Alpha*float64(y) + 0.5)
	}

	out := inv.Output
	if a.Channels == 1 && b.Channels == 1 {
		out.Reset(a.Width, a.Height, 1)
		for i := range out.Pix {
			out.Pix[i] = mix(a.Pix[i], b.Pix[i])
		}
		return nil
	}

	out.Reset(a.Width, a.Height, 4)
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			ar, ag, ab, aa := a.RGBA(x, y)
			br, bg, bb, ba := b.RGBA(x, y)
			i := out.Offset(x, y)
			out.Pix[i] = mix(ar, br)
			out.Pix[i+1] = mix(ag, bg)
			out.Pix[i+2] = mix(ab, bb)
			out.Pix[i+3] = mix(aa, ba)
		}
	}
	return nil
}

// Register registers the filter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  Kind,
		Arity: 2,
		New:   func() stage.Filter { return &Filter{Alpha: 0.5} },
	})
}
