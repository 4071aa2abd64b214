// Package scale provides the "scale" filter, a Catmull-Rom resample by a
// constant factor.
package scale

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/image/draw"

	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Kind is the filter kind registered by this module.
const Kind = "scale"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Filter resizes its input by Factor in both dimensions.
type Filter struct {
	Factor float64 `param:"factor"`
}

// Evaluate implements stage.Filter.
func (f *Filter) Evaluate(_ context.Context, inv *stage.Invocation) error {
	if f.Factor <= 0 {
		return fmt.Errorf("factor must be positive, got %g", f.Factor)
	}
	in := inv.Input(0)
	w := int(math.Max(1, math.Round(float64(in.Width)*f.Factor)))
	h := int(math.Max(1, math.Round(float64(in.Height)*f.Factor)))

	out := inv.Output
	out.Reset(w, h, in.Channels)
	dst, ok := out.Image().(draw.Image)
	if !ok {
		return fmt.Errorf("output buffer with %d channels is not drawable", out.Channels)
	}
	src := in.Image()
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return nil
}

// Register registers the filter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  Kind,
		Arity: 1,
		New:   func() stage.Filter { return &Filter{Factor: 0.5} },
	})
}
