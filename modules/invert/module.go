// Package invert provides the "invert" filter: every color channel v becomes
// 255-v. Alpha is preserved.
package invert

import (
	"context"

	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Kind is the filter kind registered by this module.
const Kind = "invert"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Filter is the invert filter. It has no parameters.
type Filter struct{}

// Evaluate implements stage.Filter.
func (f *Filter) Evaluate(_ context.Context, inv *stage.Invocation) error {
	in := inv.Input(0)
	out := inv.Output
	out.CopyFrom(in)
	for i := range out.Pix {
		if out.Channels == 4 && i%4 == 3 {
			continue
		}
		out.Pix[i] = 255 - out.Pix[i]
	}
	return nil
}

// Register registers the filter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  Kind,
		Arity: 1,
		New:   func() stage.Filter { return &Filter{} },
	})
}
