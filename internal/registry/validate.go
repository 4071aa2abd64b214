package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/stage"
)

// ValidateRegistry checks every registered filter: its arity must be 1 or 2,
// its constructor must exist and every parameter field must have a cty type.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, kind := range r.Kinds() {
		def := r.filters[kind]
		if def.Arity < 1 || def.Arity > stage.MaxInputs {
			errs = append(errs, fmt.Sprintf("filter '%s': arity %d outside 1..%d", kind, def.Arity, stage.MaxInputs))
		}
		if def.Channels != 0 && def.Channels != 1 && def.Channels != 4 {
			errs = append(errs, fmt.Sprintf("filter '%s': unsupported channel count %d", kind, def.Channels))
		}
		if def.New == nil {
			errs = append(errs, fmt.Sprintf("filter '%s': no constructor", kind))
			continue
		}
		if _, err := WriteParameters(def.New()); err != nil {
			errs = append(errs, fmt.Sprintf("filter '%s': %v", kind, err))
			continue
		}
		logger.Debug("Filter definition is valid.", "kind", kind)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
