package builder

import (
	"context"
	"errors"

	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/dag"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/grid"
	"github.com/vk/filtergrid/internal/inmemorytopology"
	"github.com/vk/filtergrid/internal/layout"
	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

type options struct {
	rows, cols int
}

// Option configures a build.
type Option func(*options)

// WithGridSize sets the capacity of the occupancy grid. Non-positive sizes
// keep the default.
func WithGridSize(rows, cols int) Option {
	return func(o *options) {
		if rows > 0 && cols > 0 {
			o.rows, o.cols = rows, cols
		}
	}
}

func newOptions(opts []Option) options {
	o := options{rows: grid.DefaultRows, cols: grid.DefaultCols}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Build constructs a complete, validated graph from a pipeline description.
// Records named COLOR or GRAY stand for the implicit sources and are skipped.
func Build(ctx context.Context, p *config.Pipeline, reg *registry.Registry, opts ...Option) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "records", len(p.Stages))

	stages := make([]*stage.Stage, 0, len(p.Stages))
	seen := make(map[string]struct{}, len(p.Stages))
	for _, d := range p.Stages {
		if stage.IsSourceName(d.Name) {
			continue
		}
		if d.Name == "" {
			return nil, newError(ErrUnnamedStage, "", nil)
		}
		if d.Input0 == "" || d.Input0 == stage.NoInput {
			return nil, newError(ErrMissingInput, d.Name, nil)
		}
		if _, dup := seen[d.Name]; dup {
			return nil, newError(ErrDuplicateStage, d.Name, nil)
		}
		seen[d.Name] = struct{}{}

		if _, ok := reg.Lookup(d.Kind); !ok {
			return nil, newError(ErrUnknownKind, d.Name, errors.New(d.Kind))
		}
		s, err := reg.Instantiate(d.Name, d.Kind, d.Params)
		if err != nil {
			return nil, newError(ErrInvalidParameters, d.Name, err)
		}
		s.Inputs[0] = d.Input0
		if s.Arity == stage.MaxInputs && d.Input1 != "" {
			s.Inputs[1] = d.Input1
		}
		stages = append(stages, s)
	}
	logger.Debug("Build: Record validation complete.", "stages", len(stages))

	return Assemble(ctx, stages, opts...)
}

// Assemble builds a graph from already instantiated stages. Source stages in
// the list are used as given; missing sources are created. The stages'
// Position fields are overwritten by the layout pass on success.
func Assemble(ctx context.Context, stages []*stage.Stage, opts ...Option) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	o := newOptions(opts)

	store, err := populate(ctx, stages)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Stage store populated.", "stages", store.Len())

	tracker, err := link(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := tracker.DetectCycles(); err != nil {
		var cycle *dag.CycleError
		name := ""
		if errors.As(err, &cycle) {
			name = cycle.Node
		}
		return nil, newError(ErrCycle, name, err)
	}
	logger.Debug("Build: Dependency linking complete.")

	if err := checkConnectivity(ctx, store); err != nil {
		return nil, err
	}
	logger.Debug("Build: Connectivity check complete.")

	g := graph.New(store, tracker, grid.NewSized(o.rows, o.cols))
	if err := layout.Assign(ctx, g); err != nil {
		return nil, newError(ErrLayout, "", err)
	}
	g.SetOrder(layout.DeriveOrder(g))

	logger.Debug("Build: Graph construction finished.", "stages", g.Len(), "order", g.Order())
	return g, nil
}

func populate(ctx context.Context, stages []*stage.Stage) (*inmemorytopology.Store, error) {
	store := inmemorytopology.New()
	sources := map[string]*stage.Stage{}
	for _, s := range stages {
		if s.IsSource() {
			sources[s.Name] = s
		}
	}
	for _, name := range []string{stage.Color, stage.Gray} {
		src, ok := sources[name]
		if !ok {
			src = stage.NewSource(name)
		}
		if err := store.Add(ctx, src); err != nil {
			return nil, newError(ErrDuplicateStage, name, err)
		}
	}
	for _, s := range stages {
		if s.IsSource() {
			continue
		}
		if s.Name == "" {
			return nil, newError(ErrUnnamedStage, "", nil)
		}
		if err := store.Add(ctx, s); err != nil {
			return nil, newError(ErrDuplicateStage, s.Name, err)
		}
	}
	return store, nil
}
