package editor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/filtergrid/internal/builder"
	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/executor"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/stage"
)

// StageView is a read-only snapshot of one stage for display.
type StageView struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Row    int      `json:"row"`
	Col    int      `json:"col"`
	Inputs []string `json:"inputs"`
}

// Rebuild runs the full build over the session's stages. On success the
// new graph replaces the old one and stage positions follow the computed
// layout. On failure the previous graph and every position are kept.
func (s *Session) Rebuild(ctx context.Context) (*graph.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rebuild(s.logger(ctx)); err != nil {
		return nil, err
	}
	return s.graph, nil
}

func (s *Session) rebuild(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	all := s.ordered()

	saved := make(map[*stage.Stage]stage.Position, len(all))
	for _, st := range all {
		saved[st] = st.Position
	}

	g, err := builder.Assemble(ctx, all, builder.WithGridSize(s.rows, s.cols))
	s.metrics.ObserveRebuild(len(all), err)
	if err != nil {
		for st, pos := range saved {
			st.Position = pos
		}
		logger.Warn("Rebuild failed, keeping previous graph.", "error", err)
		return err
	}

	s.adopt(g)
	logger.Info("Pipeline rebuilt.", "stages", g.Len(), "order", g.Order())
	return nil
}

func (s *Session) adopt(g *graph.Graph) {
	s.graph = g
	s.stale = false
	s.cells = g.Grid().Clone()
	opts := append([]executor.Option{executor.WithMetrics(s.metrics)}, s.execOpts...)
	s.exec = executor.New(g, opts...)
}

// ordered lists sources first, then the other stages in creation order.
func (s *Session) ordered() []*stage.Stage {
	out := make([]*stage.Stage, 0, len(s.sources)+len(s.names))
	out = append(out, s.sources[stage.Color], s.sources[stage.Gray])
	for _, name := range s.names {
		out = append(out, s.stages[name])
	}
	return out
}

// EvaluateAll evaluates the last built graph completely.
func (s *Session) EvaluateAll(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.exec.EvaluateAll(s.logger(ctx))
}

// OnParameterChanged re-evaluates name and everything downstream of it in
// the last built graph.
func (s *Session) OnParameterChanged(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.exec.EvaluateIncremental(s.logger(ctx), name)
}

func (s *Session) ready() error {
	switch {
	case s.exec == nil:
		return ErrNoGraph
	case s.stale:
		return ErrStaleGraph
	}
	return nil
}

// Load replaces the session content with a pipeline description. The
// description is validated with the regular build first; when it fails the
// session is left untouched.
func (s *Session) Load(ctx context.Context, p *config.Pipeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = s.logger(ctx)

	built, err := builder.Build(ctx, p, s.reg, builder.WithGridSize(s.rows, s.cols))
	if err != nil {
		s.metrics.ObserveRebuild(len(p.Stages), err)
		return err
	}

	stages := make(map[string]*stage.Stage)
	var names []string
	var conns []Connection
	for _, d := range p.Stages {
		st, ok := built.Stage(ctx, d.Name)
		if !ok || st.IsSource() {
			continue
		}
		stages[st.Name] = st
		names = append(names, st.Name)
		for slot, producer := range st.ConnectedInputs() {
			if producer == stage.NoInput {
				continue
			}
			conns = append(conns, Connection{ID: uuid.NewString(), Producer: producer, Consumer: st.Name, Slot: slot})
		}
	}
	if err := s.replace(ctx, stages, names, conns); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// replace rebuilds over the given stages and the session's own sources, so
// source images carry over. The stage set is swapped in only on success.
func (s *Session) replace(ctx context.Context, stages map[string]*stage.Stage, names []string, conns []Connection) error {
	prevStages, prevNames, prevConns := s.stages, s.names, s.conns
	s.stages, s.names, s.conns = stages, names, conns
	if err := s.rebuild(ctx); err != nil {
		s.stages, s.names, s.conns = prevStages, prevNames, prevConns
		return err
	}
	return nil
}

// Describe returns the session content as a pipeline description.
func (s *Session) Describe() *config.Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &config.Pipeline{}
	for _, name := range s.names {
		st := s.stages[name]
		d := &config.StageDescription{
			Kind:   st.Kind,
			Name:   st.Name,
			Input0: st.Inputs[0],
			Input1: stage.NoInput,
		}
		if st.Arity == stage.MaxInputs {
			d.Input1 = st.Inputs[1]
		}
		if len(st.Params) > 0 {
			d.Params = make(map[string]cty.Value, len(st.Params))
			for k, v := range st.Params {
				d.Params[k] = v
			}
		}
		p.Stages = append(p.Stages, d)
	}
	return p
}

// Layout returns a snapshot of every stage, sources included.
func (s *Session) Layout() []StageView {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.ordered()
	out := make([]StageView, 0, len(all))
	for _, st := range all {
		out = append(out, StageView{
			Name:   st.Name,
			Kind:   st.Kind,
			Row:    st.Position.Row,
			Col:    st.Position.Col,
			Inputs: st.ConnectedInputs(),
		})
	}
	return out
}
