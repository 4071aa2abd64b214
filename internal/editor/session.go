package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/executor"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/grid"
	"github.com/vk/filtergrid/internal/metrics"
	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Connection links a producer's output to one input slot of a consumer.
type Connection struct {
	ID       string `json:"id"`
	Producer string `json:"producer"`
	Consumer string `json:"consumer"`
	Slot     int    `json:"slot"`
}

// Session is one editing session over a pipeline.
type Session struct {
	mu sync.Mutex

	id      string
	reg     *registry.Registry
	metrics *metrics.Metrics
	rows    int
	cols    int

	cells   *grid.Grid
	sources map[string]*stage.Stage
	stages  map[string]*stage.Stage
	names   []string
	conns   []Connection

	stale    bool
	graph    *graph.Graph
	exec     *executor.Executor
	execOpts []executor.Option
}

// Option configures a Session.
type Option func(*Session)

// WithMetrics records rebuilds and evaluations in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithExecutorOptions passes opts to every executor the session creates.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Session) { s.execOpts = append(s.execOpts, opts...) }
}

// WithGridSize sets the capacity of the occupancy grid. Non-positive sizes
// keep the default.
func WithGridSize(rows, cols int) Option {
	return func(s *Session) {
		if rows > 0 && cols > 0 {
			s.rows, s.cols = rows, cols
		}
	}
}

// New creates an empty session holding only the two sources.
func New(reg *registry.Registry, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		reg:     reg,
		rows:    grid.DefaultRows,
		cols:    grid.DefaultCols,
		sources: make(map[string]*stage.Stage),
		stages:  make(map[string]*stage.Stage),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cells = grid.NewSized(s.rows, s.cols)
	for _, name := range []string{stage.Color, stage.Gray} {
		src := stage.NewSource(name)
		s.sources[name] = src
		// The grid is fresh and the source cells are distinct.
		_ = s.cells.Place(name, src.Position)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) logger(ctx context.Context) context.Context {
	ctx, _ = ctxlog.With(ctx, "session", s.id)
	return ctx
}

func (s *Session) lookup(name string) (*stage.Stage, error) {
	if st, ok := s.sources[name]; ok {
		return st, nil
	}
	if st, ok := s.stages[name]; ok {
		return st, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// nextName returns the first free "<kind>_<n>", counting from 1.
func (s *Session) nextName(kind string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s_%d", kind, n)
		if _, taken := s.stages[name]; !taken {
			return name
		}
	}
}

// AddStage creates a stage of kind at (row, col) and returns its generated
// name. An occupied or out-of-range cell is rejected and nothing changes.
func (s *Session) AddStage(ctx context.Context, kind string, row, col int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = s.logger(ctx)

	if _, ok := s.reg.Lookup(kind); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	name := s.nextName(kind)
	st, err := s.reg.Instantiate(name, kind, nil)
	if err != nil {
		return "", err
	}
	pos := stage.Position{Row: row, Col: col}
	if err := s.cells.Place(name, pos); err != nil {
		return "", err
	}
	st.Position = pos
	s.stages[name] = st
	s.names = append(s.names, name)
	s.stale = true
	ctxlog.FromContext(ctx).Debug("Stage added.", "stage", name, "kind", kind, "position", pos.String())
	return name, nil
}

// RemoveStage deletes a stage and every connection touching it.
func (s *Session) RemoveStage(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = s.logger(ctx)

	if stage.IsSourceName(name) {
		return fmt.Errorf("%w: %q", ErrSourceStage, name)
	}
	st, ok := s.stages[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}

	kept := s.conns[:0]
	for _, c := range s.conns {
		if c.Producer == name || c.Consumer == name {
			if consumer, ok := s.stages[c.Consumer]; ok {
				consumer.Inputs[c.Slot] = stage.NoInput
			}
			continue
		}
		kept = append(kept, c)
	}
	s.conns = kept

	s.cells.Release(st.Position)
	delete(s.stages, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	s.stale = true
	ctxlog.FromContext(ctx).Debug("Stage removed.", "stage", name)
	return nil
}

// MoveStage places an existing stage on a new cell. Sources are fixed.
// A committed graph keeps its own layout, so the session turns stale until
// the next rebuild.
func (s *Session) MoveStage(ctx context.Context, name string, row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stage.IsSourceName(name) {
		return fmt.Errorf("%w: %q", ErrSourceStage, name)
	}
	st, ok := s.stages[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	to := stage.Position{Row: row, Col: col}
	if err := s.cells.Move(name, st.Position, to); err != nil {
		return err
	}
	st.Position = to
	s.stale = true
	ctxlog.FromContext(s.logger(ctx)).Debug("Stage moved.", "stage", name, "position", to.String())
	return nil
}

// Connect feeds producer into the given input slot of consumer.
func (s *Session) Connect(ctx context.Context, producer, consumer string, slot int) (Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(producer); err != nil {
		return Connection{}, err
	}
	to, err := s.lookup(consumer)
	if err != nil {
		return Connection{}, err
	}
	reject := func(reason string) (Connection, error) {
		return Connection{}, &ConnectError{Producer: producer, Consumer: consumer, Slot: slot, Reason: reason}
	}
	switch {
	case producer == consumer:
		return reject("a stage cannot consume its own output")
	case slot < 0 || slot >= to.Arity:
		return reject(fmt.Sprintf("stage accepts %d input(s)", to.Arity))
	case to.Inputs[slot] != stage.NoInput:
		return reject(fmt.Sprintf("slot already connected to %q", to.Inputs[slot]))
	}

	c := Connection{ID: uuid.NewString(), Producer: producer, Consumer: consumer, Slot: slot}
	to.Inputs[slot] = producer
	s.conns = append(s.conns, c)
	s.stale = true
	ctxlog.FromContext(s.logger(ctx)).Debug("Stages connected.", "producer", producer, "consumer", consumer, "slot", slot, "connection", c.ID)
	return c, nil
}

// Disconnect removes a connection by id.
func (s *Session) Disconnect(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.conns {
		if c.ID != id {
			continue
		}
		if consumer, ok := s.stages[c.Consumer]; ok {
			consumer.Inputs[c.Slot] = stage.NoInput
		}
		s.conns = append(s.conns[:i], s.conns[i+1:]...)
		s.stale = true
		ctxlog.FromContext(s.logger(ctx)).Debug("Connection removed.", "connection", id)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownConnection, id)
}

// Connections returns the current connections in creation order.
func (s *Session) Connections() []Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Connection(nil), s.conns...)
}

// SetParameters merges params into the stage's parameters. The merged set is
// decoded into a fresh filter first, so a rejected value changes nothing.
func (s *Session) SetParameters(ctx context.Context, name string, params map[string]cty.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stage.IsSourceName(name) {
		return fmt.Errorf("%w: %q", ErrSourceStage, name)
	}
	st, ok := s.stages[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	def, ok := s.reg.Lookup(st.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, st.Kind)
	}

	merged := make(map[string]cty.Value, len(st.Params)+len(params))
	for k, v := range st.Params {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	f := def.New()
	if err := registry.ReadParameters(f, merged); err != nil {
		return fmt.Errorf("stage %q: %w", name, err)
	}
	st.Filter = f
	st.Params = merged
	ctxlog.FromContext(s.logger(ctx)).Debug("Stage parameters updated.", "stage", name, "params", len(params))
	return nil
}

// SetSourceImage supplies the image published by COLOR or GRAY.
func (s *Session) SetSourceImage(name string, img *stage.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.sources[name]
	if !ok {
		return fmt.Errorf("%w: %q is not a source", ErrUnknownStage, name)
	}
	f, ok := src.Filter.(*stage.SourceFilter)
	if !ok {
		return fmt.Errorf("source stage %q has filter %T", name, src.Filter)
	}
	f.Image = img
	return nil
}

// Graph returns the last successfully built graph, or nil.
func (s *Session) Graph() *graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}
