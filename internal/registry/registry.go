package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/filtergrid/internal/stage"
)

// Module is the interface that all filter modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredFilter holds the compiled parts of one filter kind.
type RegisteredFilter struct {
	Kind string
	// Arity is the number of input slots, 1 or 2.
	Arity int
	// Channels is the output channel count; 0 follows input 0.
	Channels int
	// New returns a fresh filter with default parameters. It should return a
	// pointer to a struct so parameters can be decoded into it.
	New func() stage.Filter
}

// Registry holds the registered filters for a single application instance.
type Registry struct {
	filters map[string]*RegisteredFilter
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{filters: make(map[string]*RegisteredFilter)}
}

// NewWithModules creates a registry and registers every module in order.
func NewWithModules(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterFilter adds a filter kind. Registering the same kind twice, or the
// reserved source kind, is a programming error and panics.
func (r *Registry) RegisterFilter(f *RegisteredFilter) {
	if f.Kind == stage.SourceKind {
		panic(fmt.Sprintf("filter kind '%s' is reserved", f.Kind))
	}
	if _, exists := r.filters[f.Kind]; exists {
		panic(fmt.Sprintf("filter with kind '%s' already registered", f.Kind))
	}
	slog.Debug("Registering filter.", "kind", f.Kind, "arity", f.Arity)
	r.filters[f.Kind] = f
}

// Lookup returns the registered filter for kind.
func (r *Registry) Lookup(kind string) (*RegisteredFilter, bool) {
	f, ok := r.filters[kind]
	return f, ok
}

// Kinds returns every registered kind in lexical order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.filters))
	for k := range r.filters {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Instantiate creates a stage of the given kind and decodes params into its
// filter.
func (r *Registry) Instantiate(name, kind string, params ParamSet) (*stage.Stage, error) {
	def, ok := r.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("unknown filter kind %q", kind)
	}
	f := def.New()
	if err := ReadParameters(f, params); err != nil {
		return nil, err
	}
	s := stage.New(name, kind, def.Arity, def.Channels, f)
	for k, v := range params {
		s.Params[k] = v
	}
	return s, nil
}
