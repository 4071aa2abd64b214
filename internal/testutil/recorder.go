package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/internal/stage"
)

// Kinds registered by RecorderModule.
const (
	UnaryKind  = "unary"
	BinaryKind = "binary"
	FailKind   = "fail"
)

// ErrInjected is the error returned by stages of FailKind.
var ErrInjected = errors.New("injected failure")

// RecorderModule registers pass-through filters that record every
// evaluation, in call order. Unary and binary stages copy input 0 to their
// output and add their Offset parameter to every byte.
type RecorderModule struct {
	mu    sync.Mutex
	calls []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *RecorderModule {
	return &RecorderModule{}
}

// Register implements the registry.Module interface.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  UnaryKind,
		Arity: 1,
		New:   func() stage.Filter { return &recordingFilter{m: m} },
	})
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  BinaryKind,
		Arity: 2,
		New:   func() stage.Filter { return &recordingFilter{m: m} },
	})
	r.RegisterFilter(&registry.RegisteredFilter{
		Kind:  FailKind,
		Arity: 1,
		New:   func() stage.Filter { return &recordingFilter{m: m, fail: true} },
	})
}

// Registry returns a registry holding only the recorder's kinds.
func (m *RecorderModule) Registry() *registry.Registry {
	return registry.NewWithModules(m)
}

// Calls returns the recorded stage names in evaluation order.
func (m *RecorderModule) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Count returns how often name was evaluated.
func (m *RecorderModule) Count(name string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls.
func (m *RecorderModule) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

type recordingFilter struct {
	m      *RecorderModule
	fail   bool
	Offset int `param:"offset"`
}

func (f *recordingFilter) Evaluate(_ context.Context, inv *stage.Invocation) error {
	f.m.mu.Lock()
	f.m.calls = append(f.m.calls, inv.Stage)
	f.m.mu.Unlock()

	if f.fail {
		return ErrInjected
	}
	if in := inv.Input(0); in != nil {
		inv.Output.CopyFrom(in)
		for i := range inv.Output.Pix {
			inv.Output.Pix[i] += uint8(f.Offset)
		}
	}
	return nil
}
