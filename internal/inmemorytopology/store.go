package inmemorytopology

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/topologystore"
)

// Store implements topologystore.Store with a slot arena guarded by a
// RWMutex.
type Store struct {
	mu    sync.RWMutex
	slots []*stage.Stage
	free  []int
	index map[string]int
	// seq records the registration order of live slots; reused slots must not
	// change where a stage appears in All.
	seq   []int
}

// New creates an empty store. Sources are not added implicitly; see
// WithSources.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// WithSources creates a store that already holds COLOR and GRAY.
func WithSources() *Store {
	s := New()
	for _, name := range []string{stage.Color, stage.Gray} {
		// Cannot fail on an empty store.
		_ = s.Add(context.Background(), stage.NewSource(name))
	}
	return s
}

var _ topologystore.Store = (*Store)(nil)

// Add registers a stage in the first free slot.
func (s *Store) Add(ctx context.Context, st *stage.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[st.Name]; exists {
		return fmt.Errorf("%w: %q", topologystore.ErrDuplicate, st.Name)
	}

	var slot int
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[slot] = st
	} else {
		slot = len(s.slots)
		s.slots = append(s.slots, st)
	}
	s.index[st.Name] = slot
	s.seq = append(s.seq, slot)
	ctxlog.FromContext(ctx).Debug("Stage registered.", "stage", st.Name, "kind", st.Kind, "slot", slot)
	return nil
}

// Remove marks the stage's slot free.
func (s *Store) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", topologystore.ErrNotFound, name)
	}
	if s.slots[slot].IsSource() {
		return fmt.Errorf("%w: %q", topologystore.ErrSourceRemoval, name)
	}

	s.slots[slot] = nil
	s.free = append(s.free, slot)
	delete(s.index, name)
	for i, v := range s.seq {
		if v == slot {
			s.seq = append(s.seq[:i], s.seq[i+1:]...)
			break
		}
	}
	ctxlog.FromContext(ctx).Debug("Stage slot released.", "stage", name, "slot", slot)
	return nil
}

// Get retrieves a stage by name.
func (s *Store) Get(_ context.Context, name string) (*stage.Stage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.slots[slot], true
}

// All returns the live stages in registration order.
func (s *Store) All(_ context.Context) []*stage.Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*stage.Stage, 0, len(s.seq))
	for _, slot := range s.seq {
		out = append(out, s.slots[slot])
	}
	return out
}

// Len returns the number of live stages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// Slots returns the arena size, including free slots.
func (s *Store) Slots() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
