// Package topologystore defines the interface for storing and retrieving the
// stage records of a pipeline graph.
//
// The store is the node registry of the engine: it owns every stage record,
// keyed by its unique name, including the two fixed source stages. It holds
// structure only. Edge bookkeeping lives in the dag package and positions
// are written onto the records by the layout pass.
//
// # Lifecycle
//
//  1. Created once per build of the graph.
//  2. Populated by the builder, sources first, then stages in description order.
//  3. Read-only while the graph is evaluated.
//  4. Discarded on the next structural change; there is no incremental update.
package topologystore

import (
	"context"
	"errors"

	"github.com/vk/filtergrid/internal/stage"
)

var (
	// ErrDuplicate is returned when a stage name is already registered.
	ErrDuplicate = errors.New("stage already registered")
	// ErrNotFound is returned when a name does not resolve to a stage.
	ErrNotFound = errors.New("stage not found")
	// ErrSourceRemoval is returned when removing COLOR or GRAY.
	ErrSourceRemoval = errors.New("source stages cannot be removed")
)

// Store is the interface for managing the stage records of a pipeline.
type Store interface {
	// Add registers a new stage. Names are unique; adding a name twice
	// returns ErrDuplicate.
	Add(ctx context.Context, s *stage.Stage) error

	// Remove frees the slot held by name. Source stages cannot be removed.
	Remove(ctx context.Context, name string) error

	// Get retrieves a single stage by name.
	Get(ctx context.Context, name string) (*stage.Stage, bool)

	// All returns every stage in registration order. The slice is a snapshot.
	All(ctx context.Context) []*stage.Stage

	// Len returns the number of live stages.
	Len() int
}
