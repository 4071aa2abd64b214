package dag

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCycle is returned when the edges of the tracker form a cycle.
var ErrCycle = errors.New("cycle detected")

// CycleError names a node that lies on a detected cycle.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s involving node '%s'", ErrCycle, e.Node)
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Tracker is a collection of nodes and their ordered edges.
// All operations are concurrency-safe.
type Tracker struct {
	mutex sync.RWMutex
	nodes map[string]*node
	// order is the insertion order of nodes; iteration over the tracker
	// follows it so results never depend on map order.
	order []string
}

// node is un-exported to enforce interaction through node names.
type node struct {
	id string
	// deps lists producers in slot order.
	deps []string
	// dependents lists consumers in edge insertion order.
	dependents []string
}
