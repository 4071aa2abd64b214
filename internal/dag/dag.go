package dag

import (
	"fmt"
)

// New creates and returns an initialized, empty Tracker.
func New() *Tracker {
	return &Tracker{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a node with the given name. Adding an existing name does
// nothing.
func (t *Tracker) AddNode(id string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.nodes[id]; ok {
		return
	}
	t.nodes[id] = &node{id: id}
	t.order = append(t.order, id)
}

// Has reports whether id is a known node.
func (t *Tracker) Has(id string) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	_, ok := t.nodes[id]
	return ok
}

// AddEdge records that consumer reads the output of producer. Repeated edges
// are kept. A self-referential edge is a cycle of length one and is refused.
func (t *Tracker) AddEdge(producer, consumer string) error {
	if producer == consumer {
		return &CycleError{Node: producer}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	from, ok := t.nodes[producer]
	if !ok {
		return fmt.Errorf("source node not found: %s", producer)
	}
	to, ok := t.nodes[consumer]
	if !ok {
		return fmt.Errorf("destination node not found: %s", consumer)
	}

	to.deps = append(to.deps, producer)
	from.dependents = append(from.dependents, consumer)
	return nil
}

// Dependencies returns the producers of id in slot order.
func (t *Tracker) Dependencies(id string) ([]string, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string(nil), n.deps...), nil
}

// Dependents returns the consumers of id in insertion order.
func (t *Tracker) Dependents(id string) ([]string, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string(nil), n.dependents...), nil
}

// Nodes returns every node name in insertion order.
func (t *Tracker) Nodes() []string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return append([]string(nil), t.order...)
}

// Terminals returns the nodes nobody consumes, in insertion order.
func (t *Tracker) Terminals() []string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	var out []string
	for _, id := range t.order {
		if len(t.nodes[id].dependents) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Reachable returns every node reachable from id through dependents, id
// included, each listed once in depth-first discovery order.
func (t *Tracker) Reachable(id string) ([]string, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if _, ok := t.nodes[id]; !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	seen := make(map[string]bool)
	var out []string
	var walk func(string)
	walk = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		for _, d := range t.nodes[n].dependents {
			walk(d)
		}
	}
	walk(id)
	return out, nil
}

// DetectCycles checks the tracker for cycles. The returned *CycleError names
// the first node found on a cycle, visiting nodes in insertion order.
func (t *Tracker) DetectCycles() error {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	// permanent: fully visited, not on a cycle. temporary: on the current
	// recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return &CycleError{Node: n.id}
		}

		temporary[n.id] = true
		for _, dependent := range n.dependents {
			if err := visit(t.nodes[dependent]); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range t.order {
		if err := visit(t.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}
