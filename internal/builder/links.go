package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/dag"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/topologystore"
)

// link records an edge for every connected input that names an existing
// stage. Dangling references are left for the connectivity check.
func link(ctx context.Context, store topologystore.Store) (*dag.Tracker, error) {
	logger := ctxlog.FromContext(ctx)
	tracker := dag.New()
	all := store.All(ctx)
	for _, s := range all {
		tracker.AddNode(s.Name)
	}
	for _, s := range all {
		for slot, in := range s.ConnectedInputs() {
			if _, ok := store.Get(ctx, in); !ok {
				continue
			}
			if err := tracker.AddEdge(in, s.Name); err != nil {
				if errors.Is(err, dag.ErrCycle) {
					return nil, newError(ErrCycle, s.Name, err)
				}
				return nil, err
			}
			logger.Debug("Linked stage input.", "producer", in, "consumer", s.Name, "slot", slot)
		}
	}
	return tracker, nil
}

// checkConnectivity follows every input chain back to a source stage. Results
// are memoized so shared ancestors are walked once.
func checkConnectivity(ctx context.Context, store topologystore.Store) error {
	rooted := make(map[string]bool)

	var findRoot func(s *stage.Stage) error
	findRoot = func(s *stage.Stage) error {
		if s.IsSource() || rooted[s.Name] {
			return nil
		}
		for slot, in := range s.ConnectedInputs() {
			if in == stage.NoInput || in == "" {
				return newError(ErrDisconnectedGraph, s.Name, fmt.Errorf("input %d is not connected", slot))
			}
			producer, ok := store.Get(ctx, in)
			if !ok {
				return newError(ErrDisconnectedGraph, s.Name, fmt.Errorf("input %d references missing stage %q", slot, in))
			}
			if err := findRoot(producer); err != nil {
				return err
			}
		}
		rooted[s.Name] = true
		return nil
	}

	for _, s := range store.All(ctx) {
		if err := findRoot(s); err != nil {
			ctxlog.FromContext(ctx).Debug("Connectivity check failed.", "stage", s.Name, "error", err)
			return err
		}
	}
	return nil
}
