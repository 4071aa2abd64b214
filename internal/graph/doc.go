// Package graph provides a unified facade over the structures that together
// make up a built pipeline graph.
//
// # Architecture
//
// The Graph is a thin facade over three parts that are always rebuilt
// together:
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (read API for evaluator/editor)    │
//	└──────┬───────────┬───────────┬──────┘
//	       │           │           │
//	       ▼           ▼           ▼
//	┌──────────┐ ┌──────────┐ ┌──────────┐
//	│  Stage   │ │   DAG    │ │ Occupancy│
//	│  Store   │ │ Tracker  │ │   Grid   │
//	└──────────┘ └──────────┘ └──────────┘
//
// **Stage Store** (topologystore.Store) owns the stage records, including the
// two sources.
//
// **DAG Tracker** (dag.Tracker) owns the producer/consumer edges and answers
// Dependents for incremental evaluation.
//
// **Occupancy Grid** (grid.Grid) records the cell of every placed stage. The
// execution order is derived from it by a column-major scan.
//
// # Lifecycle
//
//  1. Created empty by the builder for every structural rebuild.
//  2. Populated by the builder, then positioned by the layout pass.
//  3. Read-only while evaluating; only stage output buffers change.
//  4. Discarded on the next rebuild. There is no incremental structure update.
package graph
