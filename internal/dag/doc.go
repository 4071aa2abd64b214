// Package dag tracks the producer/consumer edges of a pipeline graph.
//
// A Tracker is built alongside the stage records on every structural
// rebuild. It answers two questions for the rest of the engine: which stages
// consume a given stage's output (used to drive incremental evaluation), and
// whether the edges form a cycle (checked before any recursive walk over the
// inputs, so a hand-edited description can never recurse forever).
//
// Dependents are kept as ordered lists, not sets. A stage that consumes the
// same producer on both of its input slots is listed twice, and incremental
// evaluation visits it once per listing.
package dag
