// Package executor evaluates the stages of a built pipeline graph.
//
// Two entry points exist. EvaluateAll walks the graph's derived order and
// evaluates every stage exactly once; it is used after every structural
// rebuild. EvaluateIncremental re-evaluates one changed stage and then,
// depth-first, every stage reachable through the dependents lists.
//
// Incremental evaluation does not deduplicate. A stage reached through two
// fan-in paths is evaluated once per path, so in the diamond A→B, A→C,
// B→D, C→D a change at A evaluates D twice. Callers that count evaluations
// should expect this.
//
// Both entry points run sequentially and stop at the first failing filter.
// Stages evaluated before the failure keep their new output.
package executor
