// Package editor implements the interactive editing surface of a pipeline.
//
// A Session holds the stages an editor has placed, their connections and
// the occupancy grid used for manual placement. Structural edits (adding,
// removing, moving and connecting stages) change only the session; they
// reach the evaluated graph on the next Rebuild, which runs the full
// build, layout and order pass and keeps the previous graph when it fails.
// Parameter edits apply to the live stage immediately and are propagated by
// OnParameterChanged through incremental evaluation.
//
// All methods are serialized by one mutex, so a session can be driven from
// a network callback and a command line at the same time.
package editor
