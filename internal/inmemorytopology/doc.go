// Package inmemorytopology provides an arena-backed, thread-safe, in-memory
// implementation of the topologystore.Store interface.
//
// Stages live in a slice of slots and are addressed by index; a name index
// maps stage names to slots. Removing a stage frees its slot for reuse
// instead of shrinking the slice, so indices held by other structures stay
// valid for the lifetime of the store.
package inmemorytopology
