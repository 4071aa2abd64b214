// Package config defines the format-agnostic pipeline description and the
// Loader interface implemented by each on-disk format.
//
// A Pipeline is an ordered list of stage descriptions. It is the single input
// of the graph builder. Concrete loaders for HCL, YAML and JSON live in their
// own adapter packages and are combined by MultiLoader, which picks a loader
// by file extension.
package config
