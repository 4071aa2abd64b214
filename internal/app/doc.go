// Package app contains the core application logic. It wires the filter
// registry, the pipeline loaders, the evaluator and the optional editor link
// and watcher together, decoupled from any specific entrypoint like a CLI.
package app
