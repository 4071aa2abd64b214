// Package registry maps filter kinds to their compiled implementations.
//
// Every built-in filter lives in its own module under modules/ and registers
// itself through the Module interface during application startup. The
// registry records the kind's declared input arity, its output channel count
// and a constructor. Filter parameters travel through the engine as opaque
// cty values and are decoded into `param:"..."`-tagged struct fields only when
// a stage is instantiated.
//
// The registry is validated once after all modules registered, so a malformed
// filter definition is caught at startup rather than during evaluation.
package registry
