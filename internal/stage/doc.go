// Package stage defines the unit of computation of a filter pipeline: the
// Stage record, its grid Position, the Buffer it owns and the Filter
// contract that every filter implementation satisfies.
//
// A Stage is a named vertex of the pipeline graph. It wraps an opaque Filter
// and refers to its producers by name through Inputs. Two source stages,
// COLOR and GRAY, always exist; they take no inputs and publish the image
// data supplied from outside the engine.
package stage
