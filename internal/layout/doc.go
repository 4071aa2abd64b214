// Package layout assigns grid cells to the stages of a built graph and
// derives the execution order from those cells.
//
// Every stage is placed one column to the right of its rightmost input, so a
// column-major scan of the grid visits producers before consumers. The same
// cells double as the visual layout shown by an editor.
package layout
