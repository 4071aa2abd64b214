package layout

import (
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/stage"
)

// DeriveOrder scans the grid of g column by column, top to bottom, and
// returns the occupants in that order. Because every stage sits to the right
// of all its inputs the result is a topological order with the sources first.
func DeriveOrder(g *graph.Graph) []string {
	var order []string
	g.Grid().ColumnMajor(func(name string, _ stage.Position) {
		order = append(order, name)
	})
	return order
}
