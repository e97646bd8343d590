package browse

import "math"

// Default grid constants. The effective minimum tile edge is scaled
// by the zoom ladder before reaching Metrics.
const (
	MinTileEdge float32 = 96
	TileSpacing float32 = 8
)

// GridMetrics is the (columns, tile edge) pair derived from the
// viewport width under fixed spacing.
type GridMetrics struct {
	Columns  int
	TileEdge float32
}

// Metrics computes the widest grid that fits: the largest column
// count whose tiles at minEdge plus inter-tile spacing fit the usable
// width (viewport minus one spacing on each side), then the floored
// tile edge that makes those columns fill the usable width exactly.
// The edge never drops below minEdge and columns never below one.
func Metrics(viewportWidth, spacing, minEdge float32) GridMetrics {
	usable := viewportWidth - 2*spacing

	cols := 1
	if usable > minEdge {
		cols = int((usable + spacing) / (minEdge + spacing))
		if cols < 1 {
			cols = 1
		}
	}

	edge := float32(math.Floor(float64((usable - float32(cols-1)*spacing) / float32(cols))))
	if edge < minEdge {
		edge = minEdge
	}
	return GridMetrics{Columns: cols, TileEdge: edge}
}
