package scene

import "math"

// BlockGrid is a single layer of unit blocks occupying y in [0,1), centred
// on the origin.
type BlockGrid struct {
	Width int
	Depth int
	Color Color

	minX int
	minZ int
}

func NewBlockGrid(width, depth int, color Color) *BlockGrid {
	return &BlockGrid{
		Width: width,
		Depth: depth,
		Color: color,
		minX:  -width / 2,
		minZ:  -depth / 2,
	}
}

func (g *BlockGrid) Height() float64 {
	return 1
}

func (g *BlockGrid) IsSolid(x, y, z int) bool {
	if y != 0 {
		return false
	}
	return x >= g.minX && x < g.minX+g.Width && z >= g.minZ && z < g.minZ+g.Depth
}

// Supports reports whether a block lies directly under (x, z).
func (g *BlockGrid) Supports(x, z float64) bool {
	return g.IsSolid(int(math.Floor(x)), 0, int(math.Floor(z)))
}

func (g *BlockGrid) Count() int {
	return g.Width * g.Depth
}
