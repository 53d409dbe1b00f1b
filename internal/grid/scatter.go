package grid

import "math/rand"

// Scatter places agents on a width×height grid, each cell occupied with
// probability density. The result depends only on rng's state.
func Scatter(rng *rand.Rand, width, height int, density float64) AgentSet {
	cells := map[Position]struct{}{}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if rng.Float64() < density {
				cells[Position{X: x, Y: y}] = struct{}{}
			}
		}
	}
	return FromCells(cells)
}
