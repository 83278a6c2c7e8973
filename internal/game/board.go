package game

import "math/rand/v2"

// newBoard deals a board of n tiles: the first n/2 palette colors, each
// twice, in Fisher–Yates shuffled order. Ids follow the shuffled positions.
func newBoard(palette []Color, n int, rng *rand.Rand) []Tile {
	colors := make([]Color, 0, n)
	colors = append(colors, palette[:n/2]...)
	colors = append(colors, palette[:n/2]...)

	for i := len(colors) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		colors[i], colors[j] = colors[j], colors[i]
	}

	tiles := make([]Tile, n)
	for i, c := range colors {
		tiles[i] = Tile{ID: i, Color: c}
	}
	return tiles
}
