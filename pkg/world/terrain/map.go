package terrain

import "github.com/OCharnyshevich/isoterrain/pkg/world/tiles"

// Tile is one grid cell. Pipeline stages mutate it in place; it is read-only once
// Generate returns.
type Tile struct {
	Biome     tiles.Biome     `json:"biome"`
	TileID    tiles.TileID    `json:"tile_id"`
	Elevation float64         `json:"elevation"`
	Moisture  float64         `json:"moisture"`
	Z         int             `json:"z"`
	WaterType tiles.WaterType `json:"water_type,omitempty"`

	IsWaterEdge        bool  `json:"is_water_edge,omitempty"`
	IsShallowWaterEdge bool  `json:"is_shallow_water_edge,omitempty"`
	IsCliff            bool  `json:"is_cliff,omitempty"`
	IsTransition       bool  `json:"is_transition,omitempty"`
	Bitmask            uint8 `json:"bitmask,omitempty"`
}

// IsWater reports whether the tile is water.
func (t *Tile) IsWater() bool {
	return t.Biome == tiles.BiomeWater
}

// Point is a cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cardinal offsets in bitmask order: N, E, S, W.
var cardinals = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Diagonal offsets in slope bitmask order: NE, SE, SW, NW.
var diagonals = [4]Point{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}

var neighbors8 = [8]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}, {1, -1}, {1, 1}, {-1, 1}, {-1, -1}}

// Map is a dense row-major grid of tiles with fixed dimensions.
type Map struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"tiles"`
}

// NewMap allocates a width x height map of empty tiles.
func NewMap(width, height int) *Map {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Map{Width: width, Height: height, Tiles: make([]Tile, width*height)}
}

// InBounds reports whether (x, y) lies on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Index returns the row-major index of (x, y). The caller checks bounds.
func (m *Map) Index(x, y int) int {
	return y*m.Width + x
}

// At returns the tile at (x, y), or nil when out of bounds.
func (m *Map) At(x, y int) *Tile {
	if !m.InBounds(x, y) {
		return nil
	}
	return &m.Tiles[m.Index(x, y)]
}

// IsWater reports whether (x, y) is an in-bounds water cell.
func (m *Map) IsWater(x, y int) bool {
	t := m.At(x, y)
	return t != nil && t.IsWater()
}

// IsLand reports whether (x, y) is an in-bounds non-water cell.
func (m *Map) IsLand(x, y int) bool {
	t := m.At(x, y)
	return t != nil && !t.IsWater()
}

// OnEdge reports whether (x, y) lies on the map border.
func (m *Map) OnEdge(x, y int) bool {
	return x == 0 || y == 0 || x == m.Width-1 || y == m.Height-1
}

// CountBiome returns the number of cells with biome b.
func (m *Map) CountBiome(b tiles.Biome) int {
	n := 0
	for i := range m.Tiles {
		if m.Tiles[i].Biome == b {
			n++
		}
	}
	return n
}

// WaterCells returns every water coordinate in row-major order.
func (m *Map) WaterCells() []Point {
	var out []Point
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Tiles[m.Index(x, y)].IsWater() {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Fill sets every cell to biome b.
func (m *Map) Fill(b tiles.Biome) {
	for i := range m.Tiles {
		m.Tiles[i].Biome = b
	}
}

func (m *Map) waterCardinals(x, y int) int {
	n := 0
	for _, d := range cardinals {
		if m.IsWater(x+d.X, y+d.Y) {
			n++
		}
	}
	return n
}

func (m *Map) waterDiagonals(x, y int) int {
	n := 0
	for _, d := range diagonals {
		if m.IsWater(x+d.X, y+d.Y) {
			n++
		}
	}
	return n
}

// TouchesWater reports whether any of the 8 neighbors of (x, y) is water.
func (m *Map) TouchesWater(x, y int) bool {
	return m.waterCardinals(x, y) > 0 || m.waterDiagonals(x, y) > 0
}

// WithinWater reports whether a water cell lies within Chebyshev distance r of (x, y).
func (m *Map) WithinWater(x, y, r int) bool {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if (dx != 0 || dy != 0) && m.IsWater(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}
