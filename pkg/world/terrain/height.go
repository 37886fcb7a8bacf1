package terrain

import (
	"fmt"
	"math"

	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// CornerKind classifies a corner by the tiles that share it.
type CornerKind uint8

const (
	CornerLand CornerKind = iota
	// CornerShore touches both water and land tiles.
	CornerShore
	// CornerWater touches only water tiles.
	CornerWater
)

var cornerKindNames = [...]string{CornerLand: "land", CornerShore: "shore", CornerWater: "water"}

func (k CornerKind) String() string {
	if int(k) < len(cornerKindNames) {
		return cornerKindNames[k]
	}
	return fmt.Sprintf("corner(%d)", uint8(k))
}

func (k CornerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CornerKind) UnmarshalText(text []byte) error {
	for i, name := range cornerKindNames {
		if name == string(text) {
			*k = CornerKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown corner kind %q", text)
}

// CornerGrid holds integer heights at the (Width+1) x (Height+1) tile corners.
type CornerGrid struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Heights []int        `json:"heights"`
	Kinds   []CornerKind `json:"kinds"`
	// Pinned corners are water or water-adjacent and are never smoothed.
	Pinned []bool `json:"pinned"`
	// Shallow corners have only beach land around their water.
	Shallow []bool `json:"shallow"`
}

// NewCornerGrid allocates the corner grid of a tileW x tileH map.
func NewCornerGrid(tileW, tileH int) *CornerGrid {
	n := (tileW + 1) * (tileH + 1)
	return &CornerGrid{
		Width:   tileW + 1,
		Height:  tileH + 1,
		Heights: make([]int, n),
		Kinds:   make([]CornerKind, n),
		Pinned:  make([]bool, n),
		Shallow: make([]bool, n),
	}
}

func (g *CornerGrid) inBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.Width && cy < g.Height
}

func (g *CornerGrid) index(cx, cy int) int {
	return cy*g.Width + cx
}

// At returns the height of corner (cx, cy), or 0 out of bounds.
func (g *CornerGrid) At(cx, cy int) int {
	if !g.inBounds(cx, cy) {
		return 0
	}
	return g.Heights[g.index(cx, cy)]
}

// Kind returns the kind of corner (cx, cy).
func (g *CornerGrid) Kind(cx, cy int) CornerKind {
	if !g.inBounds(cx, cy) {
		return CornerLand
	}
	return g.Kinds[g.index(cx, cy)]
}

// IsPinned reports whether corner (cx, cy) is water or water-adjacent.
func (g *CornerGrid) IsPinned(cx, cy int) bool {
	return g.inBounds(cx, cy) && g.Pinned[g.index(cx, cy)]
}

// IsShallow reports whether corner (cx, cy) sits on a beach-only shore.
func (g *CornerGrid) IsShallow(cx, cy int) bool {
	return g.inBounds(cx, cy) && g.Shallow[g.index(cx, cy)]
}

// TileCorners returns the NW, NE, SW, SE corner heights of tile (x, y).
func (g *CornerGrid) TileCorners(x, y int) [4]int {
	return [4]int{g.At(x, y), g.At(x+1, y), g.At(x, y+1), g.At(x+1, y+1)}
}

// minShoreCorner returns the lowest shore corner of tile (x, y), or the lowest
// corner when none of them touches water.
func (g *CornerGrid) minShoreCorner(x, y int) int {
	lowest, lowestShore := math.MaxInt, math.MaxInt
	for _, c := range [4]Point{{x, y}, {x + 1, y}, {x, y + 1}, {x + 1, y + 1}} {
		h := g.At(c.X, c.Y)
		lowest = min(lowest, h)
		if g.Kind(c.X, c.Y) == CornerShore {
			lowestShore = min(lowestShore, h)
		}
	}
	if lowestShore != math.MaxInt {
		return lowestShore
	}
	return lowest
}

// TileHeight converts a tile's elevation to its integer height. Water is 0.
func TileHeight(t *Tile, level float64, maxHeight int) int {
	if t.IsWater() {
		return 0
	}
	v := (t.Elevation - level) / (1 - level)
	v = math.Max(0, math.Min(1, v))
	return int(math.Round(v * float64(maxHeight)))
}

// MarkShoreline sets IsWaterEdge on land touching water and IsShallowWaterEdge on
// the sand part of it.
func MarkShoreline(m *Map) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			t.IsWaterEdge = !t.IsWater() && m.TouchesWater(x, y)
			t.IsShallowWaterEdge = t.IsWaterEdge && t.Biome == tiles.BiomeSand
		}
	}
}

// DeriveCorners builds the corner grid of m. Corners average their land tiles.
// Shore corners are floored at CliffMinHeight unless their land is all beach, water
// corners are 0, and corners next to a water corner get WaterAdjacentMinHeight.
func DeriveCorners(m *Map, opts Options) *CornerGrid {
	opts = opts.withDefaults()
	level := opts.WaterLevel()
	MarkShoreline(m)

	g := NewCornerGrid(m.Width, m.Height)
	for cy := 0; cy < g.Height; cy++ {
		for cx := 0; cx < g.Width; cx++ {
			sum, land, water := 0, 0, 0
			shallow := true
			for _, d := range [4]Point{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
				t := m.At(cx+d.X, cy+d.Y)
				if t == nil {
					continue
				}
				if t.IsWater() {
					water++
					continue
				}
				land++
				sum += TileHeight(t, level, opts.MaxHeight)
				if !t.IsShallowWaterEdge {
					shallow = false
				}
			}
			i := g.index(cx, cy)
			switch {
			case land == 0:
				g.Kinds[i] = CornerWater
				g.Pinned[i] = true
			case water == 0:
				g.Kinds[i] = CornerLand
				g.Heights[i] = roundDiv(sum, land)
			default:
				g.Kinds[i] = CornerShore
				g.Pinned[i] = true
				g.Shallow[i] = shallow
				h := roundDiv(sum, land)
				if !shallow {
					h = max(h, opts.CliffMinHeight)
				}
				g.Heights[i] = h
			}
		}
	}

	for cy := 0; cy < g.Height; cy++ {
		for cx := 0; cx < g.Width; cx++ {
			i := g.index(cx, cy)
			if g.Kinds[i] == CornerWater {
				continue
			}
			for _, d := range cardinals {
				if g.inBounds(cx+d.X, cy+d.Y) && g.Kind(cx+d.X, cy+d.Y) == CornerWater {
					g.Pinned[i] = true
					if !g.Shallow[i] {
						g.Heights[i] = max(g.Heights[i], opts.WaterAdjacentMinHeight)
					}
					break
				}
			}
		}
	}
	return g
}

// SmoothStats counts the corners Smooth changed.
type SmoothStats struct {
	Pulled  int `json:"pulled"`
	Relaxed int `json:"relaxed"`
}

// Smooth pulls free corners halfway toward their cardinal mean when they stray more
// than SmoothClamp from it, then lowers free corners until no two adjacent free
// corners differ by more than SmoothClamp. Pinned corners never move.
func Smooth(g *CornerGrid, opts Options) SmoothStats {
	opts = opts.withDefaults()
	clamp := opts.SmoothClamp
	var stats SmoothStats

	next := make([]int, len(g.Heights))
	for pass := 0; pass < opts.SmoothPasses; pass++ {
		copy(next, g.Heights)
		for cy := 0; cy < g.Height; cy++ {
			for cx := 0; cx < g.Width; cx++ {
				i := g.index(cx, cy)
				if g.Pinned[i] {
					continue
				}
				sum, n := 0, 0
				for _, d := range cardinals {
					if g.inBounds(cx+d.X, cy+d.Y) {
						sum += g.At(cx+d.X, cy+d.Y)
						n++
					}
				}
				if n == 0 {
					continue
				}
				mean := float64(sum) / float64(n)
				h := float64(g.Heights[i])
				if math.Abs(h-mean) > float64(clamp) {
					next[i] = int(math.Round((h + mean) / 2))
					stats.Pulled++
				}
			}
		}
		g.Heights, next = next, g.Heights
	}

	for changed := true; changed; {
		changed = false
		for cy := 0; cy < g.Height; cy++ {
			for cx := 0; cx < g.Width; cx++ {
				i := g.index(cx, cy)
				if g.Pinned[i] {
					continue
				}
				for _, d := range cardinals {
					nx, ny := cx+d.X, cy+d.Y
					if !g.inBounds(nx, ny) || g.IsPinned(nx, ny) {
						continue
					}
					if limit := g.At(nx, ny) + clamp; g.Heights[i] > limit {
						g.Heights[i] = limit
						stats.Relaxed++
						changed = true
					}
				}
			}
		}
	}
	return stats
}

// ApplyTileHeights sets each land tile's Z to the rounded mean of its corners.
func ApplyTileHeights(m *Map, g *CornerGrid) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			if t.IsWater() {
				t.Z = 0
				continue
			}
			c := g.TileCorners(x, y)
			t.Z = roundDiv(c[0]+c[1]+c[2]+c[3], 4)
		}
	}
}

// roundDiv divides non-negative a by b rounding half up.
func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (2*a + b) / (2 * b)
}
