package terrain

import (
	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// EmbankmentFlip converts a slope bitmask, whose bits point at the water, into the
// bitmask convention of the embankment art, which is rotated 180 degrees:
// N<->S, E<->W, NE<->SW, SE<->NW. The table is fixed by the art set.
var EmbankmentFlip = map[uint8]uint8{
	0:                             0,
	tiles.MaskN:                   tiles.MaskS,
	tiles.MaskE:                   tiles.MaskW,
	tiles.MaskS:                   tiles.MaskN,
	tiles.MaskW:                   tiles.MaskE,
	tiles.MaskN | tiles.MaskE:     tiles.MaskS | tiles.MaskW,
	tiles.MaskE | tiles.MaskS:     tiles.MaskW | tiles.MaskN,
	tiles.MaskS | tiles.MaskW:     tiles.MaskN | tiles.MaskE,
	tiles.MaskW | tiles.MaskN:     tiles.MaskE | tiles.MaskS,
	tiles.MaskN | tiles.MaskS:     tiles.MaskN | tiles.MaskS,
	tiles.MaskE | tiles.MaskW:     tiles.MaskE | tiles.MaskW,
	tiles.MaskAll &^ tiles.MaskN:  tiles.MaskAll &^ tiles.MaskS,
	tiles.MaskAll &^ tiles.MaskE:  tiles.MaskAll &^ tiles.MaskW,
	tiles.MaskAll &^ tiles.MaskS:  tiles.MaskAll &^ tiles.MaskN,
	tiles.MaskAll &^ tiles.MaskW:  tiles.MaskAll &^ tiles.MaskE,
	tiles.MaskAll:                 tiles.MaskAll,
	tiles.SlopeNE:                 tiles.SlopeSW,
	tiles.SlopeSE:                 tiles.SlopeNW,
	tiles.SlopeSW:                 tiles.SlopeNE,
	tiles.SlopeNW:                 tiles.SlopeSE,
	tiles.SlopeNE | tiles.SlopeSW: tiles.SlopeSW | tiles.SlopeNE,
	tiles.SlopeSE | tiles.SlopeNW: tiles.SlopeNW | tiles.SlopeSE,
	tiles.SlopeNE | tiles.SlopeSE: tiles.SlopeSW | tiles.SlopeNW,
	tiles.SlopeSE | tiles.SlopeSW: tiles.SlopeNW | tiles.SlopeNE,
	tiles.SlopeSW | tiles.SlopeNW: tiles.SlopeNE | tiles.SlopeSE,
	tiles.SlopeNW | tiles.SlopeNE: tiles.SlopeSE | tiles.SlopeSW,
	slopeAll &^ tiles.SlopeNE:     slopeAll &^ tiles.SlopeSW,
	slopeAll &^ tiles.SlopeSE:     slopeAll &^ tiles.SlopeNW,
	slopeAll &^ tiles.SlopeSW:     slopeAll &^ tiles.SlopeNE,
	slopeAll &^ tiles.SlopeNW:     slopeAll &^ tiles.SlopeSE,
	slopeAll:                      slopeAll,
}

const slopeAll = tiles.SlopeNE | tiles.SlopeSE | tiles.SlopeSW | tiles.SlopeNW

// FlipSlope applies EmbankmentFlip. The table covers every mask SlopeBitmask returns;
// anything else maps to 0.
func FlipSlope(mask uint8) uint8 {
	return EmbankmentFlip[mask]
}

// SlopeBitmask returns the water-facing bitmask of (x, y): cardinal water bits when
// any cardinal is water, else the diagonal bits.
func SlopeBitmask(m *Map, x, y int) uint8 {
	var mask uint8
	for i, d := range cardinals {
		if m.IsWater(x+d.X, y+d.Y) {
			mask |= 1 << i
		}
	}
	if mask != 0 {
		return mask
	}
	for i, d := range diagonals {
		if m.IsWater(x+d.X, y+d.Y) {
			mask |= tiles.SlopeNE << i
		}
	}
	return mask
}

// EmbankmentStats counts what ApplyEmbankments did.
type EmbankmentStats struct {
	WaterEdges int `json:"water_edges"`
	Cliffs     int `json:"cliffs"`
	LowShore   int `json:"low_shore"`
	NoArt      int `json:"no_art"`
}

// ApplyEmbankments marks water edges and turns qualifying ones into cliff tiles.
// A cliff needs every shore corner of the tile at or above the cliff minimum, a
// successful roll against EmbankmentProbability and catalog art for the flipped mask.
func (e *TransitionEngine) ApplyEmbankments(m *Map, g *CornerGrid, rng *noise.Rand, opts Options) EmbankmentStats {
	opts = opts.withDefaults()
	var stats EmbankmentStats
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			if t.IsWater() {
				continue
			}
			mask := SlopeBitmask(m, x, y)
			if mask == 0 {
				continue
			}
			t.IsWaterEdge = true
			stats.WaterEdges++
			if t.IsShallowWaterEdge {
				continue
			}
			if g.minShoreCorner(x, y) < opts.CliffMinHeight {
				stats.LowShore++
				continue
			}
			if !rng.Chance(opts.EmbankmentProbability) {
				continue
			}
			ids, ok := e.catalog.Embankment(FlipSlope(mask))
			if !ok {
				stats.NoArt++
				continue
			}
			t.TileID = ids[noise.Hash2(e.seed^saltTransitionPick, x, y)%uint64(len(ids))]
			t.Bitmask = mask
			t.IsCliff = true
			t.IsTransition = false
			stats.Cliffs++
		}
	}
	return stats
}
