package terrain

import (
	"log/slog"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

const saltTransitionPick = 0x7472616e73

// TransitionStats counts what ApplyTransitions did.
type TransitionStats struct {
	Transitions int `json:"transitions"`
	ForcedPure  int `json:"forced_pure"`
	Fallbacks   int `json:"fallbacks"`
	Unmapped    int `json:"unmapped"`
	Stamps      int `json:"stamps"`
}

// TransitionEngine rewrites tiles on biome boundaries with bitmask-selected
// transition art, and places embankments on steep water edges.
type TransitionEngine struct {
	mapping *tiles.TransitionMapping
	catalog *tiles.Catalog
	seed    int64
	log     *slog.Logger
}

// NewTransitionEngine returns an engine over mapping and catalog. A nil mapping is
// valid and leaves every tile as selected.
func NewTransitionEngine(seed int64, mapping *tiles.TransitionMapping, catalog *tiles.Catalog, log *slog.Logger) *TransitionEngine {
	if catalog == nil {
		catalog = tiles.DefaultCatalog()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TransitionEngine{mapping: mapping, catalog: catalog, seed: seed, log: log}
}

// Bitmask returns the cardinal bitmask of (x, y) against other: N=1, E=2, S=4, W=8.
func Bitmask(m *Map, x, y int, other tiles.Biome) uint8 {
	var mask uint8
	for i, d := range cardinals {
		if n := m.At(x+d.X, y+d.Y); n != nil && n.Biome == other {
			mask |= 1 << i
		}
	}
	return mask
}

// forcedPure reports whether the cell must stay pure regardless of its neighbors.
// Sand along water reads as beach; a rim toward a third biome breaks the shoreline.
func forcedPure(m *Map, x, y int) bool {
	t := m.At(x, y)
	return t.Biome == tiles.BiomeSand && m.TouchesWater(x, y)
}

// CellBitmask returns the bitmask ApplyTransitions uses for (x, y): the first other
// biome in priority order with a non-zero mask, zeroed for forced-pure cells.
func (e *TransitionEngine) CellBitmask(m *Map, x, y int) (tiles.Biome, uint8) {
	t := m.At(x, y)
	if t == nil {
		return tiles.BiomeNone, 0
	}
	for _, other := range e.mapping.Others(t.Biome) {
		mask := Bitmask(m, x, y, other)
		if mask == 0 {
			continue
		}
		if forcedPure(m, x, y) {
			return other, 0
		}
		return other, mask
	}
	return tiles.BiomeNone, 0
}

type stampPlacement struct {
	at    Point
	from  tiles.Biome
	stamp tiles.Stamp
}

// ApplyTransitions rewrites boundary cells of m. Lookup goes exact bitmask, then
// bitmask 0, then leaves the tile unchanged.
func (e *TransitionEngine) ApplyTransitions(m *Map) TransitionStats {
	var stats TransitionStats
	if e.mapping.Len() == 0 {
		e.log.Debug("no transition mapping, keeping selected tiles")
		return stats
	}

	var stamps []stampPlacement
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			other, mask := e.CellBitmask(m, x, y)
			if other == tiles.BiomeNone {
				continue
			}
			forced := mask == 0
			ids, used, ok := e.mapping.Resolve(t.Biome, other, mask)
			if !ok {
				stats.Unmapped++
				continue
			}
			switch {
			case forced:
				stats.ForcedPure++
			case used != mask:
				stats.Fallbacks++
				e.log.Debug("transition fallback to pure", "from", t.Biome, "to", other, "mask", mask, "x", x, "y", y)
			}
			t.TileID = ids[noise.Hash2(e.seed^saltTransitionPick, x, y)%uint64(len(ids))]
			t.Bitmask = used
			t.IsTransition = used != 0
			if !t.IsTransition {
				continue
			}
			stats.Transitions++
			if s, ok := e.mapping.Stamp(t.Biome, other, used); ok {
				if s[4] != 0 {
					t.TileID = s[4]
				}
				stamps = append(stamps, stampPlacement{at: Point{x, y}, from: t.Biome, stamp: s})
			}
		}
	}

	// Outer stamp positions only paint over pure cells of the same biome.
	for _, sp := range stamps {
		for i, id := range sp.stamp {
			if i == 4 || id == 0 {
				continue
			}
			n := m.At(sp.at.X+i%3-1, sp.at.Y+i/3-1)
			if n == nil || n.Biome != sp.from || n.IsTransition {
				continue
			}
			n.TileID = id
		}
		stats.Stamps++
	}
	return stats
}
