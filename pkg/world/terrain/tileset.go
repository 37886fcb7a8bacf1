package terrain

import (
	"log/slog"

	"github.com/ojrac/opensimplex-go"

	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

const (
	regionScale = 1.0 / 24
	detailScale = 0.5
)

// TileSelector picks a concrete tile id for a biome at a position. Large-scale
// noise chooses the variant set so neighboring cells share a look; the tile inside
// the set alternates by parity or by fine noise.
type TileSelector struct {
	catalog  *tiles.Catalog
	regional opensimplex.Noise
	detail   opensimplex.Noise
	log      *slog.Logger
}

// NewTileSelector returns a selector over catalog. A nil catalog uses tiles.DefaultCatalog.
func NewTileSelector(seed int64, catalog *tiles.Catalog, log *slog.Logger) *TileSelector {
	if catalog == nil {
		catalog = tiles.DefaultCatalog()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TileSelector{
		catalog:  catalog,
		regional: opensimplex.NewNormalized(seed),
		detail:   opensimplex.NewNormalized(seed + 1),
		log:      log,
	}
}

// SelectTile returns the tile for biome b at (x, y). Biomes without variant sets get
// their canonical tile, and biomes without one get the grass canonical tile.
func (s *TileSelector) SelectTile(b tiles.Biome, x, y int) tiles.TileID {
	sets := s.catalog.Sets(b)
	if len(sets) == 0 {
		return s.fallback(b)
	}
	set := sets[pick(s.regional.Eval2(float64(x)*regionScale, float64(y)*regionScale), len(sets))]
	if len(set.Tiles) == 0 {
		return s.fallback(b)
	}
	if len(set.Tiles) == 4 {
		return set.Tiles[(y&1)*2+(x&1)]
	}
	return set.Tiles[pick(s.detail.Eval2(float64(x)*detailScale, float64(y)*detailScale), len(set.Tiles))]
}

func (s *TileSelector) fallback(b tiles.Biome) tiles.TileID {
	if id, ok := s.catalog.Canonical(b); ok {
		return id
	}
	if id, ok := s.catalog.Canonical(tiles.BiomeGrass); ok {
		s.log.Debug("no tiles for biome, using grass", "biome", b)
		return id
	}
	return tiles.GrassBase
}

// Apply assigns a tile id to every cell of m.
func (s *TileSelector) Apply(m *Map) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			t.TileID = s.SelectTile(t.Biome, x, y)
		}
	}
}

// pick maps v in [0,1) to an index in [0, n).
func pick(v float64, n int) int {
	i := int(v * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
