package tiles

import "sort"

// TileID is an opaque art reference. The generator resolves ids but never interprets them.
type TileID int

// Surface describes what a tile depicts beyond its biome.
type Surface uint8

const (
	SurfaceNatural Surface = iota
	SurfaceRoad
	SurfaceBridge
)

// VariantSet is a group of interchangeable tiles that read as one texture.
type VariantSet struct {
	Name  string
	Tiles []TileID
}

// TileInfo is the metadata the catalog keeps for a tile id.
type TileInfo struct {
	Biome   Biome
	Surface Surface
}

// Catalog holds the tile variant sets per biome, the canonical fallback tile per biome,
// per-tile metadata and the embankment tiles keyed by slope bitmask.
type Catalog struct {
	sets        map[Biome][]VariantSet
	canonical   map[Biome]TileID
	info        map[TileID]TileInfo
	embankments map[uint8][]TileID
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		sets:        make(map[Biome][]VariantSet),
		canonical:   make(map[Biome]TileID),
		info:        make(map[TileID]TileInfo),
		embankments: make(map[uint8][]TileID),
	}
}

// AddSet registers a variant set for b. The first id of the first set becomes the
// canonical tile of b unless one was set explicitly.
func (c *Catalog) AddSet(b Biome, name string, ids ...TileID) {
	if len(ids) == 0 {
		return
	}
	c.sets[b] = append(c.sets[b], VariantSet{Name: name, Tiles: append([]TileID(nil), ids...)})
	for _, id := range ids {
		c.Describe(id, b, SurfaceNatural)
	}
	if _, ok := c.canonical[b]; !ok {
		c.canonical[b] = ids[0]
	}
}

// SetCanonical sets the known-safe fallback tile for b.
func (c *Catalog) SetCanonical(b Biome, id TileID) {
	c.canonical[b] = id
	c.Describe(id, b, SurfaceNatural)
}

// Describe records metadata for a tile id that may not belong to any variant set.
func (c *Catalog) Describe(id TileID, b Biome, s Surface) {
	c.info[id] = TileInfo{Biome: b, Surface: s}
}

// AddEmbankment registers embankment tiles for an already flipped slope bitmask.
func (c *Catalog) AddEmbankment(mask uint8, ids ...TileID) {
	c.embankments[mask] = append(c.embankments[mask], ids...)
}

// Sets returns the variant sets of b.
func (c *Catalog) Sets(b Biome) []VariantSet {
	return c.sets[b]
}

// Canonical returns the fallback tile of b.
func (c *Catalog) Canonical(b Biome) (TileID, bool) {
	id, ok := c.canonical[b]
	return id, ok
}

// Info returns the metadata recorded for id.
func (c *Catalog) Info(id TileID) (TileInfo, bool) {
	i, ok := c.info[id]
	return i, ok
}

// Embankment returns the embankment tiles for a flipped slope bitmask.
func (c *Catalog) Embankment(mask uint8) ([]TileID, bool) {
	ids, ok := c.embankments[mask]
	return ids, ok && len(ids) > 0
}

// EmbankmentMasks returns the registered embankment bitmasks in ascending order.
func (c *Catalog) EmbankmentMasks() []uint8 {
	masks := make([]uint8, 0, len(c.embankments))
	for m := range c.embankments {
		masks = append(masks, m)
	}
	sort.Slice(masks, func(i, j int) bool { return masks[i] < masks[j] })
	return masks
}
