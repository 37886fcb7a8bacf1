package tiles

// Tile id ranges of the built-in art set.
const (
	WaterBase  TileID = 10
	GrassBase  TileID = 100
	ForestBase TileID = 200
	JungleBase TileID = 250
	SandBase   TileID = 300
	RockBase   TileID = 500
	DirtBase   TileID = 550
	SwampBase  TileID = 600

	RoadTile       TileID = 700
	RoadAltTile    TileID = 701
	BridgeTile     TileID = 710
	EmbankmentBase TileID = 800
)

// PureSandCount is how many leading tiles of the sand pool are safe for open sand.
// The rest of the pool has rims that read as transitions when scattered in a field.
const PureSandCount = 4

// SandPool returns the full sand tile pool.
func SandPool() []TileID {
	pool := make([]TileID, 12)
	for i := range pool {
		pool[i] = SandBase + TileID(i)
	}
	return pool
}

func span(base TileID, n int) []TileID {
	ids := make([]TileID, n)
	for i := range ids {
		ids[i] = base + TileID(i)
	}
	return ids
}

// DefaultCatalog returns the catalog of the built-in art set.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.AddSet(BiomeWater, "deep", span(WaterBase, 4)...)
	c.AddSet(BiomeWater, "calm", span(WaterBase+4, 4)...)

	// Grass brushes are curated; 112..115 carry flower clumps that look like seams.
	c.AddSet(BiomeGrass, "meadow", span(GrassBase, 4)...)
	c.AddSet(BiomeGrass, "lush", span(GrassBase+4, 4)...)
	c.AddSet(BiomeGrass, "dry", span(GrassBase+8, 4)...)
	for _, id := range span(GrassBase+12, 4) {
		c.Describe(id, BiomeGrass, SurfaceNatural)
	}

	c.AddSet(BiomeForest, "floor", span(ForestBase, 4)...)
	c.AddSet(BiomeForest, "needles", span(ForestBase+4, 4)...)

	c.AddSet(BiomeJungle, "undergrowth", span(JungleBase, 4)...)
	c.AddSet(BiomeJungle, "moss", span(JungleBase+4, 4)...)

	pool := SandPool()
	c.AddSet(BiomeSand, "pure", pool[:PureSandCount]...)
	for _, id := range pool[PureSandCount:] {
		c.Describe(id, BiomeSand, SurfaceNatural)
	}

	c.AddSet(BiomeRock, "granite", span(RockBase, 4)...)
	c.AddSet(BiomeRock, "slate", span(RockBase+4, 4)...)

	c.AddSet(BiomeDirt, "loam", span(DirtBase, 4)...)
	c.AddSet(BiomeDirt, "clay", span(DirtBase+4, 4)...)

	c.AddSet(BiomeSwamp, "bog", span(SwampBase, 6)...)

	c.Describe(RoadTile, BiomeDirt, SurfaceRoad)
	c.Describe(RoadAltTile, BiomeDirt, SurfaceRoad)
	c.Describe(BridgeTile, BiomeWater, SurfaceBridge)

	for mask := uint8(1); mask < 16; mask++ {
		c.AddEmbankment(mask, EmbankmentBase+TileID(mask))
	}
	for _, mask := range []uint8{SlopeNE, SlopeSE, SlopeSW, SlopeNW} {
		c.AddEmbankment(mask, EmbankmentBase+TileID(mask))
	}
	return c
}

// Pair tile id bases of the built-in transition mapping.
const (
	sandGrassBase   TileID = 1000
	sandForestBase  TileID = 1020
	dirtGrassBase   TileID = 1060
	rockGrassBase   TileID = 1080
	rockDirtBase    TileID = 1100
	swampGrassBase  TileID = 1120
	forestGrassBase TileID = 1140
)

// DefaultMapping returns the built-in transition mapping. Coverage is deliberately
// partial for some pairs; missing bitmasks resolve through the pure entry.
func DefaultMapping() *TransitionMapping {
	m := NewTransitionMapping()

	pureSand := SandPool()[:PureSandCount]
	fullPair(m, BiomeSand, BiomeGrass, sandGrassBase, pureSand)
	m.Set(BiomeSand, BiomeForest, 0, pureSand...)
	for _, mask := range []uint8{MaskN, MaskE, MaskS, MaskW} {
		m.Set(BiomeSand, BiomeForest, mask, sandForestBase+TileID(mask))
	}
	m.Set(BiomeSand, BiomeDirt, 0, pureSand...)

	fullPair(m, BiomeDirt, BiomeGrass, dirtGrassBase, span(DirtBase, 4))
	fullPair(m, BiomeRock, BiomeGrass, rockGrassBase, span(RockBase, 4))
	m.Set(BiomeRock, BiomeDirt, 0, span(RockBase, 4)...)
	for _, mask := range []uint8{MaskN, MaskE, MaskS, MaskW, MaskN | MaskE, MaskE | MaskS, MaskS | MaskW, MaskW | MaskN} {
		m.Set(BiomeRock, BiomeDirt, mask, rockDirtBase+TileID(mask))
	}
	fullPair(m, BiomeSwamp, BiomeGrass, swampGrassBase, span(SwampBase, 4))
	m.Set(BiomeForest, BiomeGrass, 0, span(ForestBase, 4)...)
	for _, mask := range []uint8{MaskN, MaskE, MaskS, MaskW} {
		m.Set(BiomeForest, BiomeGrass, mask, forestGrassBase+TileID(mask))
	}

	m.SetPriority(BiomeSand, BiomeGrass, BiomeForest, BiomeDirt)
	m.SetPriority(BiomeRock, BiomeGrass, BiomeDirt)
	m.SetPriority(BiomeDirt, BiomeGrass)
	m.SetPriority(BiomeSwamp, BiomeGrass)
	m.SetPriority(BiomeForest, BiomeGrass)
	return m
}

func fullPair(m *TransitionMapping, from, to Biome, base TileID, pure []TileID) {
	m.Set(from, to, 0, pure...)
	for mask := uint8(1); mask < 16; mask++ {
		m.Set(from, to, mask, base+TileID(mask))
	}
}
