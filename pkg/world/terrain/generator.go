package terrain

import (
	"log/slog"
	"time"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// Stream salts. Each stage draws from its own stream so changing one stage does not
// shift the rolls of the others.
const (
	saltWater   = 1
	saltEmbank  = 2
	saltStatics = 3
	saltJitter  = 0x6a6974
)

// World is the finished output of one run. It is never mutated after Generate
// returns and may be shared between readers.
type World struct {
	Seed        int64           `json:"seed"`
	Options     Options         `json:"options"`
	Map         *Map            `json:"map"`
	Corners     *CornerGrid     `json:"corners"`
	Statics     []StaticObject  `json:"statics"`
	Water       WaterStats      `json:"water"`
	Transitions TransitionStats `json:"transitions"`
	Embankments EmbankmentStats `json:"embankments"`
}

// Generator runs the synthesis pipeline. It owns every noise field the run uses; all
// randomness is derived from Options.Seed.
type Generator struct {
	opts    Options
	catalog *tiles.Catalog
	mapping *tiles.TransitionMapping
	log     *slog.Logger

	elevation *noise.Field
	moisture  *noise.Field
	jitter    *noise.Field
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithCatalog sets the tile catalog.
func WithCatalog(c *tiles.Catalog) GeneratorOption {
	return func(g *Generator) { g.catalog = c }
}

// WithMapping sets the transition mapping. nil disables transitions.
func WithMapping(m *tiles.TransitionMapping) GeneratorOption {
	return func(g *Generator) { g.mapping = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) { g.log = l }
}

// NewGenerator returns a generator for opts with the built-in catalog and mapping.
func NewGenerator(opts Options, options ...GeneratorOption) *Generator {
	opts = opts.withDefaults()
	g := &Generator{
		opts:    opts,
		catalog: tiles.DefaultCatalog(),
		mapping: tiles.DefaultMapping(),
	}
	for _, o := range options {
		o(g)
	}
	if g.catalog == nil {
		g.catalog = tiles.DefaultCatalog()
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	g.elevation = noise.New(opts.Seed)
	g.moisture = noise.New(opts.Seed + 1)
	g.jitter = noise.New(opts.Seed ^ saltJitter)
	return g
}

// Options returns the defaulted options of the generator.
func (g *Generator) Options() Options {
	return g.opts
}

// Sample returns elevation and moisture in [0,1] at (x, y).
func (g *Generator) Sample(x, y int) (elevation, moisture float64) {
	o := g.opts
	e := g.elevation.FBM(float64(x)*o.ElevationScale, float64(y)*o.ElevationScale, o.Octaves, o.Lacunarity, o.Persistence)
	mo := g.moisture.FBM(float64(x)*o.MoistureScale, float64(y)*o.MoistureScale, o.Octaves, o.Lacunarity, o.Persistence)
	return noise.Unit(e * o.Contrast), noise.Unit(mo * o.Contrast)
}

// Classify fills the biome layer of a fresh map.
func (g *Generator) Classify() *Map {
	o := g.opts
	c := NewClassifier(o.Seed, o.WaterLevel())
	m := NewMap(o.Width, o.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			t.Elevation, t.Moisture = g.Sample(x, y)
			t.Biome = c.Classify(t.Elevation, t.Moisture, x, y)
		}
	}
	return m
}

// Generate runs every stage and returns the finished world. Two calls with the same
// options produce identical worlds.
func (g *Generator) Generate() *World {
	o := g.opts
	log := g.log.With("seed", o.Seed, "width", o.Width, "height", o.Height)
	start := time.Now()
	base := noise.NewRand(o.Seed, 0)

	m := g.Classify()
	log.Debug("classified", "water", m.CountBiome(tiles.BiomeWater), "elapsed", time.Since(start))

	budget := SelectWaterBudget(o.Seed, o.Width*o.Height)
	water := PlanWater(m, &budget, base.Derive(saltWater), g.jitter, o, log)
	log.Info("planned water",
		"distribution", budget.Distribution,
		"cap", budget.TileCountCap,
		"water", water.WaterTiles,
		"ocean", water.OceanEdge,
		"lakes", water.Lakes,
		"ponds", water.Ponds,
		"rivers", water.Rivers,
		"breached", water.PocketsBreached,
	)

	NewTileSelector(o.Seed, g.catalog, log).Apply(m)

	engine := NewTransitionEngine(o.Seed, g.mapping, g.catalog, log)
	transitions := engine.ApplyTransitions(m)
	log.Debug("applied transitions", "transitions", transitions.Transitions, "fallbacks", transitions.Fallbacks, "forced", transitions.ForcedPure)

	corners := DeriveCorners(m, o)
	smooth := Smooth(corners, o)
	ApplyTileHeights(m, corners)
	log.Debug("derived heights", "pulled", smooth.Pulled, "relaxed", smooth.Relaxed)

	embankments := engine.ApplyEmbankments(m, corners, base.Derive(saltEmbank), o)

	statics := NewStaticPlacer(o.Seed, g.catalog, o.Static, log).Place(m, base.Derive(saltStatics))

	log.Info("generated world",
		"cliffs", embankments.Cliffs,
		"statics", len(statics),
		"elapsed", time.Since(start),
	)
	return &World{
		Seed:        o.Seed,
		Options:     o,
		Map:         m,
		Corners:     corners,
		Statics:     statics,
		Water:       water,
		Transitions: transitions,
		Embankments: embankments,
	}
}

// Generate is a convenience for NewGenerator(opts).Generate().
func Generate(opts Options) *World {
	return NewGenerator(opts).Generate()
}
