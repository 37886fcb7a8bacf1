package terrain

import (
	"log/slog"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// StaticCategory groups decorative props.
type StaticCategory string

const (
	CategoryTree  StaticCategory = "tree"
	CategoryRock  StaticCategory = "rock"
	CategoryPlant StaticCategory = "plant"
)

// WaterEdgeProfile is the placer biome of unclassified land next to water.
const WaterEdgeProfile = "water_edge"

// StaticObject is one placed decorative prop.
type StaticObject struct {
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Z         int            `json:"z"`
	GraphicID string         `json:"graphic_id"`
	Biome     string         `json:"biome"`
	Category  StaticCategory `json:"category"`
}

// StaticProp is a weighted graphic within a category.
type StaticProp struct {
	GraphicID string
	Weight    int
}

// CategoryWeight is a weighted category with its props.
type CategoryWeight struct {
	Category StaticCategory
	Weight   int
	Props    []StaticProp
}

// StaticProfile describes what grows in a placer biome.
type StaticProfile struct {
	Density      float64
	TreeFriendly bool
	Categories   []CategoryWeight
}

// StaticOptions tunes static placement.
type StaticOptions struct {
	DensityMultiplier float64 `json:"density_multiplier"`
	NoiseScale        float64 `json:"noise_scale"`
	// ClusterStrength scales how far cluster noise moves density from 1.
	ClusterStrength float64 `json:"cluster_strength"`
	WaterEdgeRadius int     `json:"water_edge_radius"`
	RoadFactor      float64 `json:"road_factor"`
	RoadTreeChance  float64 `json:"road_tree_chance"`
}

// DefaultStaticOptions returns the placement defaults.
func DefaultStaticOptions() StaticOptions {
	return StaticOptions{
		DensityMultiplier: 1.0,
		NoiseScale:        0.08,
		ClusterStrength:   1.5,
		WaterEdgeRadius:   2,
		RoadFactor:        0.05,
		RoadTreeChance:    0.02,
	}
}

func (o StaticOptions) withDefaults() StaticOptions {
	def := DefaultStaticOptions()
	if o.DensityMultiplier <= 0 {
		o.DensityMultiplier = def.DensityMultiplier
	}
	if o.NoiseScale <= 0 {
		o.NoiseScale = def.NoiseScale
	}
	if o.ClusterStrength <= 0 {
		o.ClusterStrength = def.ClusterStrength
	}
	if o.WaterEdgeRadius <= 0 {
		o.WaterEdgeRadius = def.WaterEdgeRadius
	}
	if o.RoadFactor <= 0 {
		o.RoadFactor = def.RoadFactor
	}
	if o.RoadTreeChance <= 0 {
		o.RoadTreeChance = def.RoadTreeChance
	}
	return o
}

func props(ids ...string) []StaticProp {
	out := make([]StaticProp, len(ids))
	for i, id := range ids {
		out[i] = StaticProp{GraphicID: id, Weight: 1}
	}
	return out
}

// DefaultStaticProfiles returns the built-in profiles keyed by placer biome name.
func DefaultStaticProfiles() map[string]StaticProfile {
	return map[string]StaticProfile{
		tiles.BiomeGrass.String(): {Density: 0.06, TreeFriendly: true, Categories: []CategoryWeight{
			{CategoryTree, 3, []StaticProp{{"oak_small", 3}, {"oak", 1}}},
			{CategoryPlant, 6, props("bush", "flowers", "tall_grass")},
			{CategoryRock, 1, props("pebbles")},
		}},
		tiles.BiomeForest.String(): {Density: 0.22, TreeFriendly: true, Categories: []CategoryWeight{
			{CategoryTree, 8, []StaticProp{{"pine", 3}, {"oak", 2}, {"birch", 1}}},
			{CategoryPlant, 2, props("fern", "mushrooms")},
			{CategoryRock, 1, props("mossy_rock")},
		}},
		tiles.BiomeJungle.String(): {Density: 0.28, TreeFriendly: true, Categories: []CategoryWeight{
			{CategoryTree, 7, props("jungle_tree", "palm", "kapok")},
			{CategoryPlant, 4, props("fern", "vines", "giant_leaf")},
		}},
		tiles.BiomeSand.String(): {Density: 0.03, Categories: []CategoryWeight{
			{CategoryPlant, 3, props("cactus", "dry_bush")},
			{CategoryRock, 2, props("sandstone")},
		}},
		tiles.BiomeRock.String(): {Density: 0.08, Categories: []CategoryWeight{
			{CategoryRock, 8, []StaticProp{{"boulder", 2}, {"rock_pile", 3}}},
			{CategoryPlant, 1, props("lichen")},
		}},
		tiles.BiomeDirt.String(): {Density: 0.04, Categories: []CategoryWeight{
			{CategoryRock, 3, props("stones", "clod")},
			{CategoryPlant, 2, props("dead_bush")},
		}},
		tiles.BiomeSwamp.String(): {Density: 0.12, TreeFriendly: true, Categories: []CategoryWeight{
			{CategoryTree, 3, props("mangrove", "dead_willow")},
			{CategoryPlant, 5, []StaticProp{{"reeds", 3}, {"lily_pad", 1}}},
		}},
		WaterEdgeProfile: {Density: 0.10, TreeFriendly: true, Categories: []CategoryWeight{
			{CategoryTree, 1, props("willow")},
			{CategoryPlant, 6, props("reeds", "cattail")},
			{CategoryRock, 2, props("shore_stone")},
		}},
	}
}

// StaticPlacer scatters decorative props over land.
type StaticPlacer struct {
	profiles map[string]StaticProfile
	catalog  *tiles.Catalog
	opts     StaticOptions
	cluster  *perlin.Perlin
	log      *slog.Logger
}

// NewStaticPlacer returns a placer with the default profiles.
func NewStaticPlacer(seed int64, catalog *tiles.Catalog, opts StaticOptions, log *slog.Logger) *StaticPlacer {
	if catalog == nil {
		catalog = tiles.DefaultCatalog()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &StaticPlacer{
		profiles: DefaultStaticProfiles(),
		catalog:  catalog,
		opts:     opts.withDefaults(),
		cluster:  perlin.NewPerlin(2, 2, 3, seed),
		log:      log,
	}
}

// SetProfile replaces the profile of a placer biome.
func (p *StaticPlacer) SetProfile(name string, prof StaticProfile) {
	p.profiles[name] = prof
}

// Cluster returns the density multiplier at (x, y): above 1 in dense patches,
// below 1 in sparse ones.
func (p *StaticPlacer) Cluster(x, y int) float64 {
	n := p.cluster.Noise2D(float64(x)*p.opts.NoiseScale+0.5, float64(y)*p.opts.NoiseScale+0.5)
	return math.Max(0.1, math.Min(2.5, 1+n*p.opts.ClusterStrength))
}

// profileFor returns the placer biome of (x, y) and whether it has one. Tiles the
// catalog does not describe use their cell biome, or water_edge near water.
func (p *StaticPlacer) profileFor(m *Map, x, y int) (string, tiles.Surface, bool) {
	t := m.At(x, y)
	if info, ok := p.catalog.Info(t.TileID); ok {
		if info.Biome == tiles.BiomeWater && info.Surface == tiles.SurfaceNatural {
			return "", info.Surface, false
		}
		if info.Surface != tiles.SurfaceNatural {
			return t.Biome.String(), info.Surface, true
		}
		return info.Biome.String(), info.Surface, true
	}
	if m.WithinWater(x, y, p.opts.WaterEdgeRadius) {
		return WaterEdgeProfile, tiles.SurfaceNatural, true
	}
	return t.Biome.String(), tiles.SurfaceNatural, true
}

// Place returns the props for m. Every roll draws from rng.
func (p *StaticPlacer) Place(m *Map, rng *noise.Rand) []StaticObject {
	var out []StaticObject
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			if t.IsWater() || t.IsCliff {
				continue
			}
			name, surface, ok := p.profileFor(m, x, y)
			if !ok {
				continue
			}
			prof, ok := p.profiles[name]
			if !ok || len(prof.Categories) == 0 {
				continue
			}
			road := surface == tiles.SurfaceRoad || surface == tiles.SurfaceBridge
			chance := prof.Density * p.opts.DensityMultiplier * p.Cluster(x, y)
			if road {
				chance *= p.opts.RoadFactor
			}
			if !rng.Chance(chance) {
				continue
			}
			cat, ok := pickCategory(prof, rng)
			if !ok {
				continue
			}
			if cat.Category == CategoryTree && road && !rng.Chance(p.opts.RoadTreeChance) {
				continue
			}
			prop, ok := pickProp(cat.Props, rng)
			if !ok {
				continue
			}
			out = append(out, StaticObject{
				X:         x,
				Y:         y,
				Z:         t.Z,
				GraphicID: prop.GraphicID,
				Biome:     name,
				Category:  cat.Category,
			})
		}
	}
	p.log.Debug("placed statics", "count", len(out))
	return out
}

// pickCategory draws a weighted category. Trees are excluded for biomes that are
// not tree-friendly.
func pickCategory(prof StaticProfile, rng *noise.Rand) (CategoryWeight, bool) {
	total := 0
	for _, c := range prof.Categories {
		if c.Category == CategoryTree && !prof.TreeFriendly {
			continue
		}
		total += c.Weight
	}
	if total <= 0 {
		return CategoryWeight{}, false
	}
	roll := rng.Intn(total)
	for _, c := range prof.Categories {
		if c.Category == CategoryTree && !prof.TreeFriendly {
			continue
		}
		if roll < c.Weight {
			return c, true
		}
		roll -= c.Weight
	}
	return CategoryWeight{}, false
}

func pickProp(ps []StaticProp, rng *noise.Rand) (StaticProp, bool) {
	total := 0
	for _, p := range ps {
		total += p.Weight
	}
	if total <= 0 {
		return StaticProp{}, false
	}
	roll := rng.Intn(total)
	for _, p := range ps {
		if roll < p.Weight {
			return p, true
		}
		roll -= p.Weight
	}
	return StaticProp{}, false
}
