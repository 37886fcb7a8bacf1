package terrain

import (
	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// Salts for the position hashes used by classifier rules.
const (
	saltCoastalSand  = 0x636f617374
	saltDesertPocket = 0x646573657274
)

// Sample is the classifier input for one cell.
type Sample struct {
	Elevation float64
	Moisture  float64
	// CoastRoll and DesertRoll are stable per-position values in [0,1).
	CoastRoll  float64
	DesertRoll float64
}

// BiomeRule is one entry of the classification table. Match receives the active
// water level.
type BiomeRule struct {
	Name  string
	Biome tiles.Biome
	Match func(s Sample, level float64) bool
}

// DefaultBiomeRules returns the classification table in priority order.
func DefaultBiomeRules() []BiomeRule {
	return []BiomeRule{
		{Name: "water", Biome: tiles.BiomeWater, Match: func(s Sample, level float64) bool {
			return s.Elevation < level
		}},
		{Name: "coastal-sand", Biome: tiles.BiomeSand, Match: func(s Sample, level float64) bool {
			return s.Elevation < level+0.05 && s.CoastRoll < 0.55
		}},
		{Name: "desert-pocket", Biome: tiles.BiomeSand, Match: func(s Sample, level float64) bool {
			return s.Elevation < level+0.20 && s.Moisture < 0.18 && s.DesertRoll < 0.12
		}},
		{Name: "peak-rock", Biome: tiles.BiomeRock, Match: func(s Sample, _ float64) bool {
			return s.Elevation > 0.80
		}},
		{Name: "highland-dirt", Biome: tiles.BiomeDirt, Match: func(s Sample, _ float64) bool {
			return s.Elevation > 0.70 && s.Moisture < 0.35
		}},
		{Name: "swamp", Biome: tiles.BiomeSwamp, Match: func(s Sample, level float64) bool {
			return s.Elevation < level+0.12 && s.Moisture > 0.72
		}},
		{Name: "jungle", Biome: tiles.BiomeJungle, Match: func(s Sample, _ float64) bool {
			return s.Moisture > 0.70
		}},
		{Name: "forest", Biome: tiles.BiomeForest, Match: func(s Sample, _ float64) bool {
			return s.Moisture > 0.50
		}},
		{Name: "arid-dirt", Biome: tiles.BiomeDirt, Match: func(s Sample, _ float64) bool {
			return s.Moisture < 0.20
		}},
		{Name: "grass", Biome: tiles.BiomeGrass, Match: func(Sample, float64) bool {
			return true
		}},
	}
}

// Classifier maps elevation and moisture to a biome using an ordered rule table.
type Classifier struct {
	seed  int64
	level float64
	rules []BiomeRule
}

// NewClassifier returns a classifier over DefaultBiomeRules.
func NewClassifier(seed int64, waterLevel float64) *Classifier {
	return &Classifier{seed: seed, level: waterLevel, rules: DefaultBiomeRules()}
}

// Rules returns the classification table.
func (c *Classifier) Rules() []BiomeRule {
	return c.rules
}

// WaterLevel returns the elevation cutoff for water.
func (c *Classifier) WaterLevel() float64 {
	return c.level
}

// Sample builds the rule input for (x, y).
func (c *Classifier) Sample(elevation, moisture float64, x, y int) Sample {
	return Sample{
		Elevation:  elevation,
		Moisture:   moisture,
		CoastRoll:  noise.Unit2(c.seed^saltCoastalSand, x, y),
		DesertRoll: noise.Unit2(c.seed^saltDesertPocket, x, y),
	}
}

// Classify returns the biome of the first matching rule; grass when none match.
func (c *Classifier) Classify(elevation, moisture float64, x, y int) tiles.Biome {
	b, _ := c.Match(c.Sample(elevation, moisture, x, y))
	return b
}

// Match evaluates the table against s and returns the winning biome and rule name.
func (c *Classifier) Match(s Sample) (tiles.Biome, string) {
	for _, r := range c.rules {
		if r.Match(s, c.level) {
			return r.Biome, r.Name
		}
	}
	return tiles.BiomeGrass, "grass"
}
