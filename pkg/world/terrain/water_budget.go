package terrain

import (
	"math"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
)

const saltWaterTier = 0x74696572

// WaterTier is one weighted entry of the budget roll.
type WaterTier struct {
	Weight     int
	Percentage float64
	Label      string
}

// WaterTiers lists the budget tiers. Weights sum to 100.
var WaterTiers = []WaterTier{
	{Weight: 50, Percentage: 0.10, Label: "sparse"},
	{Weight: 30, Percentage: 0.20, Label: "moderate"},
	{Weight: 15, Percentage: 0.30, Label: "abundant"},
	{Weight: 5, Percentage: 0.40, Label: "flooded"},
}

// WaterBudget caps how many tiles may be water in one run.
// Remaining always equals TileCountCap minus the water currently on the map.
type WaterBudget struct {
	Tier           int     `json:"tier"`
	TierPercentage float64 `json:"tier_percentage"`
	TileCountCap   int     `json:"tile_count_cap"`
	Remaining      int     `json:"remaining"`
	Distribution   string  `json:"distribution"`
}

// SelectWaterBudget picks a tier from the seed alone and sizes the cap for totalTiles.
func SelectWaterBudget(seed int64, totalTiles int) WaterBudget {
	roll := noise.SeedRoll(seed, saltWaterTier) * 100
	idx := len(WaterTiers) - 1
	acc := 0.0
	for i, t := range WaterTiers {
		acc += float64(t.Weight)
		if roll < acc {
			idx = i
			break
		}
	}
	tier := WaterTiers[idx]
	limit := int(math.Floor(float64(totalTiles) * tier.Percentage))
	return WaterBudget{
		Tier:           idx,
		TierPercentage: tier.Percentage,
		TileCountCap:   limit,
		Remaining:      limit,
		Distribution:   tier.Label,
	}
}

// Take reserves one tile. It reports false once the budget is exhausted.
func (b *WaterBudget) Take() bool {
	if b.Remaining <= 0 {
		return false
	}
	b.Remaining--
	return true
}

// Give returns n tiles to the budget after water was reverted to land.
func (b *WaterBudget) Give(n int) {
	b.Remaining += n
	if b.Remaining > b.TileCountCap {
		b.Remaining = b.TileCountCap
	}
}

// Used returns the number of tiles spent.
func (b *WaterBudget) Used() int {
	return b.TileCountCap - b.Remaining
}
