package terrain

import (
	"log/slog"
	"math"
	"testing"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

func newTestPlanner(m *Map, budget *WaterBudget) *waterPlanner {
	return &waterPlanner{
		m:      m,
		budget: budget,
		rng:    noise.NewRand(1, 1),
		jitter: noise.New(1),
		opts:   DefaultOptions(),
		level:  DefaultOptions().WaterThreshold,
		log:    slog.New(slog.DiscardHandler),
	}
}

func TestWaterTierWeights(t *testing.T) {
	total := 0
	for _, tier := range WaterTiers {
		total += tier.Weight
	}
	if total != 100 {
		t.Errorf("tier weights sum to %d, want 100", total)
	}
}

func TestSelectWaterBudget(t *testing.T) {
	for _, seed := range testSeeds {
		b := SelectWaterBudget(seed, 400)
		again := SelectWaterBudget(seed, 400)
		if b != again {
			t.Errorf("seed %d: budget %+v then %+v", seed, b, again)
		}
		tier := WaterTiers[b.Tier]
		if b.Distribution != tier.Label || b.TierPercentage != tier.Percentage {
			t.Errorf("seed %d: budget %+v does not match tier %+v", seed, b, tier)
		}
		if want := int(math.Floor(400 * tier.Percentage)); b.TileCountCap != want || b.Remaining != want {
			t.Errorf("seed %d: cap %d remaining %d, want %d", seed, b.TileCountCap, b.Remaining, want)
		}
	}
}

func TestSelectWaterBudgetDistribution(t *testing.T) {
	counts := make([]int, len(WaterTiers))
	const n = 4000
	for seed := int64(0); seed < n; seed++ {
		counts[SelectWaterBudget(seed, 100).Tier]++
	}
	for i, tier := range WaterTiers {
		got := float64(counts[i]) / n * 100
		if math.Abs(got-float64(tier.Weight)) > 4 {
			t.Errorf("tier %s drawn %.1f%%, want about %d%%", tier.Label, got, tier.Weight)
		}
	}
}

func TestWaterBudgetTakeGive(t *testing.T) {
	b := WaterBudget{TileCountCap: 2, Remaining: 2}
	if !b.Take() || !b.Take() {
		t.Fatal("Take failed with budget left")
	}
	if b.Take() {
		t.Error("Take succeeded on an exhausted budget")
	}
	if b.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", b.Remaining)
	}
	b.Give(5)
	if b.Remaining != 2 {
		t.Errorf("Remaining after Give = %d, want cap 2", b.Remaining)
	}
}

func TestPlanWaterBudgetAndEnclosure(t *testing.T) {
	for _, seed := range testSeeds {
		opts := DefaultOptions()
		opts.Seed = seed
		opts.Width, opts.Height = 48, 40
		g := NewGenerator(opts)
		m := g.Classify()
		budget := SelectWaterBudget(seed, opts.Width*opts.Height)
		stats := PlanWater(m, &budget, noise.NewRand(seed, 9), noise.New(seed), opts, nil)

		water := m.CountBiome(tiles.BiomeWater)
		if water > budget.TileCountCap {
			t.Errorf("seed %d: %d water tiles over cap %d", seed, water, budget.TileCountCap)
		}
		if budget.Remaining < 0 {
			t.Errorf("seed %d: remaining %d", seed, budget.Remaining)
		}
		if budget.Remaining != budget.TileCountCap-water {
			t.Errorf("seed %d: remaining %d, cap %d, water %d", seed, budget.Remaining, budget.TileCountCap, water)
		}
		if stats.WaterTiles != water {
			t.Errorf("seed %d: stats report %d water, map has %d", seed, stats.WaterTiles, water)
		}
		if want := SelectWaterBudget(seed, opts.Width*opts.Height).Tier; budget.Tier != want {
			t.Errorf("seed %d: tier %d, want %d", seed, budget.Tier, want)
		}
		if enclosed := EnclosedLand(m); len(enclosed) > 0 {
			t.Errorf("seed %d: %d enclosed land cells, first %v", seed, len(enclosed), enclosed[0])
		}
		for i := range m.Tiles {
			tile := &m.Tiles[i]
			if tile.IsWater() && tile.WaterType == tiles.WaterNone {
				t.Errorf("seed %d: untyped water at index %d", seed, i)
				break
			}
			if !tile.IsWater() && tile.WaterType != tiles.WaterNone {
				t.Errorf("seed %d: land at index %d typed %v", seed, i, tile.WaterType)
				break
			}
		}
	}
}

func TestFillSingleEnclosedCell(t *testing.T) {
	m := gridFromRows(t,
		".....",
		"..~..",
		".~.~.",
		"..~..",
		".....",
	)
	budget := WaterBudget{TileCountCap: 10, Remaining: 6}
	p := newTestPlanner(m, &budget)
	p.repairEnclosedLand()

	if !m.IsWater(2, 2) {
		t.Errorf("center is %v, want water", m.At(2, 2).Biome)
	}
	if budget.Remaining != 5 {
		t.Errorf("Remaining = %d, want 5", budget.Remaining)
	}
	if p.stats.PocketsFilled != 1 {
		t.Errorf("PocketsFilled = %d, want 1", p.stats.PocketsFilled)
	}
}

func TestBreachPocketWithoutBudget(t *testing.T) {
	m := gridFromRows(t,
		".......",
		".~~~~~.",
		".~...~.",
		".~...~.",
		".~...~.",
		".~~~~~.",
		".......",
	)
	budget := WaterBudget{TileCountCap: 16, Remaining: 0}
	p := newTestPlanner(m, &budget)
	p.repairEnclosedLand()

	if enclosed := EnclosedLand(m); len(enclosed) > 0 {
		t.Fatalf("%d cells still enclosed", len(enclosed))
	}
	if p.stats.PocketsBreached != 1 {
		t.Errorf("PocketsBreached = %d, want 1", p.stats.PocketsBreached)
	}
	water := m.CountBiome(tiles.BiomeWater)
	if water != 15 {
		t.Errorf("water = %d, want one ring cell drained", water)
	}
	if budget.Remaining != budget.TileCountCap-water {
		t.Errorf("Remaining = %d, want %d", budget.Remaining, budget.TileCountCap-water)
	}
}

func TestBreachToWaterEdge(t *testing.T) {
	m := gridFromRows(t,
		"~~~~~",
		"~~~~~",
		"~~.~~",
		"~~~~~",
		"~~~~~",
	)
	budget := WaterBudget{TileCountCap: 24, Remaining: 0}
	p := newTestPlanner(m, &budget)
	p.repairEnclosedLand()

	if enclosed := EnclosedLand(m); len(enclosed) > 0 {
		t.Fatalf("%d cells still enclosed", len(enclosed))
	}
	if got := m.CountBiome(tiles.BiomeWater); got != 22 {
		t.Errorf("water = %d, want 22 after draining a two-cell channel", got)
	}
}

func TestFillSurrounded(t *testing.T) {
	m := gridFromRows(t,
		"~~~..",
		"~.~..",
		"~~...",
		".....",
	)
	budget := WaterBudget{TileCountCap: 10, Remaining: 3}
	p := newTestPlanner(m, &budget)
	p.fillSurrounded()
	if !m.IsWater(1, 1) {
		t.Error("cell with 4 water cardinals stayed land")
	}
	if m.IsWater(2, 2) {
		t.Error("cell with 1 water cardinal flooded")
	}
}

func TestFitExistingTrimsHighestWater(t *testing.T) {
	m := gridFromRows(t,
		"~~~~",
		"....",
	)
	for x := 0; x < 4; x++ {
		m.At(x, 0).Elevation = 0.1 * float64(x+1)
	}
	budget := WaterBudget{TileCountCap: 2, Remaining: 2}
	p := newTestPlanner(m, &budget)
	p.fitExisting()

	if got := m.CountBiome(tiles.BiomeWater); got != 2 {
		t.Fatalf("water = %d, want 2", got)
	}
	if !m.IsWater(0, 0) || !m.IsWater(1, 0) {
		t.Error("lowest water cells were trimmed")
	}
	if m.At(3, 0).Biome != tiles.BiomeSand {
		t.Errorf("trimmed cell is %v, want sand", m.At(3, 0).Biome)
	}
	if budget.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", budget.Remaining)
	}
}

func TestTypeWater(t *testing.T) {
	m := gridFromRows(t,
		"~~...",
		".....",
		"..~..",
		".....",
	)
	p := newTestPlanner(m, &WaterBudget{})
	p.typeWater()
	if got := m.At(0, 0).WaterType; got != tiles.WaterOcean {
		t.Errorf("edge water = %v, want ocean", got)
	}
	if got := m.At(2, 2).WaterType; got != tiles.WaterLake {
		t.Errorf("inland water = %v, want lake", got)
	}
}

func TestBeachesSkipRockAndDirt(t *testing.T) {
	m := gridFromRows(t,
		"rrr",
		"r~d",
		"ddd",
	)
	m.At(1, 1).WaterType = tiles.WaterOcean
	p := newTestPlanner(m, &WaterBudget{})
	p.placeBeaches()
	if got := m.CountBiome(tiles.BiomeSand); got != 0 {
		t.Errorf("%d rock/dirt cells became sand", got)
	}
}
