package terrain

import (
	"log/slog"
	"sort"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// WaterStats summarizes one water planning run.
type WaterStats struct {
	Budget WaterBudget `json:"budget"`

	WaterTiles int `json:"water_tiles"`
	Ocean      int `json:"ocean"`
	Lake       int `json:"lake"`
	Pond       int `json:"pond"`
	River      int `json:"river"`

	OceanEdge string `json:"ocean_edge,omitempty"`
	Lakes     int    `json:"lakes"`
	Ponds     int    `json:"ponds"`
	Rivers    int    `json:"rivers"`

	Trimmed         int `json:"trimmed"`
	PocketsFilled   int `json:"pockets_filled"`
	PocketsBreached int `json:"pockets_breached"`
	Surrounded      int `json:"surrounded"`
	BeachTiles      int `json:"beach_tiles"`
}

type waterPlanner struct {
	m      *Map
	budget *WaterBudget
	rng    *noise.Rand
	jitter *noise.Field
	opts   Options
	level  float64
	log    *slog.Logger
	stats  WaterStats
}

// PlanWater carves water bodies into m under budget. Every random choice draws from
// rng or jitter; budget.Remaining never drops below zero.
func PlanWater(m *Map, budget *WaterBudget, rng *noise.Rand, jitter *noise.Field, opts Options, log *slog.Logger) WaterStats {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	opts = opts.withDefaults()
	p := &waterPlanner{
		m:      m,
		budget: budget,
		rng:    rng,
		jitter: jitter,
		opts:   opts,
		level:  opts.WaterLevel(),
		log:    log,
	}

	if len(m.Tiles) == 0 {
		p.stats.Budget = *budget
		return p.stats
	}

	p.fitExisting()
	p.carveOcean()
	p.carveLakes()
	p.carvePonds()
	p.carveRivers()
	p.repairEnclosedLand()
	p.fillSurrounded()
	p.typeWater()
	p.placeBeaches()

	p.stats.Budget = *budget
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if !t.IsWater() {
			continue
		}
		p.stats.WaterTiles++
		switch t.WaterType {
		case tiles.WaterOcean:
			p.stats.Ocean++
		case tiles.WaterLake:
			p.stats.Lake++
		case tiles.WaterPond:
			p.stats.Pond++
		case tiles.WaterRiver:
			p.stats.River++
		}
	}
	return p.stats
}

// flood turns (x, y) into water of type wt. It reports false only when the cell is
// land and the budget is exhausted. Existing water is retyped when untyped and costs
// nothing.
func (p *waterPlanner) flood(x, y int, wt tiles.WaterType) bool {
	t := p.m.At(x, y)
	if t == nil {
		return true
	}
	if t.IsWater() {
		if t.WaterType == tiles.WaterNone {
			t.WaterType = wt
		}
		return true
	}
	if !p.budget.Take() {
		return false
	}
	t.Biome = tiles.BiomeWater
	t.WaterType = wt
	return true
}

// drain reverts a water cell to sand and returns its tile to the budget.
func (p *waterPlanner) drain(t *Tile) {
	t.Biome = tiles.BiomeSand
	t.WaterType = tiles.WaterNone
	if t.Elevation < p.level {
		t.Elevation = p.level
	}
	p.budget.Give(1)
}

// fitExisting charges classifier water against the cap and raises the highest
// excess water cells back to land.
func (p *waterPlanner) fitExisting() {
	cells := p.m.WaterCells()
	p.budget.Remaining = p.budget.TileCountCap - len(cells)
	if p.budget.Remaining >= 0 {
		return
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return p.m.At(cells[i].X, cells[i].Y).Elevation > p.m.At(cells[j].X, cells[j].Y).Elevation
	})
	excess := -p.budget.Remaining
	p.budget.Remaining = 0
	for _, c := range cells[:excess] {
		t := p.m.At(c.X, c.Y)
		t.Biome = tiles.BiomeSand
		t.WaterType = tiles.WaterNone
		if t.Elevation < p.level {
			t.Elevation = p.level
		}
	}
	p.stats.Trimmed = excess
	p.log.Debug("trimmed classifier water", "excess", excess, "cap", p.budget.TileCountCap)
}

// typeWater assigns a type to water that no feature claimed. A component touching a
// typed body inherits its type; otherwise it is ocean when it reaches the map edge
// and lake when it does not.
func (p *waterPlanner) typeWater() {
	m := p.m
	seen := make([]bool, len(m.Tiles))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := m.Index(x, y)
			t := &m.Tiles[i]
			if seen[i] || !t.IsWater() || t.WaterType != tiles.WaterNone {
				continue
			}
			var comp []int
			edge := false
			inherit := tiles.WaterNone
			queue := []Point{{x, y}}
			seen[i] = true
			for len(queue) > 0 {
				c := queue[0]
				queue = queue[1:]
				comp = append(comp, m.Index(c.X, c.Y))
				if m.OnEdge(c.X, c.Y) {
					edge = true
				}
				for _, d := range cardinals {
					nx, ny := c.X+d.X, c.Y+d.Y
					n := m.At(nx, ny)
					if n == nil || !n.IsWater() {
						continue
					}
					if n.WaterType != tiles.WaterNone {
						if inherit == tiles.WaterNone {
							inherit = n.WaterType
						}
						continue
					}
					ni := m.Index(nx, ny)
					if !seen[ni] {
						seen[ni] = true
						queue = append(queue, Point{nx, ny})
					}
				}
			}
			wt := inherit
			if wt == tiles.WaterNone {
				wt = tiles.WaterLake
				if edge {
					wt = tiles.WaterOcean
				}
			}
			for _, ci := range comp {
				m.Tiles[ci].WaterType = wt
			}
		}
	}
}

var beachChance = map[tiles.WaterType]float64{
	tiles.WaterOcean: 0.85,
	tiles.WaterLake:  0.60,
	tiles.WaterRiver: 0.25,
	tiles.WaterPond:  0.20,
}

// placeBeaches converts shoreline land to sand with a probability set by the
// strongest adjacent water type. Rock and dirt shores stay as they are.
func (p *waterPlanner) placeBeaches() {
	m := p.m
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			switch t.Biome {
			case tiles.BiomeWater, tiles.BiomeSand, tiles.BiomeRock, tiles.BiomeDirt:
				continue
			}
			best := 0.0
			for _, d := range neighbors8 {
				n := m.At(x+d.X, y+d.Y)
				if n != nil && n.IsWater() && beachChance[n.WaterType] > best {
					best = beachChance[n.WaterType]
				}
			}
			if best == 0 {
				continue
			}
			if p.rng.Chance(best) {
				t.Biome = tiles.BiomeSand
				p.stats.BeachTiles++
			}
		}
	}
}
