package terrain

import (
	"math"
	"sort"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

const (
	saltOcean     = 0x6f6365616e
	saltOceanEdge = 0x65646765
	oceanChance   = 0.30

	lakeJitter     = 0.6
	pondJitter     = 0.3
	riverNoise     = 0.04
	riverWidenStep = 4
	riverSamples   = 24
)

var edgeNames = [4]string{"north", "east", "south", "west"}

// carveOcean floods a jittered band along one map edge, chosen by the seed.
func (p *waterPlanner) carveOcean() {
	seed := p.opts.Seed
	if noise.SeedRoll(seed, saltOcean) >= oceanChance {
		return
	}
	edge := int(noise.SeedRoll(seed, saltOceanEdge) * 4)
	m := p.m
	length, span := m.Width, m.Height
	if edge == 1 || edge == 3 {
		length, span = m.Height, m.Width
	}
	base := max(2, min(m.Width, m.Height)/6)
	depth := make([]int, length)
	deepest := 0
	for i := range depth {
		j := p.jitter.Noise2D(float64(i)*0.15, 7.31)
		d := base + int(math.Round(j*float64(base)/2))
		depth[i] = min(max(d, 1), span)
		deepest = max(deepest, depth[i])
	}
	p.stats.OceanEdge = edgeNames[edge]

	// Layer by layer so a truncated ocean is still an even strip.
	for d := 0; d < deepest; d++ {
		for i := 0; i < length; i++ {
			if d >= depth[i] {
				continue
			}
			var x, y int
			switch edge {
			case 0:
				x, y = i, d
			case 1:
				x, y = m.Width-1-d, i
			case 2:
				x, y = i, m.Height-1-d
			default:
				x, y = d, i
			}
			if !p.flood(x, y, tiles.WaterOcean) {
				p.log.Debug("ocean truncated by budget", "edge", edgeNames[edge], "layer", d)
				return
			}
		}
	}
}

func (p *waterPlanner) lakeCount() int {
	switch p.budget.Tier {
	case 0:
		return 1
	case 1:
		return p.rng.Range(1, 2)
	case 2:
		return p.rng.Range(2, 3)
	default:
		return 3
	}
}

func (p *waterPlanner) carveLakes() {
	n := p.lakeCount()
	limit := float64(min(p.m.Width, p.m.Height)) / 4
	for k := 0; k < n; k++ {
		if p.budget.Remaining <= 0 {
			return
		}
		share := float64(p.budget.Remaining) / float64(n-k)
		feasible := math.Sqrt(share / math.Pi)
		r := feasible * p.rng.FloatRange(0.6, 1.0)
		r = math.Max(1.5, math.Min(r, limit))
		if p.carveBlob(r, lakeJitter, float64(k)*17.3, tiles.WaterLake) {
			p.stats.Lakes++
		}
	}
}

func (p *waterPlanner) carvePonds() {
	n := p.rng.Range(3, 8)
	for k := 0; k < n; k++ {
		if p.budget.Remaining <= 0 {
			return
		}
		feasible := math.Sqrt(float64(p.budget.Remaining) / float64(n-k) / math.Pi)
		r := math.Max(1.0, math.Min(p.rng.FloatRange(1.0, 2.5), feasible))
		if p.carveBlob(r, pondJitter, 101.9+float64(k)*5.7, tiles.WaterPond) {
			p.stats.Ponds++
		}
	}
}

// carveBlob floods a noisy disc of radius r around a random center, nearest cells
// first, then fills notches along its rim. It reports whether any cell was carved.
func (p *waterPlanner) carveBlob(r, jitter, phase float64, wt tiles.WaterType) bool {
	m := p.m
	margin := int(math.Ceil(r))
	cx := p.rng.Range(min(margin, m.Width-1), max(m.Width-1-margin, min(margin, m.Width-1)))
	cy := p.rng.Range(min(margin, m.Height-1), max(m.Height-1-margin, min(margin, m.Height-1)))

	type cell struct {
		p    Point
		dist float64
	}
	var cells []cell
	reach := margin + 1
	for y := cy - reach; y <= cy+reach; y++ {
		for x := cx - reach; x <= cx+reach; x++ {
			if !m.InBounds(x, y) {
				continue
			}
			dist := math.Hypot(float64(x-cx), float64(y-cy))
			edge := r + p.jitter.Noise2D(float64(x)*0.35+phase, float64(y)*0.35)*jitter
			if dist <= edge {
				cells = append(cells, cell{Point{x, y}, dist})
			}
		}
	}
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].dist < cells[j].dist })

	carved := false
	for _, c := range cells {
		wasWater := m.IsWater(c.p.X, c.p.Y)
		if !p.flood(c.p.X, c.p.Y, wt) {
			break
		}
		carved = carved || !wasWater
	}
	p.fillNotches(cx-reach-1, cy-reach-1, cx+reach+1, cy+reach+1, wt)
	return carved
}

// fillNotches floods land cells inside the box that have 3 or more water cardinals.
func (p *waterPlanner) fillNotches(x0, y0, x1, y1 int, wt tiles.WaterType) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !p.m.IsLand(x, y) || p.m.waterCardinals(x, y) < 3 {
				continue
			}
			if !p.flood(x, y, wt) {
				return
			}
		}
	}
}

func (p *waterPlanner) carveRivers() {
	n := p.rng.Intn(3)
	for k := 0; k < n; k++ {
		if p.budget.Remaining <= 0 {
			return
		}
		start, ok := p.riverSource()
		if !ok {
			return
		}
		if p.walkRiver(start, k) > 0 {
			p.stats.Rivers++
		}
	}
}

// riverSource samples land cells and returns the highest.
func (p *waterPlanner) riverSource() (Point, bool) {
	m := p.m
	var best Point
	found := false
	bestE := -1.0
	for i := 0; i < riverSamples; i++ {
		x, y := p.rng.Intn(m.Width), p.rng.Intn(m.Height)
		t := m.At(x, y)
		if t.IsWater() || m.TouchesWater(x, y) {
			continue
		}
		if t.Elevation > bestE {
			best, bestE, found = Point{x, y}, t.Elevation, true
		}
	}
	return best, found
}

// walkRiver carves a downhill path from start and returns the number of tiles carved.
func (p *waterPlanner) walkRiver(start Point, k int) int {
	m := p.m
	own := map[Point]bool{}
	cur := start
	carved := 0
	for step := 0; step < m.Width+m.Height; step++ {
		if !p.flood(cur.X, cur.Y, tiles.WaterRiver) {
			break
		}
		own[cur] = true
		carved++

		if p.touchesForeignWater(cur, own) {
			break
		}

		next, ok := Point{}, false
		bestScore := math.Inf(1)
		for _, d := range neighbors8 {
			n := Point{cur.X + d.X, cur.Y + d.Y}
			if !m.InBounds(n.X, n.Y) || own[n] {
				continue
			}
			score := m.At(n.X, n.Y).Elevation +
				riverNoise*p.jitter.Noise2D(float64(n.X)*0.5, float64(n.Y)*0.5+float64(k)*31)
			if score < bestScore {
				next, bestScore, ok = n, score, true
			}
		}
		if !ok {
			break
		}

		if (step+1)%riverWidenStep == 0 {
			side := Point{cur.X - (next.Y - cur.Y), cur.Y + (next.X - cur.X)}
			if m.InBounds(side.X, side.Y) && !own[side] && !m.IsWater(side.X, side.Y) {
				if !p.flood(side.X, side.Y, tiles.WaterRiver) {
					break
				}
				own[side] = true
				carved++
			}
		}
		cur = next
	}
	return carved
}

func (p *waterPlanner) touchesForeignWater(c Point, own map[Point]bool) bool {
	for _, d := range neighbors8 {
		n := Point{c.X + d.X, c.Y + d.Y}
		if !own[n] && p.m.IsWater(n.X, n.Y) {
			return true
		}
	}
	return false
}
