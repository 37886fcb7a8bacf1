package terrain

import "github.com/OCharnyshevich/isoterrain/pkg/world/tiles"

// ReachableLand flood-fills land from every edge cell over 4-connected land and
// returns a per-index reached flag.
func ReachableLand(m *Map) []bool {
	reached := make([]bool, len(m.Tiles))
	var queue []Point
	push := func(x, y int) {
		if !m.IsLand(x, y) {
			return
		}
		i := m.Index(x, y)
		if reached[i] {
			return
		}
		reached[i] = true
		queue = append(queue, Point{x, y})
	}
	for x := 0; x < m.Width; x++ {
		push(x, 0)
		push(x, m.Height-1)
	}
	for y := 0; y < m.Height; y++ {
		push(0, y)
		push(m.Width-1, y)
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range cardinals {
			push(c.X+d.X, c.Y+d.Y)
		}
	}
	return reached
}

// EnclosedLand returns every land cell that cannot reach a map edge over land.
func EnclosedLand(m *Map) []Point {
	reached := ReachableLand(m)
	var out []Point
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := m.Index(x, y)
			if !reached[i] && !m.Tiles[i].IsWater() {
				out = append(out, Point{x, y})
			}
		}
	}
	return out
}

// repairEnclosedLand removes every land pocket with no path to the edge. A pocket
// the budget can cover becomes water; a larger one is connected to the outside by
// draining the shortest water path to reachable land.
func (p *waterPlanner) repairEnclosedLand() {
	m := p.m
	reached := ReachableLand(m)
	seen := make([]bool, len(m.Tiles))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := m.Index(x, y)
			if seen[i] || reached[i] || m.Tiles[i].IsWater() {
				continue
			}
			pocket := p.collectPocket(x, y, seen)
			if len(pocket) <= p.budget.Remaining {
				wt := p.surroundingType(pocket)
				for _, c := range pocket {
					p.flood(c.X, c.Y, wt)
				}
				p.stats.PocketsFilled++
				continue
			}
			p.breach(pocket, reached)
			p.stats.PocketsBreached++
		}
	}
}

func (p *waterPlanner) collectPocket(x, y int, seen []bool) []Point {
	m := p.m
	seen[m.Index(x, y)] = true
	pocket := []Point{{x, y}}
	for k := 0; k < len(pocket); k++ {
		c := pocket[k]
		for _, d := range cardinals {
			nx, ny := c.X+d.X, c.Y+d.Y
			if !m.IsLand(nx, ny) {
				continue
			}
			ni := m.Index(nx, ny)
			if !seen[ni] {
				seen[ni] = true
				pocket = append(pocket, Point{nx, ny})
			}
		}
	}
	return pocket
}

// surroundingType returns the type of the first typed water bordering the pocket.
func (p *waterPlanner) surroundingType(pocket []Point) tiles.WaterType {
	for _, c := range pocket {
		for _, d := range cardinals {
			n := p.m.At(c.X+d.X, c.Y+d.Y)
			if n != nil && n.IsWater() && n.WaterType != tiles.WaterNone {
				return n.WaterType
			}
		}
	}
	return tiles.WaterLake
}

// breach drains the shortest 4-connected water path from the pocket to reachable
// land, or to a water cell on the map edge when no land is reachable. The pocket
// and path are marked reached.
func (p *waterPlanner) breach(pocket []Point, reached []bool) {
	m := p.m
	prev := make(map[int]int, len(pocket))
	var queue []Point
	for _, c := range pocket {
		i := m.Index(c.X, c.Y)
		prev[i] = -1
		queue = append(queue, c)
	}
	end := -1
	for k := 0; k < len(queue) && end < 0; k++ {
		c := queue[k]
		ci := m.Index(c.X, c.Y)
		for _, d := range cardinals {
			nx, ny := c.X+d.X, c.Y+d.Y
			if !m.InBounds(nx, ny) {
				continue
			}
			ni := m.Index(nx, ny)
			if _, ok := prev[ni]; ok {
				continue
			}
			n := &m.Tiles[ni]
			if !n.IsWater() {
				if reached[ni] {
					prev[ni] = ci
					end = ci
					break
				}
				continue
			}
			prev[ni] = ci
			if m.OnEdge(nx, ny) {
				end = ni
				break
			}
			queue = append(queue, Point{nx, ny})
		}
	}
	if end < 0 {
		return
	}
	drained := 0
	for i := end; i >= 0; i = prev[i] {
		t := &m.Tiles[i]
		if t.IsWater() {
			p.drain(t)
			drained++
		}
		reached[i] = true
	}
	for _, c := range pocket {
		reached[m.Index(c.X, c.Y)] = true
	}
	p.log.Debug("breached enclosed land", "pocket", len(pocket), "drained", drained)
}

// fillSurrounded floods land cells that are nearly surrounded by water: all four
// cardinals, or three cardinals and two diagonals.
func (p *waterPlanner) fillSurrounded() {
	m := p.m
	for pass := 0; pass < p.opts.HoleFillPasses; pass++ {
		changed := false
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				if !m.IsLand(x, y) {
					continue
				}
				wc, wd := m.waterCardinals(x, y), m.waterDiagonals(x, y)
				if wc < 4 && (wc < 3 || wd < 2) {
					continue
				}
				wt := p.surroundingType([]Point{{x, y}})
				if !p.flood(x, y, wt) {
					return
				}
				p.stats.Surrounded++
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
