package terrain

import (
	"reflect"
	"testing"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

func staticsMap(t *testing.T, b tiles.Biome, w, h int) *Map {
	t.Helper()
	m := NewMap(w, h)
	c := tiles.DefaultCatalog()
	id, _ := c.Canonical(b)
	for i := range m.Tiles {
		m.Tiles[i].Biome = b
		m.Tiles[i].TileID = id
	}
	return m
}

func TestPlaceStaticsDeterministic(t *testing.T) {
	m := staticsMap(t, tiles.BiomeForest, 30, 30)
	a := NewStaticPlacer(5, nil, DefaultStaticOptions(), nil).Place(m, noise.NewRand(5, 3))
	b := NewStaticPlacer(5, nil, DefaultStaticOptions(), nil).Place(m, noise.NewRand(5, 3))
	if len(a) == 0 {
		t.Fatal("no statics placed in a forest")
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed placed different statics")
	}
}

func TestPlaceStaticsNoTreesOnRock(t *testing.T) {
	m := staticsMap(t, tiles.BiomeRock, 40, 40)
	p := NewStaticPlacer(9, nil, StaticOptions{DensityMultiplier: 4}, nil)
	p.SetProfile(tiles.BiomeRock.String(), StaticProfile{Density: 0.5, Categories: []CategoryWeight{
		{CategoryTree, 10, props("pine")},
		{CategoryRock, 1, props("boulder")},
	}})
	objs := p.Place(m, noise.NewRand(9, 3))
	if len(objs) == 0 {
		t.Fatal("nothing placed")
	}
	for _, o := range objs {
		if o.Category == CategoryTree {
			t.Fatalf("tree %+v on a biome that is not tree-friendly", o)
		}
	}
}

func TestDefaultProfilesTreesOnlyWhereFriendly(t *testing.T) {
	for name, prof := range DefaultStaticProfiles() {
		if prof.TreeFriendly {
			continue
		}
		for _, c := range prof.Categories {
			if c.Category == CategoryTree {
				t.Errorf("profile %s lists trees %v but is not tree-friendly", name, c.Props)
			}
		}
	}
}

func TestPickCategorySkipsTreesWhenUnfriendly(t *testing.T) {
	prof := StaticProfile{Categories: []CategoryWeight{
		{CategoryTree, 100, props("palm")},
		{CategoryRock, 1, props("stone")},
	}}
	rng := noise.NewRand(3, 3)
	for i := 0; i < 50; i++ {
		c, ok := pickCategory(prof, rng)
		if !ok || c.Category != CategoryRock {
			t.Fatalf("pick %d = %v ok=%v, want rock", i, c.Category, ok)
		}
	}
}

func TestPlaceStaticsSkipsWaterAndCliffs(t *testing.T) {
	m := staticsMap(t, tiles.BiomeJungle, 20, 20)
	for x := 0; x < 20; x++ {
		m.At(x, 0).Biome = tiles.BiomeWater
		m.At(x, 0).TileID = tiles.WaterBase
		m.At(x, 1).IsCliff = true
	}
	p := NewStaticPlacer(2, nil, StaticOptions{DensityMultiplier: 10}, nil)
	for _, o := range p.Place(m, noise.NewRand(2, 3)) {
		if o.Y < 2 {
			t.Fatalf("static %+v on water or cliff", o)
		}
	}
}

func TestPlaceStaticsRoadsAreSparse(t *testing.T) {
	grass := staticsMap(t, tiles.BiomeGrass, 60, 60)
	road := staticsMap(t, tiles.BiomeGrass, 60, 60)
	for i := range road.Tiles {
		road.Tiles[i].TileID = tiles.RoadTile
	}
	p := NewStaticPlacer(4, nil, DefaultStaticOptions(), nil)
	onGrass := len(p.Place(grass, noise.NewRand(4, 3)))
	onRoad := len(p.Place(road, noise.NewRand(4, 3)))
	if onGrass == 0 {
		t.Fatal("nothing placed on grass")
	}
	if onRoad*5 > onGrass {
		t.Errorf("road got %d statics, grass %d", onRoad, onGrass)
	}
}

func TestProfileForWaterEdge(t *testing.T) {
	m := staticsMap(t, tiles.BiomeGrass, 6, 1)
	m.At(0, 0).Biome = tiles.BiomeWater
	m.At(1, 0).TileID = 1002
	m.At(5, 0).TileID = 1002
	p := NewStaticPlacer(1, nil, DefaultStaticOptions(), nil)

	if name, _, _ := p.profileFor(m, 1, 0); name != WaterEdgeProfile {
		t.Errorf("unclassified tile by water = %q, want %q", name, WaterEdgeProfile)
	}
	if name, _, _ := p.profileFor(m, 5, 0); name != tiles.BiomeGrass.String() {
		t.Errorf("unclassified inland tile = %q, want grass", name)
	}
	if name, _, _ := p.profileFor(m, 3, 0); name != tiles.BiomeGrass.String() {
		t.Errorf("catalog tile = %q, want grass", name)
	}
}

func TestClusterRange(t *testing.T) {
	p := NewStaticPlacer(3, nil, DefaultStaticOptions(), nil)
	lo, hi := 10.0, 0.0
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			c := p.Cluster(x, y)
			lo, hi = min(lo, c), max(hi, c)
		}
	}
	if lo < 0.1 || hi > 2.5 {
		t.Errorf("cluster range [%v, %v] outside [0.1, 2.5]", lo, hi)
	}
	if hi-lo < 0.2 {
		t.Errorf("cluster range [%v, %v] is flat", lo, hi)
	}
}
