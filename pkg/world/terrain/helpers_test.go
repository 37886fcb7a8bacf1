package terrain

import (
	"testing"

	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

var gridBiomes = map[byte]tiles.Biome{
	'~': tiles.BiomeWater,
	'.': tiles.BiomeGrass,
	's': tiles.BiomeSand,
	'f': tiles.BiomeForest,
	'j': tiles.BiomeJungle,
	'r': tiles.BiomeRock,
	'd': tiles.BiomeDirt,
	'w': tiles.BiomeSwamp,
}

// gridFromRows builds a map from rows of biome characters. Land gets elevation 0.6.
func gridFromRows(t *testing.T, rows ...string) *Map {
	t.Helper()
	m := NewMap(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.Width {
			t.Fatalf("row %d has width %d, want %d", y, len(row), m.Width)
		}
		for x := 0; x < len(row); x++ {
			b, ok := gridBiomes[row[x]]
			if !ok {
				t.Fatalf("unknown grid char %q", row[x])
			}
			tile := m.At(x, y)
			tile.Biome = b
			tile.Elevation = 0.6
			if b == tiles.BiomeWater {
				tile.Elevation = 0.2
			}
		}
	}
	return m
}

var testSeeds = []int64{0, 1, 7, 42, 1234, -99, 20240601}
