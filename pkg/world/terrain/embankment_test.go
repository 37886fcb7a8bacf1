package terrain

import (
	"testing"

	"github.com/OCharnyshevich/isoterrain/pkg/world/noise"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

func TestEmbankmentFlipIsRotation(t *testing.T) {
	tests := []struct {
		in, want uint8
	}{
		{tiles.MaskN, tiles.MaskS},
		{tiles.MaskE, tiles.MaskW},
		{tiles.MaskN | tiles.MaskE, tiles.MaskS | tiles.MaskW},
		{tiles.MaskN | tiles.MaskE | tiles.MaskS, tiles.MaskS | tiles.MaskW | tiles.MaskN},
		{tiles.MaskAll, tiles.MaskAll},
		{tiles.SlopeNE, tiles.SlopeSW},
		{tiles.SlopeNW, tiles.SlopeSE},
	}
	for _, tt := range tests {
		if got := FlipSlope(tt.in); got != tt.want {
			t.Errorf("FlipSlope(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	for in, out := range EmbankmentFlip {
		if back := FlipSlope(out); back != in {
			t.Errorf("flip of %d is %d, flipping back gives %d", in, out, back)
		}
	}
}

func TestEmbankmentFlipCoversDiagonalCombos(t *testing.T) {
	// 180 degree rotation swaps NE with SW and SE with NW.
	rotate := func(d uint8) uint8 { return (d<<2 | d>>2) & 0x0f }
	for d := uint8(1); d < 16; d++ {
		in := d << 4
		want := rotate(d) << 4
		if got := FlipSlope(in); got != want {
			t.Errorf("FlipSlope(%d) = %d, want %d", in, got, want)
		}
	}
	for c := uint8(1); c < 16; c++ {
		if FlipSlope(c) == 0 {
			t.Errorf("cardinal mask %d has no flip", c)
		}
	}
}

func TestSlopeBitmask(t *testing.T) {
	m := gridFromRows(t,
		"~..",
		"...",
		"..~",
	)
	if got := SlopeBitmask(m, 1, 1); got != tiles.SlopeNW|tiles.SlopeSE {
		t.Errorf("diagonal only = %d, want NW|SE", got)
	}
	if got := SlopeBitmask(m, 1, 0); got != tiles.MaskW {
		t.Errorf("west water = %d, want W", got)
	}
	if got := SlopeBitmask(m, 2, 1); got != tiles.MaskS {
		t.Errorf("cardinal wins over diagonal = %d, want S", got)
	}
}

func TestApplyEmbankments(t *testing.T) {
	m := gridFromRows(t,
		"~~~~",
		"....",
		"....",
		"....",
	)
	for i := range m.Tiles {
		if !m.Tiles[i].IsWater() {
			m.Tiles[i].Elevation = 0.9
		}
	}
	opts := DefaultOptions()
	opts.EmbankmentProbability = 1
	g := DeriveCorners(m, opts)

	e := NewTransitionEngine(1, nil, nil, nil)
	stats := e.ApplyEmbankments(m, g, noise.NewRand(1, 2), opts)

	if stats.WaterEdges != 4 || stats.Cliffs != 4 {
		t.Fatalf("stats = %+v, want 4 edges and 4 cliffs", stats)
	}
	for x := 0; x < 4; x++ {
		tile := m.At(x, 1)
		if !tile.IsCliff || !tile.IsWaterEdge {
			t.Errorf("(%d,1) = %+v, want cliff water edge", x, *tile)
		}
		if want := tiles.EmbankmentBase + tiles.TileID(tiles.MaskS); tile.TileID != want {
			t.Errorf("(%d,1) tile = %d, want flipped north embankment %d", x, tile.TileID, want)
		}
	}
	if m.At(0, 2).IsWaterEdge {
		t.Error("inland tile marked as water edge")
	}
}

func TestApplyEmbankmentsSkipsBeaches(t *testing.T) {
	m := gridFromRows(t,
		"~~~",
		"sss",
		"...",
	)
	opts := DefaultOptions()
	opts.EmbankmentProbability = 1
	g := DeriveCorners(m, opts)
	stats := NewTransitionEngine(1, nil, nil, nil).ApplyEmbankments(m, g, noise.NewRand(1, 2), opts)
	if stats.Cliffs != 0 {
		t.Errorf("Cliffs = %d on a sand beach", stats.Cliffs)
	}
	if !m.At(1, 1).IsShallowWaterEdge {
		t.Error("beach not marked shallow")
	}
}

func TestApplyEmbankmentsDisabled(t *testing.T) {
	m := gridFromRows(t, "~~", "..", "..")
	opts := DefaultOptions()
	opts.EmbankmentProbability = -1
	g := DeriveCorners(m, opts)
	stats := NewTransitionEngine(1, nil, nil, nil).ApplyEmbankments(m, g, noise.NewRand(1, 2), opts)
	if stats.Cliffs != 0 || stats.WaterEdges != 2 {
		t.Errorf("stats = %+v, want edges without cliffs", stats)
	}
}
