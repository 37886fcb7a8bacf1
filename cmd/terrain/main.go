package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/OCharnyshevich/isoterrain/internal/mappings"
	"github.com/OCharnyshevich/isoterrain/internal/server"
	"github.com/OCharnyshevich/isoterrain/internal/server/config"
	"github.com/OCharnyshevich/isoterrain/internal/server/storage"
	"github.com/OCharnyshevich/isoterrain/internal/server/world"
	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

var glyphs = map[tiles.Biome]byte{
	tiles.BiomeWater:  '~',
	tiles.BiomeGrass:  '.',
	tiles.BiomeForest: 'f',
	tiles.BiomeJungle: 'j',
	tiles.BiomeSand:   's',
	tiles.BiomeRock:   'r',
	tiles.BiomeDirt:   'd',
	tiles.BiomeSwamp:  'w',
}

func main() {
	cfg := config.DefaultConfig()

	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory for saved worlds")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "world width in tiles")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "world height in tiles")
	flag.BoolVar(&cfg.EnhancedWater, "enhanced-water", cfg.EnhancedWater, "raise the water level to the enhanced threshold")
	flag.Float64Var(&cfg.WaterLevel, "water-level", cfg.WaterLevel, "elevation below which cells are water")
	flag.Float64Var(&cfg.Embankments, "embankments", cfg.Embankments, "chance a steep water edge becomes a cliff (negative disables)")
	flag.Float64Var(&cfg.StaticDensity, "static-density", cfg.StaticDensity, "multiplier on static object density")
	flag.StringVar(&cfg.MappingDir, "mappings", cfg.MappingDir, "directory of transition mapping tables")
	var (
		save    = flag.Bool("save", true, "save the world under the data directory")
		showMap = flag.Bool("map", false, "print the biome grid")
		list    = flag.Bool("list", false, "list saved worlds and exit")
		verbose = flag.Bool("v", false, "log every pipeline stage")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := context.Background()

	store, err := storage.New(cfg.DataDir, log)
	if err != nil {
		log.Error("open storage", "error", err)
		os.Exit(1)
	}

	if *list {
		infos, err := store.ListWorlds(ctx)
		if err != nil {
			log.Error("list worlds", "error", err)
			os.Exit(1)
		}
		for _, info := range infos {
			fmt.Printf("%-32s seed=%d %dx%d saved=%s\n", info.Name, info.Seed, info.Width, info.Height, info.SavedAt.Format(time.RFC3339))
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	key := server.DefaultKey(cfg)
	mapping := mappings.Load(cfg.MappingDir, log)
	start := time.Now()
	w := server.NewBuilder(cfg, log, terrain.WithMapping(mapping))(key)
	name := world.StoreName(key, server.Tuning(cfg, mapping))
	log.Info("world generated", "world", name, "elapsed", time.Since(start))

	printSummary(os.Stdout, name, w)
	if *showMap {
		printMap(os.Stdout, w.Map)
	}

	if *save {
		if err := store.SaveWorld(ctx, name, w); err != nil {
			log.Error("save world", "error", err)
			os.Exit(1)
		}
		log.Info("world saved", "world", name, "dir", cfg.DataDir)
	}
}

func printSummary(out io.Writer, name string, w *terrain.World) {
	total := w.Map.Width * w.Map.Height
	fmt.Fprintf(out, "world %s (%dx%d, %d tiles)\n", name, w.Map.Width, w.Map.Height, total)
	for _, b := range tiles.Biomes() {
		n := w.Map.CountBiome(b)
		if n == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-7s %6d  %5.1f%%\n", b, n, 100*float64(n)/float64(total))
	}

	ws := w.Water
	fmt.Fprintf(out, "water: %s tier, %d/%d tiles (ocean %d, lake %d, pond %d, river %d)\n",
		ws.Budget.Distribution, ws.WaterTiles, ws.Budget.TileCountCap, ws.Ocean, ws.Lake, ws.Pond, ws.River)
	fmt.Fprintf(out, "  bodies: %d lakes, %d ponds, %d rivers; %d beaches\n", ws.Lakes, ws.Ponds, ws.Rivers, ws.BeachTiles)
	fmt.Fprintf(out, "  repairs: %d pockets filled, %d breached, %d surrounded cells filled\n", ws.PocketsFilled, ws.PocketsBreached, ws.Surrounded)
	fmt.Fprintf(out, "transitions: %d (%d stamped, %d forced pure, %d fallbacks)\n",
		w.Transitions.Transitions, w.Transitions.Stamps, w.Transitions.ForcedPure, w.Transitions.Fallbacks)
	fmt.Fprintf(out, "embankments: %d cliffs on %d water edges\n", w.Embankments.Cliffs, w.Embankments.WaterEdges)
	fmt.Fprintf(out, "statics: %d\n", len(w.Statics))
}

func printMap(out io.Writer, m *terrain.Map) {
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.At(x, y)
			g, ok := glyphs[t.Biome]
			if !ok {
				g = '?'
			}
			if t.IsCliff {
				g = '#'
			}
			sb.WriteByte(g)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(out, sb.String())
}
