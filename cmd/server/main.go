package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	gormrepo "github.com/OCharnyshevich/isoterrain/internal/adapter/repo/gorm"
	"github.com/OCharnyshevich/isoterrain/internal/server"
	"github.com/OCharnyshevich/isoterrain/internal/server/config"
	"github.com/OCharnyshevich/isoterrain/internal/server/storage"
	"github.com/OCharnyshevich/isoterrain/internal/server/world"
)

func main() {
	cfg := config.DefaultConfig()

	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory for config.json and saved worlds")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed of the default world")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "default world width in tiles")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "default world height in tiles")
	flag.BoolVar(&cfg.EnhancedWater, "enhanced-water", cfg.EnhancedWater, "raise the water level to the enhanced threshold")
	flag.Float64Var(&cfg.WaterLevel, "water-level", cfg.WaterLevel, "elevation below which cells are water")
	flag.Float64Var(&cfg.Embankments, "embankments", cfg.Embankments, "chance a steep water edge becomes a cliff (negative disables)")
	flag.Float64Var(&cfg.StaticDensity, "static-density", cfg.StaticDensity, "multiplier on static object density")
	flag.StringVar(&cfg.MappingDir, "mappings", cfg.MappingDir, "directory of transition mapping tables")
	flag.IntVar(&cfg.MaxWorldSize, "max-world-size", cfg.MaxWorldSize, "largest width or height a request may ask for")
	flag.StringVar(&cfg.Migrations, "migrations", cfg.Migrations, "SQL migrations directory")
	flag.StringVar(&cfg.CORSOrigin, "cors-origin", cfg.CORSOrigin, "origin allowed to call the API from a browser (default any)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := storage.New(cfg.DataDir, log)
	if err != nil {
		log.Error("open storage", "error", err)
		os.Exit(1)
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	fromFile := *cfg
	if err := store.LoadConfig(&fromFile); err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, &fromFile, explicit)
	cfg.LoadEnv()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stores := []world.Store{store}
	if cfg.DatabaseDSN != "" {
		db, err := gormrepo.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		if err := gormrepo.ApplyMigrations(ctx, db, cfg.Migrations); err != nil {
			log.Error("apply migrations", "error", err)
			os.Exit(1)
		}
		// Postgres is consulted first; files stay as a local copy.
		stores = append([]world.Store{gormrepo.NewWorldRepo(db)}, stores...)
		log.Info("postgres persistence enabled")
	}

	srv := server.New(cfg, log, stores...)
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
