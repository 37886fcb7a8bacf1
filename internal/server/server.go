package server

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	hz "github.com/cloudwego/hertz/pkg/app/server"

	httpadapter "github.com/OCharnyshevich/isoterrain/internal/adapter/http"
	"github.com/OCharnyshevich/isoterrain/internal/mappings"
	"github.com/OCharnyshevich/isoterrain/internal/server/config"
	"github.com/OCharnyshevich/isoterrain/internal/server/world"
	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

const shutdownTimeout = 5 * time.Second

// Server serves generated worlds over HTTP.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	worlds *world.Cache
	http   *hz.Hertz
}

// NewBuilder returns a world builder that applies cfg's tuning to every key.
func NewBuilder(cfg *config.Config, log *slog.Logger, options ...terrain.GeneratorOption) world.Builder {
	options = append([]terrain.GeneratorOption{terrain.WithLogger(log)}, options...)
	return func(k world.Key) *terrain.World {
		opts := cfg.TerrainOptions(k.Seed, k.Width, k.Height, k.Enhanced)
		return terrain.NewGenerator(opts, options...).Generate()
	}
}

// Tuning fingerprints the generation settings a world key does not carry: every
// option cfg applies and the transition mapping.
func Tuning(cfg *config.Config, mapping *tiles.TransitionMapping) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%+v|%x", cfg.TerrainOptions(0, 0, 0, false), mapping.Fingerprint())
	return fmt.Sprintf("%016x", h.Sum64())
}

// DefaultKey returns the key of the configured default world.
func DefaultKey(cfg *config.Config) world.Key {
	return world.Key{Seed: cfg.Seed, Width: cfg.Width, Height: cfg.Height, Enhanced: cfg.EnhancedWater}
}

// New creates a new Server with the given config and logger. Generated worlds are
// persisted to every store.
func New(cfg *config.Config, log *slog.Logger, stores ...world.Store) *Server {
	mapping := mappings.Load(cfg.MappingDir, log)
	tuning := Tuning(cfg, mapping)
	cache := world.NewCache(NewBuilder(cfg, log, terrain.WithMapping(mapping)), tuning, log, stores...)
	log.Info("world tuning", "fingerprint", tuning, "mappingPairs", mapping.Len())

	h := hz.Default(hz.WithHostPorts(fmt.Sprintf(":%d", cfg.Port)))
	httpadapter.Handler{Worlds: cache, Config: cfg, Log: log}.RegisterRoutes(h)

	return &Server{
		cfg:    cfg,
		log:    log,
		worlds: cache,
		http:   h,
	}
}

// Worlds returns the server's world cache.
func (s *Server) Worlds() *world.Cache {
	return s.worlds
}

// Start generates the default world, then serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	key := DefaultKey(s.cfg)
	start := time.Now()
	if _, err := s.worlds.Get(ctx, key); err != nil {
		return fmt.Errorf("generate default world: %w", err)
	}
	s.log.Info("default world ready", "world", key.Name(), "elapsed", time.Since(start))

	s.log.Info("server started",
		"port", s.cfg.Port,
		"seed", s.cfg.Seed,
		"size", fmt.Sprintf("%dx%d", s.cfg.Width, s.cfg.Height),
		"enhancedWater", s.cfg.EnhancedWater,
	)

	// Shut the HTTP server down when context is cancelled.
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(sctx); err != nil {
			s.log.Error("shutdown", "error", err)
		}
	}()

	if err := s.http.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve on :%d: %w", s.cfg.Port, err)
	}
	s.log.Info("server shutting down")
	return nil
}
