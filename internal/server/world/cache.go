package world

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

// Key identifies a generated world by the parameters that determine it.
type Key struct {
	Seed     int64
	Width    int
	Height   int
	Enhanced bool
}

// Name returns a stable file and row name for the key.
func (k Key) Name() string {
	name := fmt.Sprintf("s%d-%dx%d", k.Seed, k.Width, k.Height)
	if k.Enhanced {
		name += "-enhanced"
	}
	return name
}

// StoreName is the name a world is stored under. tuning fingerprints every setting
// outside the key that changes the output, so a retuned run never reads an old world.
func StoreName(key Key, tuning string) string {
	if tuning == "" {
		return key.Name()
	}
	return key.Name() + "-" + tuning
}

// Store persists finished worlds. LoadWorld reports ok=false when nothing is stored
// under name.
type Store interface {
	LoadWorld(ctx context.Context, name string) (*terrain.World, bool, error)
	SaveWorld(ctx context.Context, name string, w *terrain.World) error
}

// Builder generates the world for a key.
type Builder func(Key) *terrain.World

// Cache holds finished worlds keyed by generation parameters. Worlds are read-only
// once cached, so callers share them without copying.
type Cache struct {
	mu     sync.RWMutex
	worlds map[Key]*terrain.World
	group  singleflight.Group

	build  Builder
	tuning string
	stores []Store
	log    *slog.Logger

	generated atomic.Int64
	loaded    atomic.Int64
}

// NewCache creates a cache that builds missing worlds with build. Stores are tried
// in order before building and receive every newly built world, named by StoreName
// with tuning.
func NewCache(build Builder, tuning string, log *slog.Logger, stores ...Store) *Cache {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		worlds: make(map[Key]*terrain.World),
		build:  build,
		tuning: tuning,
		stores: stores,
		log:    log,
	}
}

// Peek returns a cached world without loading or generating it.
func (c *Cache) Peek(key Key) (*terrain.World, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.worlds[key]
	return w, ok
}

// Get returns the world for key, loading it from a store or generating it if
// needed. Concurrent callers for one key share a single generation.
func (c *Cache) Get(ctx context.Context, key Key) (*terrain.World, error) {
	if w, ok := c.Peek(key); ok {
		return w, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := c.group.Do(key.Name(), func() (any, error) {
		// Double-check: a previous flight may have finished since Peek.
		if w, ok := c.Peek(key); ok {
			return w, nil
		}
		w := c.load(ctx, key)
		if w == nil {
			w = c.build(key)
			c.generated.Add(1)
			c.save(ctx, key, w)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.worlds[key]; ok {
			return existing, nil
		}
		c.worlds[key] = w
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*terrain.World), nil
}

func (c *Cache) load(ctx context.Context, key Key) *terrain.World {
	name := StoreName(key, c.tuning)
	for _, s := range c.stores {
		w, ok, err := s.LoadWorld(ctx, name)
		if err != nil {
			c.log.Warn("load world from store", "world", name, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if !matches(w, key) {
			c.log.Warn("stored world does not match its key, regenerating", "world", name)
			continue
		}
		c.loaded.Add(1)
		c.log.Debug("loaded world from store", "world", name)
		return w
	}
	return nil
}

func matches(w *terrain.World, key Key) bool {
	return w != nil && w.Map != nil && w.Seed == key.Seed &&
		w.Map.Width == key.Width && w.Map.Height == key.Height &&
		w.Options.EnhancedWater == key.Enhanced
}

func (c *Cache) save(ctx context.Context, key Key, w *terrain.World) {
	name := StoreName(key, c.tuning)
	for _, s := range c.stores {
		if err := s.SaveWorld(ctx, name, w); err != nil {
			c.log.Warn("save world to store", "world", name, "error", err)
		}
	}
}

// PreGenerate makes sure every key is cached and returns how many worlds are cached.
func (c *Cache) PreGenerate(ctx context.Context, keys ...Key) (int, error) {
	for _, k := range keys {
		if _, err := c.Get(ctx, k); err != nil {
			return c.Len(), fmt.Errorf("pregenerate %s: %w", k.Name(), err)
		}
	}
	return c.Len(), nil
}

// Len returns the number of cached worlds.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.worlds)
}

// Stats returns how many worlds were generated and how many came from stores.
func (c *Cache) Stats() (generated, loaded int64) {
	return c.generated.Load(), c.loaded.Load()
}
