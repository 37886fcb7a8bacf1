// Package httpadapter hands finished worlds to the renderer over HTTP.
package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/OCharnyshevich/isoterrain/internal/server/config"
	"github.com/OCharnyshevich/isoterrain/internal/server/world"
	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// WorldSource returns finished worlds by key.
type WorldSource interface {
	Get(ctx context.Context, key world.Key) (*terrain.World, error)
}

type Handler struct {
	Worlds WorldSource
	Config *config.Config
	Log    *slog.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	origin := ""
	if h.Config != nil {
		origin = h.Config.CORSOrigin
	}
	s.Use(corsMiddleware(origin))
	s.GET("/healthz", h.healthz)

	api := s.Group("/api/world")
	api.GET("", h.world)
	api.GET("/summary", h.summary)
	api.GET("/corners", h.corners)
	api.GET("/statics", h.statics)
	api.GET("/tile", h.tile)
}

type cornersResponse struct {
	Seed    int64               `json:"seed"`
	Corners *terrain.CornerGrid `json:"corners"`
}

type staticsResponse struct {
	Seed    int64                  `json:"seed"`
	Count   int                    `json:"count"`
	Statics []terrain.StaticObject `json:"statics"`
}

type summaryResponse struct {
	Seed        int64                   `json:"seed"`
	Width       int                     `json:"width"`
	Height      int                     `json:"height"`
	Biomes      map[string]int          `json:"biomes"`
	Water       terrain.WaterStats      `json:"water"`
	Transitions terrain.TransitionStats `json:"transitions"`
	Embankments terrain.EmbankmentStats `json:"embankments"`
	Statics     int                     `json:"statics"`
}

type tileResponse struct {
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Tile    terrain.Tile `json:"tile"`
	Corners [4]int       `json:"corners"`
}

var errBadQuery = errors.New("bad query")

func (h Handler) healthz(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func (h Handler) world(c context.Context, ctx *app.RequestContext) {
	w, ok := h.load(c, ctx)
	if !ok {
		return
	}
	ctx.JSON(consts.StatusOK, w)
}

func (h Handler) summary(c context.Context, ctx *app.RequestContext) {
	w, ok := h.load(c, ctx)
	if !ok {
		return
	}
	biomes := make(map[string]int)
	for _, b := range tiles.Biomes() {
		if n := w.Map.CountBiome(b); n > 0 {
			biomes[b.String()] = n
		}
	}
	ctx.JSON(consts.StatusOK, summaryResponse{
		Seed:        w.Seed,
		Width:       w.Map.Width,
		Height:      w.Map.Height,
		Biomes:      biomes,
		Water:       w.Water,
		Transitions: w.Transitions,
		Embankments: w.Embankments,
		Statics:     len(w.Statics),
	})
}

func (h Handler) corners(c context.Context, ctx *app.RequestContext) {
	w, ok := h.load(c, ctx)
	if !ok {
		return
	}
	ctx.JSON(consts.StatusOK, cornersResponse{Seed: w.Seed, Corners: w.Corners})
}

func (h Handler) statics(c context.Context, ctx *app.RequestContext) {
	w, ok := h.load(c, ctx)
	if !ok {
		return
	}
	ctx.JSON(consts.StatusOK, staticsResponse{Seed: w.Seed, Count: len(w.Statics), Statics: w.Statics})
}

func (h Handler) tile(c context.Context, ctx *app.RequestContext) {
	x, errX := strconv.Atoi(string(ctx.Query("x")))
	y, errY := strconv.Atoi(string(ctx.Query("y")))
	if errX != nil || errY != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_query", "x and y are required integers")
		return
	}
	w, ok := h.load(c, ctx)
	if !ok {
		return
	}
	t := w.Map.At(x, y)
	if t == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "out_of_bounds", fmt.Sprintf("tile %d,%d is outside the map", x, y))
		return
	}
	ctx.JSON(consts.StatusOK, tileResponse{X: x, Y: y, Tile: *t, Corners: w.Corners.TileCorners(x, y)})
}

func (h Handler) load(c context.Context, ctx *app.RequestContext) (*terrain.World, bool) {
	key, err := h.parseKey(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_query", err.Error())
		return nil, false
	}
	w, err := h.Worlds.Get(c, key)
	if err != nil {
		h.logger().Error("get world", "world", key.Name(), "error", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "generation_failed", "world unavailable")
		return nil, false
	}
	return w, true
}

func (h Handler) parseKey(ctx *app.RequestContext) (world.Key, error) {
	cfg := h.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	key := world.Key{Seed: cfg.Seed, Width: cfg.Width, Height: cfg.Height, Enhanced: cfg.EnhancedWater}

	if v := string(ctx.Query("seed")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return key, fmt.Errorf("%w: seed %q", errBadQuery, v)
		}
		key.Seed = seed
	}
	for name, dst := range map[string]*int{"width": &key.Width, "height": &key.Height} {
		v := string(ctx.Query(name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return key, fmt.Errorf("%w: %s %q", errBadQuery, name, v)
		}
		*dst = n
	}
	if v := string(ctx.Query("enhanced")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return key, fmt.Errorf("%w: enhanced %q", errBadQuery, v)
		}
		key.Enhanced = b
	}

	if key.Width < 1 || key.Height < 1 || key.Width > cfg.MaxWorldSize || key.Height > cfg.MaxWorldSize {
		return key, fmt.Errorf("%w: size %dx%d outside 1..%d", errBadQuery, key.Width, key.Height, cfg.MaxWorldSize)
	}
	return key, nil
}

func (h Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
