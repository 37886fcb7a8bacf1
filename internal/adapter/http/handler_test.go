package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/OCharnyshevich/isoterrain/internal/server/config"
	"github.com/OCharnyshevich/isoterrain/internal/server/world"
	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

type fakeSource struct {
	keys []world.Key
	err  error
}

func (f *fakeSource) Get(_ context.Context, key world.Key) (*terrain.World, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	opts := terrain.DefaultOptions()
	opts.Seed = key.Seed
	opts.Width, opts.Height = key.Width, key.Height
	opts.EnhancedWater = key.Enhanced
	return terrain.Generate(opts), nil
}

func newTestHandler(src *fakeSource) Handler {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.Width, cfg.Height = 10, 10
	cfg.MaxWorldSize = 32
	return Handler{Worlds: src, Config: cfg}
}

func request(uri string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI(uri)
	return ctx
}

func decodeError(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(&fakeSource{})
	ctx := request("/healthz")
	h.healthz(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
}

func TestWorldUsesConfigDefaults(t *testing.T) {
	src := &fakeSource{}
	h := newTestHandler(src)
	ctx := request("/api/world")
	h.world(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("status = %d, body %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	want := world.Key{Seed: 42, Width: 10, Height: 10}
	if len(src.keys) != 1 || src.keys[0] != want {
		t.Fatalf("keys = %v, want [%v]", src.keys, want)
	}

	var body struct {
		Seed int64 `json:"seed"`
		Map  struct {
			Width int               `json:"width"`
			Tiles []json.RawMessage `json:"tiles"`
		} `json:"map"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Seed != 42 || body.Map.Width != 10 || len(body.Map.Tiles) != 100 {
		t.Errorf("body = seed %d width %d tiles %d", body.Seed, body.Map.Width, len(body.Map.Tiles))
	}
}

func TestWorldQueryOverrides(t *testing.T) {
	src := &fakeSource{}
	h := newTestHandler(src)
	ctx := request("/api/world/summary?seed=-7&width=12&height=8&enhanced=true")
	h.summary(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("status = %d, body %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	want := world.Key{Seed: -7, Width: 12, Height: 8, Enhanced: true}
	if src.keys[0] != want {
		t.Fatalf("key = %v, want %v", src.keys[0], want)
	}

	var body summaryResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	total := 0
	for _, n := range body.Biomes {
		total += n
	}
	if total != 96 {
		t.Errorf("biome counts sum to %d, want 96", total)
	}
}

func TestWorldRejectsBadQuery(t *testing.T) {
	tests := []string{
		"/api/world?seed=abc",
		"/api/world?width=0",
		"/api/world?height=33",
		"/api/world?width=x",
		"/api/world?enhanced=maybe",
	}
	for _, uri := range tests {
		src := &fakeSource{}
		h := newTestHandler(src)
		ctx := request(uri)
		h.world(context.Background(), ctx)
		if ctx.Response.StatusCode() != consts.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", uri, ctx.Response.StatusCode())
			continue
		}
		if code := decodeError(t, ctx); code != "invalid_query" {
			t.Errorf("%s: code = %q", uri, code)
		}
		if len(src.keys) != 0 {
			t.Errorf("%s: source called for a bad query", uri)
		}
	}
}

func TestWorldSourceFailure(t *testing.T) {
	h := newTestHandler(&fakeSource{err: errors.New("boom")})
	ctx := request("/api/world")
	h.world(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusInternalServerError {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	if code := decodeError(t, ctx); code != "generation_failed" {
		t.Errorf("code = %q", code)
	}
}

func TestCornersAndStatics(t *testing.T) {
	h := newTestHandler(&fakeSource{})

	ctx := request("/api/world/corners")
	h.corners(context.Background(), ctx)
	var corners struct {
		Corners struct {
			Width   int   `json:"width"`
			Heights []int `json:"heights"`
		} `json:"corners"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &corners); err != nil {
		t.Fatalf("decode corners: %v", err)
	}
	if corners.Corners.Width != 11 || len(corners.Corners.Heights) != 121 {
		t.Errorf("corner grid %d wide with %d heights, want 11 and 121", corners.Corners.Width, len(corners.Corners.Heights))
	}

	ctx = request("/api/world/statics")
	h.statics(context.Background(), ctx)
	var statics staticsResponse
	if err := json.Unmarshal(ctx.Response.Body(), &statics); err != nil {
		t.Fatalf("decode statics: %v", err)
	}
	if statics.Count != len(statics.Statics) {
		t.Errorf("count %d does not match %d statics", statics.Count, len(statics.Statics))
	}
}

func TestTile(t *testing.T) {
	h := newTestHandler(&fakeSource{})

	ctx := request("/api/world/tile?x=3&y=4")
	h.tile(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("status = %d, body %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var body struct {
		X, Y int
	}
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.X != 3 || body.Y != 4 {
		t.Errorf("tile = %d,%d", body.X, body.Y)
	}

	ctx = request("/api/world/tile?x=10&y=0")
	h.tile(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusNotFound {
		t.Errorf("out of bounds status = %d, want 404", ctx.Response.StatusCode())
	}

	ctx = request("/api/world/tile?x=1")
	h.tile(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusBadRequest {
		t.Errorf("missing y status = %d, want 400", ctx.Response.StatusCode())
	}
}

func TestCORSPreflight(t *testing.T) {
	ctx := request("/api/world")
	ctx.Request.Header.SetMethod(consts.MethodOptions)
	corsMiddleware("")(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusNoContent {
		t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), consts.StatusNoContent)
	}
	if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")); got != corsAllowMethods {
		t.Errorf("Allow-Methods = %q, want %q", got, corsAllowMethods)
	}
}

func TestCORSConfiguredOrigin(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"https://viewer.example", "https://viewer.example"},
		{"https://other.example", ""},
	}
	for _, tt := range tests {
		ctx := request("/api/world")
		ctx.Request.Header.Set("Origin", tt.from)
		corsMiddleware("https://viewer.example")(context.Background(), ctx)

		if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.from, got, tt.want)
		}
		if got := string(ctx.Response.Header.Peek("Vary")); got != "Origin" {
			t.Errorf("origin %s: Vary = %q, want Origin", tt.from, got)
		}
	}
}
