package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/OCharnyshevich/isoterrain/internal/server/config"
	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, dir
}

func TestConfigRoundTrip(t *testing.T) {
	s, _ := newTestStorage(t)
	cfg := config.DefaultConfig()
	cfg.Seed = 1234
	cfg.MappingDir = "tables"
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got := config.DefaultConfig()
	if err := s.LoadConfig(got); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Seed != 1234 || got.MappingDir != "tables" {
		t.Errorf("loaded %+v", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	s, _ := newTestStorage(t)
	cfg := config.DefaultConfig()
	cfg.Seed = 5
	if err := s.LoadConfig(cfg); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Seed != 5 {
		t.Errorf("Seed changed to %d", cfg.Seed)
	}
}

func TestWorldRoundTrip(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()
	opts := terrain.DefaultOptions()
	opts.Seed = 9
	opts.Width, opts.Height = 12, 10
	w := terrain.Generate(opts)

	if err := s.SaveWorld(ctx, "s9", w); err != nil {
		t.Fatalf("SaveWorld: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "worlds", "s9.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	got, ok, err := s.LoadWorld(ctx, "s9")
	if err != nil || !ok {
		t.Fatalf("LoadWorld: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got.Map, w.Map) {
		t.Error("map differs after round trip")
	}
	if !reflect.DeepEqual(got.Corners, w.Corners) {
		t.Error("corners differ after round trip")
	}
	if len(got.Statics) != len(w.Statics) {
		t.Errorf("statics = %d, want %d", len(got.Statics), len(w.Statics))
	}

	infos, err := s.ListWorlds(ctx)
	if err != nil {
		t.Fatalf("ListWorlds: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "s9" || infos[0].Width != 12 || infos[0].Seed != 9 {
		t.Errorf("ListWorlds = %+v", infos)
	}
}

func TestLoadWorldMissing(t *testing.T) {
	s, _ := newTestStorage(t)
	w, ok, err := s.LoadWorld(context.Background(), "nope")
	if err != nil || ok || w != nil {
		t.Errorf("LoadWorld = %v, %v, %v; want nil, false, nil", w, ok, err)
	}
}

func TestWorldNameValidation(t *testing.T) {
	s, _ := newTestStorage(t)
	for _, name := range []string{"", "../x", "a/b", ".hidden"} {
		if _, _, err := s.LoadWorld(context.Background(), name); err == nil {
			t.Errorf("LoadWorld(%q) accepted", name)
		}
	}
}

func TestLoadWorldCorrupt(t *testing.T) {
	s, dir := newTestStorage(t)
	if err := os.WriteFile(filepath.Join(dir, "worlds", "bad.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.LoadWorld(context.Background(), "bad"); err == nil {
		t.Error("corrupt world loaded without error")
	}
	infos, err := s.ListWorlds(context.Background())
	if err != nil || len(infos) != 0 {
		t.Errorf("ListWorlds = %v, %v; want empty", infos, err)
	}
}
