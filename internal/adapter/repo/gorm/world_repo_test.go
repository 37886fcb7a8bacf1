package gormrepo

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("ISOTERRAIN_DB_DSN")
	if dsn == "" {
		t.Skip("ISOTERRAIN_DB_DSN is required for integration test")
	}
	return dsn
}

func migrationsDir() string {
	return filepath.Join("..", "..", "..", "..", "migrations")
}

func testWorld(seed int64) *terrain.World {
	opts := terrain.DefaultOptions()
	opts.Seed = seed
	opts.Width, opts.Height = 12, 12
	return terrain.Generate(opts)
}

func TestMigrationFilesSorted(t *testing.T) {
	files, err := MigrationFiles(migrationsDir())
	if err != nil {
		t.Fatalf("MigrationFiles: %v", err)
	}
	if len(files) == 0 || files[0] != "0001_worlds.sql" {
		t.Fatalf("files = %v, want 0001_worlds.sql first", files)
	}
}

func TestEncodeDecodeKeepsWorld(t *testing.T) {
	w := testWorld(42)
	row, err := encodeWorld("s42-12x12", w)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if row.Width != 12 || row.Height != 12 || row.Seed != 42 {
		t.Fatalf("row header = %d %dx%d", row.Seed, row.Width, row.Height)
	}
	if row.WaterTier != w.Water.Budget.Distribution {
		t.Errorf("WaterTier = %q, want %q", row.WaterTier, w.Water.Budget.Distribution)
	}

	got, err := decodeWorld(row)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got.Map, w.Map) {
		t.Error("decoded map differs")
	}
	if !reflect.DeepEqual(got.Corners, w.Corners) {
		t.Error("decoded corners differ")
	}
	if len(got.Statics) != len(w.Statics) {
		t.Errorf("statics = %d, want %d", len(got.Statics), len(w.Statics))
	}
	if got.Water.Budget != w.Water.Budget {
		t.Errorf("budget = %+v, want %+v", got.Water.Budget, w.Water.Budget)
	}
}

func TestEncodeRejectsEmptyWorld(t *testing.T) {
	if _, err := encodeWorld("x", &terrain.World{}); err == nil {
		t.Error("encode of a world without a map succeeded")
	}
}

func TestWorldRepo_RoundTrip(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, migrationsDir()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	const name = "it-world-roundtrip"
	repo := NewWorldRepo(db)
	_ = repo.DeleteWorld(ctx, name)

	if _, ok, err := repo.LoadWorld(ctx, name); err != nil || ok {
		t.Fatalf("load before save = %v, %v; want not found", ok, err)
	}

	w := testWorld(7)
	if err := repo.SaveWorld(ctx, name, w); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving again must upsert, not conflict.
	if err := repo.SaveWorld(ctx, name, w); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok, err := repo.LoadWorld(ctx, name)
	if err != nil || !ok {
		t.Fatalf("load = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(got.Map, w.Map) {
		t.Error("stored map differs")
	}

	names, err := repo.ListWorlds(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, n := range names {
		found = found || n == name
	}
	if !found {
		t.Errorf("ListWorlds() = %v, missing %s", names, name)
	}
}
