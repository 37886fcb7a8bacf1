package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/OCharnyshevich/isoterrain/internal/server/config"
	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

// Storage handles file-based persistence for config and generated worlds.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	dirs := []string{
		dir,
		filepath.Join(dir, "worlds"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

// LoadConfig reads config.json into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.json atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.json")
	return s.atomicWriteJSON(path, cfg)
}

// LoadWorld reads worlds/<name>.json. ok is false when no such world was saved.
func (s *Storage) LoadWorld(ctx context.Context, name string) (*terrain.World, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path, err := s.worldPath(name)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read world %s: %w", name, err)
	}

	var wf WorldFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, false, fmt.Errorf("parse world %s: %w", name, err)
	}
	if wf.Format != worldFormat {
		s.log.Warn("ignoring world with unknown format", "name", name, "format", wf.Format)
		return nil, false, nil
	}
	if wf.World == nil || wf.World.Map == nil {
		return nil, false, fmt.Errorf("world %s has no map", name)
	}
	return wf.World, true, nil
}

// SaveWorld writes w to worlds/<name>.json atomically.
func (s *Storage) SaveWorld(ctx context.Context, name string, w *terrain.World) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.worldPath(name)
	if err != nil {
		return err
	}
	wf := WorldFile{Format: worldFormat, Name: name, SavedAt: time.Now().UTC(), World: w}
	if err := s.atomicWriteJSON(path, &wf); err != nil {
		return fmt.Errorf("save world %s: %w", name, err)
	}
	s.log.Debug("saved world", "name", name, "path", path)
	return nil
}

// ListWorlds returns every saved world sorted by name.
func (s *Storage) ListWorlds(ctx context.Context) ([]WorldInfo, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "worlds", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	sort.Strings(paths)
	out := make([]WorldInfo, 0, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".json")
		w, ok, err := s.LoadWorld(ctx, name)
		if err != nil {
			s.log.Warn("skipping unreadable world", "name", name, "error", err)
			continue
		}
		if !ok {
			continue
		}
		info := WorldInfo{Name: name, Seed: w.Seed, Width: w.Map.Width, Height: w.Map.Height}
		if st, err := os.Stat(p); err == nil {
			info.SavedAt = st.ModTime().UTC()
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Storage) worldPath(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid world name %q", name)
	}
	return filepath.Join(s.dir, "worlds", name+".json"), nil
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func (s *Storage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
