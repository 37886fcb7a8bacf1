// Package mappings fetches authored transition tables and loads them over the
// built-in defaults.
package mappings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	getter "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/isoterrain/pkg/world/tiles"
)

// Fetch downloads the mapping directory at src into dst, replacing whatever is
// there. src accepts any go-getter address (local path, git::, https://, s3::).
func Fetch(ctx context.Context, src, dst string, log *slog.Logger) error {
	if src == "" {
		return errors.New("mapping source required")
	}
	if dst == "" {
		return errors.New("mapping destination required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("clear %s: %w", dst, err)
	}

	log.Info("start fetching mappings", "src", src, "dst", dst)
	if err := getter.Get(dst, src, getter.WithContext(ctx)); err != nil {
		return fmt.Errorf("fetch mappings from %s: %w", src, err)
	}
	log.Info("done fetching mappings", "dst", dst)
	return nil
}

// Load returns the built-in mapping with every table in dir merged over it. An
// empty dir, or one that cannot be read, yields the built-in mapping alone.
func Load(dir string, log *slog.Logger) *tiles.TransitionMapping {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	m := tiles.DefaultMapping()
	if dir == "" {
		return m
	}

	loaded, err := tiles.LoadMappingDir(dir, log)
	if err != nil {
		log.Warn("mappings unavailable, using built-in tables", "dir", dir, "error", err)
		return m
	}
	m.Merge(loaded)
	log.Info("mappings loaded", "dir", dir, "pairs", loaded.Len())
	return m
}
