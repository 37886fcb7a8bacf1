package tiles

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

type mappingFile struct {
	Priority map[string][]string `json:"priority"`
	Pairs    []pairFile          `json:"pairs"`
}

type pairFile struct {
	From    string              `json:"from"`
	To      string              `json:"to"`
	Entries map[string][]TileID `json:"entries"`
	Stamps  map[string][]TileID `json:"stamps"`
}

// LoadMapping decodes a mapping exported by the tile authoring tool. Unknown biomes and
// out-of-range bitmasks are skipped with a warning; a pair with any malformed stamp keeps
// its bitmask entries but loses all stamps.
func LoadMapping(r io.Reader, log *slog.Logger) (*TransitionMapping, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var f mappingFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}

	m := NewTransitionMapping()
	for _, p := range f.Pairs {
		from, err := ParseBiome(p.From)
		if err != nil {
			log.Warn("skip mapping pair", "from", p.From, "to", p.To, "error", err)
			continue
		}
		to, err := ParseBiome(p.To)
		if err != nil {
			log.Warn("skip mapping pair", "from", p.From, "to", p.To, "error", err)
			continue
		}

		for key, ids := range p.Entries {
			mask, ok := parseMask(key)
			if !ok {
				log.Warn("skip mapping entry", "pair", p.From+"/"+p.To, "bitmask", key)
				continue
			}
			m.Set(from, to, mask, ids...)
		}

		stamps, ok := parseStamps(p.Stamps)
		if !ok {
			log.Warn("malformed stamps, using bitmask matching", "pair", p.From+"/"+p.To)
			continue
		}
		for mask, s := range stamps {
			m.SetStamp(from, to, mask, s)
		}
	}

	for name, others := range f.Priority {
		from, err := ParseBiome(name)
		if err != nil {
			log.Warn("skip mapping priority", "biome", name, "error", err)
			continue
		}
		list := make([]Biome, 0, len(others))
		for _, o := range others {
			b, err := ParseBiome(o)
			if err != nil {
				log.Warn("skip mapping priority entry", "biome", name, "other", o)
				continue
			}
			list = append(list, b)
		}
		m.SetPriority(from, list...)
	}

	return m, nil
}

// LoadMappingDir merges every *.json mapping in dir in name order. Files that fail to
// parse are logged and skipped.
func LoadMappingDir(dir string, log *slog.Logger) (*TransitionMapping, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("open mapping dir: %w", err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list mappings in %s: %w", dir, err)
	}
	sort.Strings(paths)

	merged := NewTransitionMapping()
	for _, path := range paths {
		m, err := loadMappingFile(path, log)
		if err != nil {
			log.Warn("skip mapping file", "path", path, "error", err)
			continue
		}
		merged.Merge(m)
		log.Debug("loaded mapping file", "path", path, "pairs", m.Len())
	}
	return merged, nil
}

func loadMappingFile(path string, log *slog.Logger) (*TransitionMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping: %w", err)
	}
	defer f.Close()
	return LoadMapping(f, log)
}

func parseMask(key string) (uint8, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || n > int(MaskAll) {
		return 0, false
	}
	return uint8(n), true
}

func parseStamps(raw map[string][]TileID) (map[uint8]Stamp, bool) {
	out := make(map[uint8]Stamp, len(raw))
	for key, ids := range raw {
		mask, ok := parseMask(key)
		if !ok || len(ids) != StampSize {
			return nil, false
		}
		var s Stamp
		copy(s[:], ids)
		out[mask] = s
	}
	return out, true
}
