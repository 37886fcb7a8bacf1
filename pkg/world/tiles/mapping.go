package tiles

import "sort"

// Cardinal neighbor bits of a transition bitmask. A set bit means that neighbor
// belongs to the other biome.
const (
	MaskN uint8 = 1
	MaskE uint8 = 2
	MaskS uint8 = 4
	MaskW uint8 = 8

	MaskAll = MaskN | MaskE | MaskS | MaskW
)

// Diagonal bits of an embankment slope bitmask, used when no cardinal neighbor is water.
const (
	SlopeNE uint8 = 16
	SlopeSE uint8 = 32
	SlopeSW uint8 = 64
	SlopeNW uint8 = 128
)

// TransitionKind names the shape a 4-bit bitmask depicts.
func TransitionKind(mask uint8) string {
	switch mask & MaskAll {
	case 0:
		return "pure"
	case MaskN, MaskE, MaskS, MaskW:
		return "edge"
	case MaskN | MaskE, MaskE | MaskS, MaskS | MaskW, MaskW | MaskN:
		return "outer_corner"
	case MaskN | MaskS, MaskE | MaskW:
		return "strait"
	case MaskAll:
		return "surrounded"
	default:
		return "inner_corner"
	}
}

// StampSize is the number of positions in a 3x3 stamp, row-major from the north-west.
const StampSize = 9

// Stamp is a 3x3 block of tiles placed as a unit; zero entries leave the cell alone.
type Stamp [StampSize]TileID

// PairKey identifies a transition from one biome into another.
type PairKey struct {
	From Biome
	To   Biome
}

// PairTable holds the candidates for each of the 16 bitmask values of a pair and
// the optional stamps keyed by bitmask.
type PairTable struct {
	Entries [16][]TileID
	Stamps  map[uint8]Stamp
}

// TransitionMapping is an externally authored, read-only lookup of transition tiles.
// Missing pairs and missing bitmasks are valid; callers fall back explicitly.
// A nil *TransitionMapping behaves as an empty mapping.
type TransitionMapping struct {
	pairs    map[PairKey]*PairTable
	priority map[Biome][]Biome
}

// NewTransitionMapping returns an empty mapping.
func NewTransitionMapping() *TransitionMapping {
	return &TransitionMapping{
		pairs:    make(map[PairKey]*PairTable),
		priority: make(map[Biome][]Biome),
	}
}

func (m *TransitionMapping) table(from, to Biome) *PairTable {
	k := PairKey{From: from, To: to}
	t, ok := m.pairs[k]
	if !ok {
		t = &PairTable{}
		m.pairs[k] = t
	}
	return t
}

// Set appends candidates for a bitmask of the (from, to) pair.
func (m *TransitionMapping) Set(from, to Biome, mask uint8, ids ...TileID) {
	if len(ids) == 0 {
		return
	}
	t := m.table(from, to)
	t.Entries[mask&MaskAll] = append(t.Entries[mask&MaskAll], ids...)
}

// SetStamp records a 3x3 stamp for a bitmask of the (from, to) pair.
func (m *TransitionMapping) SetStamp(from, to Biome, mask uint8, s Stamp) {
	t := m.table(from, to)
	if t.Stamps == nil {
		t.Stamps = make(map[uint8]Stamp)
	}
	t.Stamps[mask&MaskAll] = s
}

// DisableStamps drops every stamp of the (from, to) pair.
func (m *TransitionMapping) DisableStamps(from, to Biome) {
	if t, ok := m.pairs[PairKey{From: from, To: to}]; ok {
		t.Stamps = nil
	}
}

// SetPriority sets the order in which other biomes are considered for from.
func (m *TransitionMapping) SetPriority(from Biome, others ...Biome) {
	m.priority[from] = append([]Biome(nil), others...)
}

// Others returns the biomes from may transition into. Biomes on the explicit priority
// list come first in that order; every other mapped pair follows in biome order.
func (m *TransitionMapping) Others(from Biome) []Biome {
	if m == nil {
		return nil
	}
	listed := m.priority[from]
	seen := make(map[Biome]bool, len(listed))
	for _, b := range listed {
		seen[b] = true
	}

	var rest []Biome
	for k := range m.pairs {
		if k.From == from && !seen[k.To] {
			rest = append(rest, k.To)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	out := make([]Biome, 0, len(listed)+len(rest))
	out = append(out, listed...)
	return append(out, rest...)
}

// Pair returns the table of the (from, to) pair.
func (m *TransitionMapping) Pair(from, to Biome) (*PairTable, bool) {
	if m == nil {
		return nil, false
	}
	t, ok := m.pairs[PairKey{From: from, To: to}]
	return t, ok
}

// Lookup returns the candidates recorded for exactly this bitmask.
func (m *TransitionMapping) Lookup(from, to Biome, mask uint8) ([]TileID, bool) {
	t, ok := m.Pair(from, to)
	if !ok {
		return nil, false
	}
	ids := t.Entries[mask&MaskAll]
	return ids, len(ids) > 0
}

// Resolve returns the candidates for mask, falling back to the pure (bitmask 0) entry.
// The returned mask is the entry actually used. ok is false when neither exists.
func (m *TransitionMapping) Resolve(from, to Biome, mask uint8) ([]TileID, uint8, bool) {
	if ids, ok := m.Lookup(from, to, mask); ok {
		return ids, mask & MaskAll, true
	}
	if ids, ok := m.Lookup(from, to, 0); ok {
		return ids, 0, true
	}
	return nil, 0, false
}

// Stamp returns the stamp for a bitmask of the (from, to) pair.
func (m *TransitionMapping) Stamp(from, to Biome, mask uint8) (Stamp, bool) {
	t, ok := m.Pair(from, to)
	if !ok || t.Stamps == nil {
		return Stamp{}, false
	}
	s, ok := t.Stamps[mask&MaskAll]
	return s, ok
}

// Pairs returns the mapped pair keys in a stable order.
func (m *TransitionMapping) Pairs() []PairKey {
	if m == nil {
		return nil
	}
	keys := make([]PairKey, 0, len(m.pairs))
	for k := range m.pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	return keys
}

// Len returns the number of mapped pairs.
func (m *TransitionMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Merge copies every entry, stamp and priority of other into m. Entries of other
// replace entries of m for the same pair and bitmask.
func (m *TransitionMapping) Merge(other *TransitionMapping) {
	if other == nil {
		return
	}
	for _, k := range other.Pairs() {
		src := other.pairs[k]
		dst := m.table(k.From, k.To)
		for mask, ids := range src.Entries {
			if len(ids) > 0 {
				dst.Entries[mask] = append([]TileID(nil), ids...)
			}
		}
		for mask, s := range src.Stamps {
			if dst.Stamps == nil {
				dst.Stamps = make(map[uint8]Stamp)
			}
			dst.Stamps[mask] = s
		}
	}
	for from, others := range other.priority {
		m.SetPriority(from, others...)
	}
}
