package tiles

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
)

// Fingerprint hashes every pair, entry, stamp and priority of m. Equal mappings give
// equal fingerprints regardless of the order they were built in.
func (m *TransitionMapping) Fingerprint() uint64 {
	h := fnv.New64a()
	if m == nil {
		return h.Sum64()
	}
	put := func(v int64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		h.Write(b[:])
	}

	for _, k := range m.Pairs() {
		t := m.pairs[k]
		put(int64(k.From))
		put(int64(k.To))
		for mask, ids := range t.Entries {
			put(int64(mask))
			put(int64(len(ids)))
			for _, id := range ids {
				put(int64(id))
			}
		}
		masks := make([]int, 0, len(t.Stamps))
		for mask := range t.Stamps {
			masks = append(masks, int(mask))
		}
		sort.Ints(masks)
		for _, mask := range masks {
			put(-int64(mask) - 1)
			for _, id := range t.Stamps[uint8(mask)] {
				put(int64(id))
			}
		}
	}

	froms := make([]int, 0, len(m.priority))
	for b := range m.priority {
		froms = append(froms, int(b))
	}
	sort.Ints(froms)
	for _, b := range froms {
		put(int64(b) << 32)
		for _, o := range m.priority[Biome(b)] {
			put(int64(o))
		}
	}
	return h.Sum64()
}
