package noise

const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// Rand is a small deterministic LCG. Every stochastic step of generation draws from a
// Rand derived from the run seed; nothing reads a global random source.
type Rand struct {
	state uint64
}

// NewRand creates a Rand for seed. Salt separates independent streams of one seed.
func NewRand(seed, salt int64) *Rand {
	r := &Rand{state: mix64(uint64(seed) ^ (uint64(salt) * 0x9e3779b97f4a7c15))}
	r.next()
	return r
}

// Derive returns a new independent stream seeded from r's current state and salt.
func (r *Rand) Derive(salt int64) *Rand {
	return &Rand{state: mix64(r.next() ^ uint64(salt)*0xbf58476d1ce4e5b9)}
}

func (r *Rand) next() uint64 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return r.state
}

// Uint64 returns the next 64 pseudo-random bits.
func (r *Rand) Uint64() uint64 {
	return mix64(r.next())
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// Range returns an int in [lo, hi].
func (r *Rand) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// FloatRange returns a float in [lo, hi).
func (r *Rand) FloatRange(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}
