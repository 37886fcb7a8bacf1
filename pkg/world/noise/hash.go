package noise

// Hash2 returns a stable hash of 2D integer coordinates and a seed.
func Hash2(seed int64, x, y int) uint64 {
	h := uint64(seed)
	h ^= uint64(uint32(x)) * 0x9e3779b1
	h ^= uint64(uint32(y)) * 0x85ebca6b << 1
	return mix64(h)
}

// Unit2 maps Hash2 into [0, 1). It is the position-hashed probability used where a
// decision must be a pure function of coordinates.
func Unit2(seed int64, x, y int) float64 {
	return float64(Hash2(seed, x, y)>>11) / (1 << 53)
}

// SeedRoll returns a value in [0, 1) that depends only on seed and salt.
func SeedRoll(seed, salt int64) float64 {
	return float64(mix64(uint64(seed)^uint64(salt)*0x94d049bb133111eb)>>11) / (1 << 53)
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
