package noise

// Simplex gradient noise over a seeded permutation table.
// Produces values in the range [-1, 1].

// grad2 are the gradient directions used for 2D simplex noise.
var grad2 = [8][2]float64{
	{1, 1},
	{-1, 1},
	{1, -1},
	{-1, -1},
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
}

// Field produces deterministic 2D gradient noise from a seed.
type Field struct {
	perm [512]int
}

// New creates a Field with a permutation table shuffled by a linear-congruential
// Fisher-Yates pass over the seed. The same seed always yields the same field.
func New(seed int64) *Field {
	f := &Field{}

	var p [256]int
	for i := range p {
		p[i] = i
	}

	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*lcgMultiplier + lcgIncrement
		j := int((s >> 33) % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}

	// Double the table so lookups can skip wrapping.
	for i := 0; i < 512; i++ {
		f.perm[i] = p[i&255]
	}
	return f
}

// Noise2D returns 2D simplex noise for the given coordinates in [-1, 1].
func (f *Field) Noise2D(x, y float64) float64 {
	const (
		f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
		g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	)

	s := (x + y) * f2
	i := fastFloor(x + s)
	j := fastFloor(y + s)

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1.0 + 2.0*g2
	y2 := y0 - 1.0 + 2.0*g2

	ii := i & 255
	jj := j & 255
	gi0 := f.perm[ii+f.perm[jj]] & 7
	gi1 := f.perm[ii+i1+f.perm[jj+j1]] & 7
	gi2 := f.perm[ii+1+f.perm[jj+1]] & 7

	var n0, n1, n2 float64

	t0 := 0.5 - x0*x0 - y0*y0
	if t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot2(grad2[gi0], x0, y0)
	}

	t1 := 0.5 - x1*x1 - y1*y1
	if t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot2(grad2[gi1], x1, y1)
	}

	t2 := 0.5 - x2*x2 - y2*y2
	if t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot2(grad2[gi2], x2, y2)
	}

	return clampUnit(70.0 * (n0 + n1 + n2))
}

// FBM layers octaves of Noise2D, each at lacunarity times the previous frequency and
// persistence times the previous amplitude, normalized by the total amplitude.
// Returns a value in [-1, 1].
func (f *Field) FBM(x, y float64, octaves int, lacunarity, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	var total, maxVal float64
	frequency := 1.0
	amplitude := 1.0

	for range octaves {
		total += f.Noise2D(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if maxVal == 0 {
		return 0
	}
	return clampUnit(total / maxVal)
}

// Unit maps a [-1, 1] noise value into [0, 1].
func Unit(v float64) float64 {
	return (clampUnit(v) + 1) / 2
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}

func dot2(g [2]float64, x, y float64) float64 {
	return g[0]*x + g[1]*y
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
