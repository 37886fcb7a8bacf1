package terrain

// Options configures one generation run. Every field is defaulted independently:
// zero values are replaced by the DefaultOptions value when the run starts.
type Options struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Seed   int64 `json:"seed"`

	// WaterThreshold is the elevation below which the classifier yields water.
	WaterThreshold float64 `json:"water_threshold"`
	// EnhancedWater switches the classifier to EnhancedWaterThreshold.
	EnhancedWater          bool    `json:"enhanced_water"`
	EnhancedWaterThreshold float64 `json:"enhanced_water_threshold"`

	ElevationScale float64 `json:"elevation_scale"`
	MoistureScale  float64 `json:"moisture_scale"`
	Octaves        int     `json:"octaves"`
	Lacunarity     float64 `json:"lacunarity"`
	Persistence    float64 `json:"persistence"`
	// Contrast stretches raw fBm around its midpoint before mapping to [0,1].
	Contrast float64 `json:"contrast"`

	// EmbankmentProbability is the chance a qualifying water edge becomes a cliff.
	// Negative disables embankments.
	EmbankmentProbability float64 `json:"embankment_probability"`

	MaxHeight              int `json:"max_height"`
	CliffMinHeight         int `json:"cliff_min_height"`
	WaterAdjacentMinHeight int `json:"water_adjacent_min_height"`
	SmoothPasses           int `json:"smooth_passes"`
	SmoothClamp            int `json:"smooth_clamp"`
	HoleFillPasses         int `json:"hole_fill_passes"`

	Static StaticOptions `json:"static"`
}

// DefaultOptions returns the defaults for a 64x64 world.
func DefaultOptions() Options {
	return Options{
		Width:                  64,
		Height:                 64,
		WaterThreshold:         0.35,
		EnhancedWaterThreshold: 0.42,
		ElevationScale:         0.045,
		MoistureScale:          0.06,
		Octaves:                5,
		Lacunarity:             2.0,
		Persistence:            0.5,
		Contrast:               1.6,
		EmbankmentProbability:  0.6,
		MaxHeight:              25,
		CliffMinHeight:         5,
		WaterAdjacentMinHeight: 4,
		SmoothPasses:           4,
		SmoothClamp:            2,
		HoleFillPasses:         3,
		Static:                 DefaultStaticOptions(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.WaterThreshold <= 0 {
		o.WaterThreshold = def.WaterThreshold
	}
	if o.EnhancedWaterThreshold <= 0 {
		o.EnhancedWaterThreshold = def.EnhancedWaterThreshold
	}
	if o.ElevationScale <= 0 {
		o.ElevationScale = def.ElevationScale
	}
	if o.MoistureScale <= 0 {
		o.MoistureScale = def.MoistureScale
	}
	if o.Octaves <= 0 {
		o.Octaves = def.Octaves
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = def.Lacunarity
	}
	if o.Persistence <= 0 {
		o.Persistence = def.Persistence
	}
	if o.Contrast <= 0 {
		o.Contrast = def.Contrast
	}
	if o.EmbankmentProbability == 0 {
		o.EmbankmentProbability = def.EmbankmentProbability
	}
	if o.EmbankmentProbability < 0 {
		o.EmbankmentProbability = 0
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = def.MaxHeight
	}
	if o.CliffMinHeight <= 0 {
		o.CliffMinHeight = def.CliffMinHeight
	}
	if o.WaterAdjacentMinHeight <= 0 {
		o.WaterAdjacentMinHeight = def.WaterAdjacentMinHeight
	}
	if o.SmoothPasses <= 0 {
		o.SmoothPasses = def.SmoothPasses
	}
	if o.SmoothClamp <= 0 {
		o.SmoothClamp = def.SmoothClamp
	}
	if o.HoleFillPasses <= 0 {
		o.HoleFillPasses = def.HoleFillPasses
	}
	o.Static = o.Static.withDefaults()
	return o
}

// WaterLevel returns the classifier water cutoff for these options.
func (o Options) WaterLevel() float64 {
	if o.EnhancedWater {
		return o.EnhancedWaterThreshold
	}
	return o.WaterThreshold
}
