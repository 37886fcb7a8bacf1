package config

import (
	"fmt"
	"os"

	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

// EnvDatabaseDSN names the environment variable that enables Postgres persistence.
const EnvDatabaseDSN = "ISOTERRAIN_DB_DSN"

// Config holds the terrain service configuration.
type Config struct {
	Port          int     `json:"port"`
	DataDir       string  `json:"data_dir"`
	Seed          int64   `json:"seed"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	EnhancedWater bool    `json:"enhanced_water"`
	WaterLevel    float64 `json:"water_level"`
	Embankments   float64 `json:"embankment_probability"`
	StaticDensity float64 `json:"static_density"`
	MappingDir    string  `json:"mapping_dir"` // extra transition tables, merged over the built-in ones
	MaxWorldSize  int     `json:"max_world_size"`
	Migrations    string  `json:"migrations_dir"`
	CORSOrigin    string  `json:"cors_origin"` // empty allows any origin

	// DatabaseDSN comes from the environment only.
	DatabaseDSN string `json:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	def := terrain.DefaultOptions()
	return &Config{
		Port:          8080,
		DataDir:       "data",
		Width:         def.Width,
		Height:        def.Height,
		WaterLevel:    def.WaterThreshold,
		Embankments:   def.EmbankmentProbability,
		StaticDensity: def.Static.DensityMultiplier,
		MaxWorldSize:  256,
		Migrations:    "migrations",
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["port"] {
		cfg.Port = fromFile.Port
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["width"] {
		cfg.Width = fromFile.Width
	}
	if !explicitFlags["height"] {
		cfg.Height = fromFile.Height
	}
	if !explicitFlags["enhanced-water"] {
		cfg.EnhancedWater = fromFile.EnhancedWater
	}
	if !explicitFlags["water-level"] {
		cfg.WaterLevel = fromFile.WaterLevel
	}
	if !explicitFlags["embankments"] {
		cfg.Embankments = fromFile.Embankments
	}
	if !explicitFlags["static-density"] {
		cfg.StaticDensity = fromFile.StaticDensity
	}
	if !explicitFlags["mappings"] {
		cfg.MappingDir = fromFile.MappingDir
	}
	if !explicitFlags["max-world-size"] {
		cfg.MaxWorldSize = fromFile.MaxWorldSize
	}
	if !explicitFlags["migrations"] {
		cfg.Migrations = fromFile.Migrations
	}
	if !explicitFlags["cors-origin"] {
		cfg.CORSOrigin = fromFile.CORSOrigin
	}
}

// LoadEnv reads settings that only come from the environment.
func (c *Config) LoadEnv() {
	c.DatabaseDSN = os.Getenv(EnvDatabaseDSN)
}

// Validate reports settings no run can use.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("world size %dx%d must be positive", c.Width, c.Height)
	}
	if c.MaxWorldSize > 0 && (c.Width > c.MaxWorldSize || c.Height > c.MaxWorldSize) {
		return fmt.Errorf("world size %dx%d exceeds max %d", c.Width, c.Height, c.MaxWorldSize)
	}
	if c.WaterLevel < 0 || c.WaterLevel >= 1 {
		return fmt.Errorf("water level %v outside [0,1)", c.WaterLevel)
	}
	return nil
}

// TerrainOptions converts the config to generation options for a world of the
// given seed and size.
func (c *Config) TerrainOptions(seed int64, width, height int, enhanced bool) terrain.Options {
	opts := terrain.DefaultOptions()
	opts.Seed = seed
	opts.Width = width
	opts.Height = height
	opts.EnhancedWater = enhanced
	if c.WaterLevel > 0 {
		opts.WaterThreshold = c.WaterLevel
	}
	if c.Embankments != 0 {
		opts.EmbankmentProbability = c.Embankments
	}
	if c.StaticDensity > 0 {
		opts.Static.DensityMultiplier = c.StaticDensity
	}
	return opts
}

// DefaultTerrainOptions returns the options of the configured default world.
func (c *Config) DefaultTerrainOptions() terrain.Options {
	return c.TerrainOptions(c.Seed, c.Width, c.Height, c.EnhancedWater)
}
