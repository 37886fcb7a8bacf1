package tiles

import "fmt"

// Biome is the categorical terrain type of a cell.
type Biome uint8

const (
	BiomeNone Biome = iota
	BiomeWater
	BiomeGrass
	BiomeForest
	BiomeJungle
	BiomeSand
	BiomeRock
	BiomeDirt
	BiomeSwamp
)

var biomeNames = [...]string{
	BiomeNone:   "none",
	BiomeWater:  "water",
	BiomeGrass:  "grass",
	BiomeForest: "forest",
	BiomeJungle: "jungle",
	BiomeSand:   "sand",
	BiomeRock:   "rock",
	BiomeDirt:   "dirt",
	BiomeSwamp:  "swamp",
}

// Biomes lists every concrete biome in declaration order.
func Biomes() []Biome {
	return []Biome{BiomeWater, BiomeGrass, BiomeForest, BiomeJungle, BiomeSand, BiomeRock, BiomeDirt, BiomeSwamp}
}

func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return fmt.Sprintf("biome(%d)", uint8(b))
}

// IsLand reports whether b is a concrete non-water biome.
func (b Biome) IsLand() bool {
	return b != BiomeNone && b != BiomeWater
}

// ParseBiome returns the biome named s.
func ParseBiome(s string) (Biome, error) {
	for i, name := range biomeNames {
		if name == s && Biome(i) != BiomeNone {
			return Biome(i), nil
		}
	}
	return BiomeNone, fmt.Errorf("unknown biome %q", s)
}

func (b Biome) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Biome) UnmarshalText(text []byte) error {
	v, err := ParseBiome(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// WaterType distinguishes the feature a water cell belongs to.
type WaterType uint8

const (
	WaterNone WaterType = iota
	WaterOcean
	WaterLake
	WaterPond
	WaterRiver
)

var waterNames = [...]string{
	WaterNone:  "",
	WaterOcean: "ocean",
	WaterLake:  "lake",
	WaterPond:  "pond",
	WaterRiver: "river",
}

func (w WaterType) String() string {
	if int(w) < len(waterNames) {
		return waterNames[w]
	}
	return fmt.Sprintf("water(%d)", uint8(w))
}

func (w WaterType) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *WaterType) UnmarshalText(text []byte) error {
	for i, name := range waterNames {
		if name == string(text) {
			*w = WaterType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown water type %q", text)
}
