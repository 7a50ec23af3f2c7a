package mapgen

import (
	"fmt"
	"strings"

	"github.com/talgya/hexworld/internal/world"
)

// Hemisphere selects which latitudes the map spans.
type Hemisphere uint8

const (
	HemisphereBoth Hemisphere = iota
	HemisphereNorth
	HemisphereSouth
)

func (h Hemisphere) String() string {
	switch h {
	case HemisphereNorth:
		return "north"
	case HemisphereSouth:
		return "south"
	default:
		return "both"
	}
}

// MarshalText encodes the hemisphere by name.
func (h Hemisphere) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes "both", "north" or "south".
func (h *Hemisphere) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "both", "":
		*h = HemisphereBoth
	case "north":
		*h = HemisphereNorth
	case "south":
		*h = HemisphereSouth
	default:
		return fmt.Errorf("unknown hemisphere %q", b)
	}
	return nil
}

// Config holds map generation parameters.
type Config struct {
	FixedSeed bool  `yaml:"fixedSeed"` // Use Seed instead of drawing a fresh one
	Seed      int64 `yaml:"seed"`

	ChunkSizeMin   int `yaml:"chunkSizeMin"` // Cells raised or sunk per land step
	ChunkSizeMax   int `yaml:"chunkSizeMax"`
	LandPercentage int `yaml:"landPercentage"`
	WaterLevel     int `yaml:"waterLevel"`

	ElevationMinimum int `yaml:"elevationMinimum"`
	ElevationMaximum int `yaml:"elevationMaximum"`

	MapBorderX   int `yaml:"mapBorderX"`
	MapBorderZ   int `yaml:"mapBorderZ"`
	RegionBorder int `yaml:"regionBorder"`
	RegionCount  int `yaml:"regionCount"`

	ErosionPercentage int `yaml:"erosionPercentage"`

	JitterProbability   float64 `yaml:"jitterProbability"`
	HighRiseProbability float64 `yaml:"highRiseProbability"` // Chance a land step moves two levels
	SinkProbability     float64 `yaml:"sinkProbability"`

	EvaporationFactor   float64         `yaml:"evaporationFactor"`
	PrecipitationFactor float64         `yaml:"precipitationFactor"`
	RunoffFactor        float64         `yaml:"runoffFactor"`
	SeepageFactor       float64         `yaml:"seepageFactor"`
	WindDirection       world.Direction `yaml:"windDirection"`
	WindStrength        float64         `yaml:"windStrength"`
	StartingMoisture    float64         `yaml:"startingMoisture"`

	RiverPercentage      int     `yaml:"riverPercentage"`
	ExtraLakeProbability float64 `yaml:"extraLakeProbability"`

	LowTemperature    float64    `yaml:"lowTemperature"`
	HighTemperature   float64    `yaml:"highTemperature"`
	Hemisphere        Hemisphere `yaml:"hemisphere"`
	TemperatureJitter float64    `yaml:"temperatureJitter"`
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		ChunkSizeMin:         30,
		ChunkSizeMax:         100,
		LandPercentage:       50,
		WaterLevel:           3,
		ElevationMinimum:     -2,
		ElevationMaximum:     8,
		MapBorderX:           5,
		MapBorderZ:           5,
		RegionBorder:         5,
		RegionCount:          1,
		ErosionPercentage:    50,
		JitterProbability:    0.25,
		HighRiseProbability:  0.25,
		SinkProbability:      0.2,
		EvaporationFactor:    0.5,
		PrecipitationFactor:  0.25,
		RunoffFactor:         0.25,
		SeepageFactor:        0.125,
		WindDirection:        world.NW,
		WindStrength:         4,
		StartingMoisture:     0.1,
		RiverPercentage:      10,
		ExtraLakeProbability: 0.25,
		LowTemperature:       0,
		HighTemperature:      1,
		Hemisphere:           HemisphereBoth,
		TemperatureJitter:    0.1,
	}
}

// Validate checks that every setting lies in its usable range.
func (c Config) Validate() error {
	switch {
	case c.ChunkSizeMin < 1 || c.ChunkSizeMax <= c.ChunkSizeMin:
		return fmt.Errorf("chunk size range %d..%d is empty", c.ChunkSizeMin, c.ChunkSizeMax)
	case c.LandPercentage < 5 || c.LandPercentage > 95:
		return fmt.Errorf("land percentage must be within 5..95, got %d", c.LandPercentage)
	case c.ElevationMaximum <= c.ElevationMinimum:
		return fmt.Errorf("elevation range %d..%d is empty", c.ElevationMinimum, c.ElevationMaximum)
	case c.WaterLevel < 0 || c.WaterLevel > c.ElevationMaximum:
		return fmt.Errorf("water level must be within 0..%d, got %d", c.ElevationMaximum, c.WaterLevel)
	case c.ElevationMinimum < -127 || c.ElevationMaximum > 127:
		return fmt.Errorf("elevation range %d..%d does not fit the save format", c.ElevationMinimum, c.ElevationMaximum)
	case c.RegionCount < 1 || c.RegionCount > 4:
		return fmt.Errorf("region count must be within 1..4, got %d", c.RegionCount)
	case c.MapBorderX < 0 || c.MapBorderZ < 0 || c.RegionBorder < 0:
		return fmt.Errorf("borders must not be negative")
	case c.ErosionPercentage < 0 || c.ErosionPercentage > 100:
		return fmt.Errorf("erosion percentage must be within 0..100, got %d", c.ErosionPercentage)
	case c.RiverPercentage < 0 || c.RiverPercentage > 20:
		return fmt.Errorf("river percentage must be within 0..20, got %d", c.RiverPercentage)
	case c.WindStrength < 1:
		return fmt.Errorf("wind strength must be at least 1, got %g", c.WindStrength)
	case c.WindDirection > world.NW:
		return fmt.Errorf("invalid wind direction %d", c.WindDirection)
	case c.HighTemperature < c.LowTemperature:
		return fmt.Errorf("temperature range %g..%g is empty", c.LowTemperature, c.HighTemperature)
	}
	return nil
}
