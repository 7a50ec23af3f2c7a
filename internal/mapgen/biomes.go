package mapgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexworld/internal/world"
)

// Terrain type indices.
const (
	TerrainSand = iota
	TerrainGrass
	TerrainMud
	TerrainStone
	TerrainSnow
)

// TerrainName returns the display name of a terrain type index.
func TerrainName(t int) string {
	switch t {
	case TerrainSand:
		return "sand"
	case TerrainGrass:
		return "grass"
	case TerrainMud:
		return "mud"
	case TerrainStone:
		return "stone"
	case TerrainSnow:
		return "snow"
	}
	return "unknown"
}

// jitterScale converts world units to noise space for temperature jitter.
const jitterScale = 0.003

type biome struct {
	terrain, plant int
}

var (
	temperatureBands = [3]float64{0.1, 0.3, 0.6}
	moistureBands    = [3]float64{0.12, 0.28, 0.85}

	// biomes is indexed by temperature band * 4 + moisture band.
	biomes = [16]biome{
		{0, 0}, {4, 0}, {4, 0}, {4, 0},
		{0, 0}, {2, 0}, {2, 1}, {2, 2},
		{0, 0}, {1, 0}, {1, 1}, {1, 2},
		{0, 0}, {1, 1}, {1, 2}, {1, 3},
	}
)

// setTerrainType classifies every cell. Land cells get a biome from their
// temperature and moisture; underwater cells are typed by their shoreline.
func (gen *Generator) setTerrainType(seed int64) {
	cfg := gen.Config
	g := gen.grid
	noise := opensimplex.NewNormalized(seed)
	rockDesertElevation := cfg.ElevationMaximum - (cfg.ElevationMaximum-cfg.WaterLevel)/2

	for i := 0; i < g.CellCount(); i++ {
		cell := g.Cell(i)
		temperature := gen.temperature(cell, noise)
		moisture := gen.climate[i].moisture

		if !cell.IsUnderwater() {
			t := band(temperature, temperatureBands[:])
			m := band(moisture, moistureBands[:])
			b := biomes[t*4+m]

			if b.terrain == TerrainSand {
				if cell.Elevation() >= rockDesertElevation {
					b.terrain = TerrainStone
				}
			} else if cell.Elevation() == cfg.ElevationMaximum {
				b.terrain = TerrainSnow
			}

			if b.terrain == TerrainSnow {
				b.plant = 0
			} else if b.plant < 3 && cell.HasRiver() {
				b.plant++
			}

			cell.TerrainType = b.terrain
			cell.PlantLevel = b.plant
			continue
		}

		terrain := gen.underwaterTerrain(cell)
		if terrain == TerrainGrass && temperature < temperatureBands[0] {
			terrain = TerrainMud
		}
		cell.TerrainType = terrain
	}
}

func band(v float64, bands []float64) int {
	i := 0
	for ; i < len(bands); i++ {
		if v < bands[i] {
			break
		}
	}
	return i
}

// underwaterTerrain types a submerged cell. Shallow water next to cliffs is
// stone, next to gentle shores sand; deeper water is mud or stone.
func (gen *Generator) underwaterTerrain(cell *world.Cell) int {
	waterLevel := gen.Config.WaterLevel
	switch {
	case cell.Elevation() == waterLevel-1:
		cliffs, slopes := 0, 0
		for d := world.NE; d <= world.NW; d++ {
			n := gen.grid.Neighbor(cell, d)
			if n == nil {
				continue
			}
			delta := n.Elevation() - cell.WaterLevel()
			if delta == 0 {
				slopes++
			} else if delta > 0 {
				cliffs++
			}
		}
		switch {
		case cliffs+slopes > 3:
			return TerrainGrass
		case cliffs > 0:
			return TerrainStone
		case slopes > 0:
			return TerrainSand
		default:
			return TerrainGrass
		}
	case cell.Elevation() >= waterLevel:
		// Lake cells sit above the global water level.
		return TerrainGrass
	case cell.Elevation() < 0:
		return TerrainStone
	default:
		return TerrainMud
	}
}

// temperature returns a cell's temperature from latitude, cooled with
// altitude and jittered with simplex noise.
func (gen *Generator) temperature(cell *world.Cell, noise opensimplex.Noise) float64 {
	cfg := gen.Config
	_, z := cell.Coord.ToOffset()
	latitude := float64(z) / float64(gen.grid.Height)

	switch cfg.Hemisphere {
	case HemisphereBoth:
		latitude *= 2
		if latitude > 1 {
			latitude = 2 - latitude
		}
	case HemisphereNorth:
		latitude = 1 - latitude
	}

	temperature := cfg.LowTemperature + (cfg.HighTemperature-cfg.LowTemperature)*latitude
	temperature *= 1 - float64(cell.ViewElevation()-cfg.WaterLevel)/
		float64(cfg.ElevationMaximum-cfg.WaterLevel+1)

	px, pz := world.CellCenter(cell.Coord.ToOffset())
	jitter := noise.Eval2(px*jitterScale, pz*jitterScale)
	temperature += (jitter*2 - 1) * cfg.TemperatureJitter
	return temperature
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
