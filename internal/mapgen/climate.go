package mapgen

import "github.com/talgya/hexworld/internal/world"

// climateCycles is the number of simulation steps run per map.
const climateCycles = 40

type climateData struct {
	clouds, moisture float64
}

// createClimate runs the cloud and moisture simulation. Each cycle reads
// gen.climate and writes gen.next, then the buffers swap.
func (gen *Generator) createClimate() {
	n := gen.grid.CellCount()
	gen.climate = resize(gen.climate, n)
	gen.next = resize(gen.next, n)

	initial := climateData{moisture: gen.Config.StartingMoisture}
	for i := range gen.climate {
		gen.climate[i] = initial
		gen.next[i] = climateData{}
	}

	for cycle := 0; cycle < climateCycles; cycle++ {
		for i := 0; i < n; i++ {
			gen.evolveClimate(i)
		}
		gen.climate, gen.next = gen.next, gen.climate
	}
}

func resize(s []climateData, n int) []climateData {
	if cap(s) < n {
		return make([]climateData, n)
	}
	return s[:n]
}

func (gen *Generator) evolveClimate(i int) {
	cfg := gen.Config
	g := gen.grid
	cell := g.Cell(i)
	data := gen.climate[i]

	if cell.IsUnderwater() {
		data.moisture = 1
		data.clouds += cfg.EvaporationFactor
	} else {
		evaporation := data.moisture * cfg.EvaporationFactor
		data.moisture -= evaporation
		data.clouds += evaporation
	}

	precipitation := data.clouds * cfg.PrecipitationFactor
	data.clouds -= precipitation
	data.moisture += precipitation

	cloudMaximum := 1 - float64(cell.ViewElevation())/(float64(cfg.ElevationMaximum)+1)
	if data.clouds > cloudMaximum {
		data.moisture += data.clouds - cloudMaximum
		data.clouds = cloudMaximum
	}

	mainDispersal := cfg.WindDirection.Opposite()
	cloudDispersal := data.clouds * (1 / (5 + cfg.WindStrength))
	runoff := data.moisture * cfg.RunoffFactor * (1.0 / 6)
	seepage := data.moisture * cfg.SeepageFactor * (1.0 / 6)

	for d := world.NE; d <= world.NW; d++ {
		neighbor := g.Neighbor(cell, d)
		if neighbor == nil {
			continue
		}
		next := &gen.next[neighbor.Index]
		if d == mainDispersal {
			next.clouds += cloudDispersal * cfg.WindStrength
		} else {
			next.clouds += cloudDispersal
		}

		delta := neighbor.ViewElevation() - cell.ViewElevation()
		if delta < 0 {
			data.moisture -= runoff
			next.moisture += runoff
		} else if delta == 0 {
			data.moisture -= seepage
			next.moisture += seepage
		}
	}

	next := &gen.next[i]
	next.moisture += data.moisture
	if next.moisture > 1 {
		next.moisture = 1
	}
	gen.climate[i] = climateData{}
}
