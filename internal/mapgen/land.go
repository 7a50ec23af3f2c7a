package mapgen

import (
	"log/slog"
	"math"

	"github.com/talgya/hexworld/internal/world"
)

// landGuard caps the number of raise/sink rounds.
const landGuard = 10000

// region is an inset rectangle of offset coordinates, max exclusive.
type region struct {
	xMin, xMax int
	zMin, zMax int
}

func (gen *Generator) createRegions() {
	cfg := gen.Config
	w, h := gen.grid.Width, gen.grid.Height
	gen.regions = gen.regions[:0]

	borderX := cfg.MapBorderX
	if gen.grid.Wrapping {
		borderX = cfg.RegionBorder
	}

	var r region
	switch cfg.RegionCount {
	default:
		if gen.grid.Wrapping {
			borderX = 0
		}
		r = region{xMin: borderX, xMax: w - borderX, zMin: cfg.MapBorderZ, zMax: h - cfg.MapBorderZ}
		gen.regions = append(gen.regions, r)

	case 2:
		if gen.value() < 0.5 {
			r = region{xMin: borderX, xMax: w/2 - cfg.RegionBorder, zMin: cfg.MapBorderZ, zMax: h - cfg.MapBorderZ}
			gen.regions = append(gen.regions, r)
			r.xMin = w/2 + cfg.RegionBorder
			r.xMax = w - borderX
			gen.regions = append(gen.regions, r)
		} else {
			if gen.grid.Wrapping {
				borderX = 0
			}
			r = region{xMin: borderX, xMax: w - borderX, zMin: cfg.MapBorderZ, zMax: h/2 - cfg.RegionBorder}
			gen.regions = append(gen.regions, r)
			r.zMin = h/2 + cfg.RegionBorder
			r.zMax = h - cfg.MapBorderZ
			gen.regions = append(gen.regions, r)
		}

	case 3:
		r = region{xMin: borderX, xMax: w/3 - cfg.RegionBorder, zMin: cfg.MapBorderZ, zMax: h - cfg.MapBorderZ}
		gen.regions = append(gen.regions, r)
		r.xMin = w/3 + cfg.RegionBorder
		r.xMax = w*2/3 - cfg.RegionBorder
		gen.regions = append(gen.regions, r)
		r.xMin = w*2/3 + cfg.RegionBorder
		r.xMax = w - borderX
		gen.regions = append(gen.regions, r)

	case 4:
		r = region{xMin: borderX, xMax: w/2 - cfg.RegionBorder, zMin: cfg.MapBorderZ, zMax: h/2 - cfg.RegionBorder}
		gen.regions = append(gen.regions, r)
		r.xMin = w/2 + cfg.RegionBorder
		r.xMax = w - borderX
		gen.regions = append(gen.regions, r)
		r.zMin = h/2 + cfg.RegionBorder
		r.zMax = h - cfg.MapBorderZ
		gen.regions = append(gen.regions, r)
		r.xMin = borderX
		r.xMax = w/2 - cfg.RegionBorder
		gen.regions = append(gen.regions, r)
	}
}

// randomCell picks a cell inside the region. Regions squeezed empty by
// large borders on small maps collapse to their minimum corner.
func (gen *Generator) randomCell(r region) *world.Cell {
	x := clamp(gen.rangeInt(r.xMin, r.xMax), 0, gen.grid.Width-1)
	z := clamp(gen.rangeInt(r.zMin, r.zMax), 0, gen.grid.Height-1)
	return gen.grid.CellAt(x, z)
}

// createLand raises and sinks chunks until the land budget, the count of
// cells that must end at or above water level, is used up.
func (gen *Generator) createLand(report *Report) {
	cfg := gen.Config
	budget := int(math.Round(float64(gen.grid.CellCount()) * float64(cfg.LandPercentage) * 0.01))
	report.LandBudget = budget

	done := false
	for guard := 0; guard < landGuard && !done; guard++ {
		sink := gen.value() < cfg.SinkProbability
		for _, r := range gen.regions {
			chunkSize := gen.rangeInt(cfg.ChunkSizeMin, cfg.ChunkSizeMax-1)
			if sink {
				budget = gen.sinkTerrain(chunkSize, budget, r)
			} else {
				budget = gen.raiseTerrain(chunkSize, budget, r)
			}
			if budget == 0 {
				done = true
				break
			}
		}
	}

	if budget > 0 {
		slog.Warn("failed to use up land budget", "budget", budget)
	}
	report.UnusedLandBudget = budget
	report.LandCells = gen.countLand()
}

func (gen *Generator) countLand() int {
	n := 0
	for i := 0; i < gen.grid.CellCount(); i++ {
		if gen.grid.Cell(i).Elevation() >= gen.Config.WaterLevel {
			n++
		}
	}
	return n
}

// raiseTerrain floods outward from a random cell, lifting up to chunkSize
// cells. Cells closer to the center are lifted first, with jitter.
func (gen *Generator) raiseTerrain(chunkSize, budget int, r region) int {
	cfg := gen.Config
	g := gen.grid
	first := gen.randomCell(r)
	frontier := gen.startChunk(first)
	center := first

	rise := 1
	if gen.value() < cfg.HighRiseProbability {
		rise = 2
	}

	for size := 0; size < chunkSize && frontier.Len() > 0; {
		current := frontier.Dequeue()
		original := current.Elevation()
		elevation := original + rise
		if elevation > cfg.ElevationMaximum {
			continue
		}
		g.SetElevation(current, elevation)

		if original < cfg.WaterLevel && elevation >= cfg.WaterLevel {
			budget--
			if budget == 0 {
				break
			}
		}
		size++
		gen.growChunk(current, center)
	}
	frontier.Clear()
	return budget
}

// sinkTerrain is the inverse of raiseTerrain. Land sinking below the water
// returns budget.
func (gen *Generator) sinkTerrain(chunkSize, budget int, r region) int {
	cfg := gen.Config
	g := gen.grid
	first := gen.randomCell(r)
	frontier := gen.startChunk(first)
	center := first

	sink := 1
	if gen.value() < cfg.HighRiseProbability {
		sink = 2
	}

	for size := 0; size < chunkSize && frontier.Len() > 0; {
		current := frontier.Dequeue()
		original := current.Elevation()
		elevation := original - sink
		if elevation < cfg.ElevationMinimum {
			continue
		}
		g.SetElevation(current, elevation)

		if original >= cfg.WaterLevel && elevation < cfg.WaterLevel {
			budget++
		}
		size++
		gen.growChunk(current, center)
	}
	frontier.Clear()
	return budget
}

func (gen *Generator) startChunk(first *world.Cell) *world.CellPriorityQueue {
	gen.phase = gen.grid.NextSearchPhase(1)
	gen.frontier = gen.grid.Frontier()
	first.SearchPhase = gen.phase
	first.Distance = 0
	first.SearchHeuristic = 0
	gen.frontier.Enqueue(first)
	return gen.frontier
}

// growChunk queues the unvisited neighbors of current, ordered by distance
// from the chunk center plus a random jitter of zero or one.
func (gen *Generator) growChunk(current, center *world.Cell) {
	g := gen.grid
	for d := world.NE; d <= world.NW; d++ {
		neighbor := g.Neighbor(current, d)
		if neighbor == nil || neighbor.SearchPhase >= gen.phase {
			continue
		}
		neighbor.SearchPhase = gen.phase
		neighbor.Distance = g.Distance(neighbor, center)
		neighbor.SearchHeuristic = 0
		if gen.value() < gen.Config.JitterProbability {
			neighbor.SearchHeuristic = 1
		}
		gen.frontier.Enqueue(neighbor)
	}
}
