package mapgen

import (
	"log/slog"
	"math"

	"github.com/talgya/hexworld/internal/world"
)

// createRivers picks origins weighted toward wet high ground and grows rivers
// from them until the river budget is spent.
func (gen *Generator) createRivers(report *Report) {
	cfg := gen.Config
	g := gen.grid

	var origins []*world.Cell
	for i := 0; i < g.CellCount(); i++ {
		c := g.Cell(i)
		if c.IsUnderwater() {
			continue
		}
		weight := gen.climate[i].moisture * float64(c.Elevation()-cfg.WaterLevel) /
			float64(cfg.ElevationMaximum-cfg.WaterLevel)
		if weight > 0.75 {
			origins = append(origins, c, c)
		}
		if weight > 0.5 {
			origins = append(origins, c)
		}
		if weight > 0.25 {
			origins = append(origins, c)
		}
	}
	report.RiverOrigins = len(origins)

	landCells := report.LandBudget - report.UnusedLandBudget
	budget := int(math.Round(float64(landCells) * float64(cfg.RiverPercentage) * 0.01))
	report.RiverBudget = budget

	for budget > 0 && len(origins) > 0 {
		i := gen.rng.Intn(len(origins))
		last := len(origins) - 1
		origin := origins[i]
		origins[i] = origins[last]
		origins = origins[:last]

		if origin.HasRiver() || !gen.isValidRiverOrigin(origin) {
			continue
		}
		budget -= gen.createRiver(origin)
	}

	if budget > 0 {
		slog.Warn("failed to use up river budget", "budget", budget)
	}
	report.UnusedRiverBudget = max(budget, 0)
}

// isValidRiverOrigin rejects cells next to water or an existing river.
func (gen *Generator) isValidRiverOrigin(c *world.Cell) bool {
	for d := world.NE; d <= world.NW; d++ {
		n := gen.grid.Neighbor(c, d)
		if n != nil && (n.HasRiver() || n.IsUnderwater()) {
			return false
		}
	}
	return true
}

// createRiver grows a river downhill from origin and returns its length in
// cells, zero if it could not leave the origin. Downhill steps are weighted
// over level ones, and sharp turns are avoided. A river stuck in a basin
// turns it into a lake.
func (gen *Generator) createRiver(origin *world.Cell) int {
	cfg := gen.Config
	g := gen.grid

	length := 1
	cell := origin
	direction := world.NE
	var flow []world.Direction

	for !cell.IsUnderwater() {
		minNeighbor := math.MaxInt
		flow = flow[:0]

		for d := world.NE; d <= world.NW; d++ {
			neighbor := g.Neighbor(cell, d)
			if neighbor == nil {
				continue
			}
			if neighbor.Elevation() < minNeighbor {
				minNeighbor = neighbor.Elevation()
			}
			if neighbor == origin || neighbor.HasIncomingRiver() {
				continue
			}

			delta := neighbor.Elevation() - cell.Elevation()
			if delta > 0 {
				continue
			}
			if neighbor.HasOutgoingRiver() {
				// Join the existing river.
				g.SetOutgoingRiver(cell, d)
				return length
			}

			if delta < 0 {
				flow = append(flow, d, d, d)
			}
			if length == 1 || (d != direction.Next2() && d != direction.Previous2()) {
				flow = append(flow, d)
			}
			flow = append(flow, d)
		}

		if len(flow) == 0 {
			if length == 1 {
				return 0
			}
			if minNeighbor >= cell.Elevation() {
				g.SetWaterLevel(cell, minNeighbor)
				if minNeighbor == cell.Elevation() {
					g.SetElevation(cell, minNeighbor-1)
				}
			}
			break
		}

		direction = flow[gen.rng.Intn(len(flow))]
		g.SetOutgoingRiver(cell, direction)
		length++

		if minNeighbor >= cell.Elevation() && gen.value() < cfg.ExtraLakeProbability {
			g.SetWaterLevel(cell, cell.Elevation())
			g.SetElevation(cell, cell.Elevation()-1)
		}

		cell = g.Neighbor(cell, direction)
	}
	return length
}
