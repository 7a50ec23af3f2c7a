package pathfind

import "github.com/talgya/hexworld/internal/world"

// VisibleCells returns the cells seen from a cell with the given vision range.
// Standing higher extends the range; taller cells are harder to see over.
// Non-explorable cells block sight entirely.
func VisibleCells(g *world.Grid, from *world.Cell, rangeVal int) []*world.Cell {
	if from == nil {
		return nil
	}
	phase := g.NextSearchPhase(2)
	frontier := g.Frontier()

	rangeVal += from.ViewElevation()
	from.SearchPhase = phase
	from.Distance = 0
	from.SearchHeuristic = 0
	frontier.Enqueue(from)

	var cells []*world.Cell
	for current := frontier.Dequeue(); current != nil; current = frontier.Dequeue() {
		current.SearchPhase++
		cells = append(cells, current)

		for d := world.NE; d <= world.NW; d++ {
			neighbor := g.Neighbor(current, d)
			if neighbor == nil || neighbor.SearchPhase > phase || !neighbor.Explorable {
				continue
			}

			distance := current.Distance + 1
			if distance+neighbor.ViewElevation() > rangeVal || distance > g.Distance(from, neighbor) {
				continue
			}

			if neighbor.SearchPhase < phase {
				neighbor.SearchPhase = phase
				neighbor.Distance = distance
				neighbor.SearchHeuristic = 0
				frontier.Enqueue(neighbor)
			} else if distance < neighbor.Distance {
				old := neighbor.SearchPriority()
				neighbor.Distance = distance
				frontier.Change(neighbor, old)
			}
		}
	}
	return cells
}

// Reveal adds one observer to every cell visible from the given cell.
func Reveal(g *world.Grid, from *world.Cell, rangeVal int) []*world.Cell {
	cells := VisibleCells(g, from, rangeVal)
	for _, c := range cells {
		g.IncreaseVisibility(c)
	}
	return cells
}

// Conceal removes the observer Reveal added for the same cell and range.
func Conceal(g *world.Grid, from *world.Cell, rangeVal int) []*world.Cell {
	cells := VisibleCells(g, from, rangeVal)
	for _, c := range cells {
		g.DecreaseVisibility(c)
	}
	return cells
}
