// Package pathfind searches the hex grid: turn-aware shortest paths for
// units and line-of-sight flood fills for vision.
package pathfind

import (
	"github.com/talgya/hexworld/internal/world"
)

// Mover supplies the movement rules a search is run under.
type Mover interface {
	Speed() int
	IsValidDestination(c *world.Cell) bool
	MoveCost(from, to *world.Cell, d world.Direction) int
}

// Path is a found route. Cells[0] is the start and the last entry the goal;
// Distances holds the accumulated cost on arrival at each cell.
type Path struct {
	Cells     []int `json:"cells"`
	Distances []int `json:"distances"`
	Cost      int   `json:"cost"`
	Speed     int   `json:"speed"`
}

// Len returns the number of cells on the path including both ends.
func (p Path) Len() int { return len(p.Cells) }

// TurnAt returns the turn in which the mover reaches the i-th cell.
func (p Path) TurnAt(i int) int {
	return (p.Distances[i] - 1) / p.Speed
}

// Turns returns the number of turns needed to reach the goal.
func (p Path) Turns() int {
	if len(p.Cells) < 2 {
		return 0
	}
	return p.TurnAt(len(p.Cells)-1) + 1
}

// ReachableThisTurn returns how many cells past the start the mover can
// enter in the first turn.
func (p Path) ReachableThisTurn() int {
	n := 0
	for i := 1; i < len(p.Cells); i++ {
		if p.TurnAt(i) > 0 {
			break
		}
		n++
	}
	return n
}

// FindPath runs a bucket-queue A* from one cell to another. Movement budget
// left at the end of a turn is lost when the next step does not fit, so a
// step that crosses a turn boundary is charged from the start of the new turn.
// The second result is false when no route exists.
func FindPath(g *world.Grid, from, to *world.Cell, m Mover) (Path, bool) {
	speed := m.Speed()
	if from == nil || to == nil || speed < 1 {
		return Path{}, false
	}

	phase := g.NextSearchPhase(2)
	frontier := g.Frontier()

	from.SearchPhase = phase
	from.Distance = 0
	from.SearchHeuristic = 0
	from.PathFrom = -1
	frontier.Enqueue(from)

	found := false
	for current := frontier.Dequeue(); current != nil; current = frontier.Dequeue() {
		current.SearchPhase++

		if current == to {
			found = true
			break
		}

		currentTurn := (current.Distance - 1) / speed
		for d := world.NE; d <= world.NW; d++ {
			neighbor := g.Neighbor(current, d)
			if neighbor == nil || neighbor.SearchPhase > phase {
				continue
			}
			if !m.IsValidDestination(neighbor) {
				continue
			}
			moveCost := m.MoveCost(current, neighbor, d)
			if moveCost < 0 {
				continue
			}

			distance := current.Distance + moveCost
			if turn := (distance - 1) / speed; turn > currentTurn {
				distance = turn*speed + moveCost
			}

			if neighbor.SearchPhase < phase {
				neighbor.SearchPhase = phase
				neighbor.Distance = distance
				neighbor.PathFrom = current.Index
				neighbor.SearchHeuristic = g.Distance(neighbor, to)
				frontier.Enqueue(neighbor)
			} else if distance < neighbor.Distance {
				old := neighbor.SearchPriority()
				neighbor.Distance = distance
				neighbor.PathFrom = current.Index
				frontier.Change(neighbor, old)
			}
		}
	}
	if !found {
		return Path{}, false
	}
	return reconstruct(g, from, to, speed), true
}

func reconstruct(g *world.Grid, from, to *world.Cell, speed int) Path {
	var cells, dists []int
	for c := to; ; c = g.Cell(c.PathFrom) {
		cells = append(cells, c.Index)
		dists = append(dists, c.Distance)
		if c == from {
			break
		}
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
		dists[i], dists[j] = dists[j], dists[i]
	}
	return Path{Cells: cells, Distances: dists, Cost: to.Distance, Speed: speed}
}
