package mapgen

import "github.com/talgya/hexworld/internal/world"

// erodibleSet is an unordered set of cells with O(1) membership, insertion,
// and removal by swapping with the last entry.
type erodibleSet struct {
	cells []*world.Cell
	pos   []int // Position in cells by cell index, -1 when absent.
}

func newErodibleSet(cellCount int) *erodibleSet {
	s := &erodibleSet{pos: make([]int, cellCount)}
	for i := range s.pos {
		s.pos[i] = -1
	}
	return s
}

func (s *erodibleSet) len() int { return len(s.cells) }

func (s *erodibleSet) has(c *world.Cell) bool { return s.pos[c.Index] >= 0 }

func (s *erodibleSet) add(c *world.Cell) {
	if s.has(c) {
		return
	}
	s.pos[c.Index] = len(s.cells)
	s.cells = append(s.cells, c)
}

func (s *erodibleSet) remove(c *world.Cell) {
	i := s.pos[c.Index]
	if i < 0 {
		return
	}
	last := len(s.cells) - 1
	s.cells[i] = s.cells[last]
	s.pos[s.cells[i].Index] = i
	s.cells = s.cells[:last]
	s.pos[c.Index] = -1
}

// isErodible reports whether some neighbor lies at least two levels lower.
func (gen *Generator) isErodible(c *world.Cell) bool {
	erodible := c.Elevation() - 2
	for d := world.NE; d <= world.NW; d++ {
		if n := gen.grid.Neighbor(c, d); n != nil && n.Elevation() <= erodible {
			return true
		}
	}
	return false
}

// erosionTarget picks a random neighbor at least two levels below c.
func (gen *Generator) erosionTarget(c *world.Cell) *world.Cell {
	var candidates [6]*world.Cell
	n := 0
	erodible := c.Elevation() - 2
	for d := world.NE; d <= world.NW; d++ {
		if nb := gen.grid.Neighbor(c, d); nb != nil && nb.Elevation() <= erodible {
			candidates[n] = nb
			n++
		}
	}
	return candidates[gen.rng.Intn(n)]
}

// erodeLand moves elevation from steep cells to their low neighbors until
// the erodible population shrinks to (100 - erosion)% of its starting size.
func (gen *Generator) erodeLand(report *Report) {
	g := gen.grid
	set := newErodibleSet(g.CellCount())
	for i := 0; i < g.CellCount(); i++ {
		if c := g.Cell(i); gen.isErodible(c) {
			set.add(c)
		}
	}

	target := int(float64(set.len()) * float64(100-gen.Config.ErosionPercentage) * 0.01)
	report.ErodibleStart = set.len()
	report.ErodibleTarget = target

	for set.len() > target {
		cell := set.cells[gen.rng.Intn(set.len())]
		targetCell := gen.erosionTarget(cell)

		g.SetElevation(cell, cell.Elevation()-1)
		g.SetElevation(targetCell, targetCell.Elevation()+1)

		if !gen.isErodible(cell) {
			set.remove(cell)
		}

		for d := world.NE; d <= world.NW; d++ {
			n := g.Neighbor(cell, d)
			if n != nil && n.Elevation() == cell.Elevation()+2 {
				set.add(n)
			}
		}

		if gen.isErodible(targetCell) {
			set.add(targetCell)
		}

		for d := world.NE; d <= world.NW; d++ {
			n := g.Neighbor(targetCell, d)
			if n != nil && n != cell && n.Elevation() == targetCell.Elevation()+1 && !gen.isErodible(n) {
				set.remove(n)
			}
		}
	}
	report.ErodibleEnd = set.len()
}
