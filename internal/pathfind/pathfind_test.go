package pathfind

import (
	"testing"

	"github.com/talgya/hexworld/internal/world"
)

// exploredGrid builds a flat map with every explorable cell explored.
func exploredGrid(t *testing.T, width, height int) *world.Grid {
	t.Helper()
	g := world.NewGrid()
	if err := g.CreateMap(width, height, false); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < g.CellCount(); i++ {
		g.SetExplored(g.Cell(i), true)
	}
	return g
}

func scout() *world.Unit {
	return &world.Unit{Type: world.Scout}
}

// stepMover charges a fixed cost per step and accepts every cell.
type stepMover struct {
	speed, cost int
}

func (m stepMover) Speed() int                          { return m.speed }
func (m stepMover) IsValidDestination(*world.Cell) bool { return true }
func (m stepMover) MoveCost(_, _ *world.Cell, _ world.Direction) int {
	return m.cost
}

func TestFindPathFlat(t *testing.T) {
	g := exploredGrid(t, 20, 15)
	from := g.CellAt(2, 2)
	to := g.CellAt(12, 9)

	p, ok := FindPath(g, from, to, scout())
	if !ok {
		t.Fatal("no path on open ground")
	}
	if p.Cells[0] != from.Index || p.Cells[len(p.Cells)-1] != to.Index {
		t.Fatalf("path runs %d..%d, want %d..%d", p.Cells[0], p.Cells[len(p.Cells)-1], from.Index, to.Index)
	}

	steps := g.Distance(from, to)
	if p.Len() != steps+1 {
		t.Errorf("path has %d cells, want %d", p.Len(), steps+1)
	}
	for i := 1; i < len(p.Cells); i++ {
		if g.Distance(g.Cell(p.Cells[i-1]), g.Cell(p.Cells[i])) != 1 {
			t.Fatalf("path step %d is not between neighbors", i)
		}
		if p.Distances[i] < p.Distances[i-1] {
			t.Fatalf("path distance decreases at step %d", i)
		}
	}
	// Flat ground costs 5 per step; speed 24 loses 4 at each turn boundary.
	if p.Cost < steps*5 {
		t.Errorf("cost %d below %d", p.Cost, steps*5)
	}
}

func TestFindPathSameCell(t *testing.T) {
	g := exploredGrid(t, 10, 10)
	c := g.CellAt(4, 4)
	p, ok := FindPath(g, c, c, scout())
	if !ok || p.Len() != 1 || p.Cost != 0 || p.Turns() != 0 {
		t.Fatalf("FindPath to self = %+v, %t", p, ok)
	}
}

func TestFindPathCliffRing(t *testing.T) {
	g := exploredGrid(t, 20, 15)
	target := g.CellAt(10, 7)
	for d := world.NE; d <= world.NW; d++ {
		g.SetElevation(g.Neighbor(target, d), 3)
	}

	if _, ok := FindPath(g, g.CellAt(2, 2), target, scout()); ok {
		t.Fatal("path found through a cliff ring")
	}
}

func TestFindPathAroundWater(t *testing.T) {
	g := exploredGrid(t, 20, 15)
	// A lake wall across column 8, open at the top row.
	for z := 0; z < 13; z++ {
		g.SetWaterLevel(g.CellAt(8, z), 1)
	}
	from, to := g.CellAt(4, 4), g.CellAt(12, 4)

	p, ok := FindPath(g, from, to, scout())
	if !ok {
		t.Fatal("no path around the lake")
	}
	for _, i := range p.Cells {
		if g.Cell(i).IsUnderwater() {
			t.Fatalf("path crosses water at %v", g.Cell(i).Coord)
		}
	}
	if p.Len() <= g.Distance(from, to)+1 {
		t.Errorf("detour path of %d cells is not longer than the straight line", p.Len())
	}
}

func TestFindPathRoadsPreferred(t *testing.T) {
	g := exploredGrid(t, 20, 15)
	from, to := g.CellAt(3, 6), g.CellAt(9, 6)
	for x := 3; x < 9; x++ {
		if !g.AddRoad(g.CellAt(x, 6), world.E) {
			t.Fatalf("AddRoad at column %d failed", x)
		}
	}
	p, ok := FindPath(g, from, to, scout())
	if !ok {
		t.Fatal("no path along road")
	}
	if p.Cost != 6 {
		t.Errorf("road cost = %d, want 6", p.Cost)
	}
}

func TestTurnBoundary(t *testing.T) {
	g := exploredGrid(t, 20, 15)
	from := g.CellAt(2, 6)
	to := g.CellAt(6, 6)

	// Steps of 10 with speed 24: 10, 20, then 30 would straddle the
	// boundary, so the third step starts turn two at 24+10.
	p, ok := FindPath(g, from, to, stepMover{speed: 24, cost: 10})
	if !ok {
		t.Fatal("no path")
	}
	want := []int{0, 10, 20, 34, 44}
	if len(p.Distances) != len(want) {
		t.Fatalf("distances = %v, want %v", p.Distances, want)
	}
	for i := range want {
		if p.Distances[i] != want[i] {
			t.Fatalf("distances = %v, want %v", p.Distances, want)
		}
	}
	if p.Turns() != 2 {
		t.Errorf("Turns = %d, want 2", p.Turns())
	}
	if p.ReachableThisTurn() != 2 {
		t.Errorf("ReachableThisTurn = %d, want 2", p.ReachableThisTurn())
	}
}

func TestFindPathNoSpeed(t *testing.T) {
	g := exploredGrid(t, 10, 10)
	if _, ok := FindPath(g, g.CellAt(2, 2), g.CellAt(3, 3), stepMover{speed: 0, cost: 1}); ok {
		t.Fatal("mover without speed should find no path")
	}
}

func TestFindPathRepeated(t *testing.T) {
	g := exploredGrid(t, 20, 15)
	from, to := g.CellAt(2, 2), g.CellAt(15, 10)
	first, _ := FindPath(g, from, to, scout())
	for i := 0; i < 5; i++ {
		p, ok := FindPath(g, from, to, scout())
		if !ok || p.Cost != first.Cost {
			t.Fatalf("run %d: cost %d, want %d", i, p.Cost, first.Cost)
		}
	}
}
