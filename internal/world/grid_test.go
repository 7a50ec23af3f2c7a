package world

import (
	"errors"
	"testing"
)

func newTestGrid(t *testing.T, width, height int, wrapping bool) *Grid {
	t.Helper()
	g := NewGrid()
	if err := g.CreateMap(width, height, wrapping); err != nil {
		t.Fatalf("CreateMap(%d, %d): %v", width, height, err)
	}
	return g
}

func TestCreateMapRejectsSizes(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{0, 15}, {20, 0}, {-5, 5}, {21, 15}, {20, 14},
	}
	for _, tt := range tests {
		g := NewGrid()
		err := g.CreateMap(tt.w, tt.h, false)
		if !errors.Is(err, ErrUnsupportedMapSize) {
			t.Errorf("CreateMap(%d, %d) = %v, want ErrUnsupportedMapSize", tt.w, tt.h, err)
		}
	}
}

func TestNeighborLinksAreBidirectional(t *testing.T) {
	for _, wrapping := range []bool{false, true} {
		g := newTestGrid(t, 20, 15, wrapping)
		for i := 0; i < g.CellCount(); i++ {
			c := g.Cell(i)
			for d := NE; d <= NW; d++ {
				n := g.Neighbor(c, d)
				if n == nil {
					continue
				}
				if back := g.Neighbor(n, d.Opposite()); back != c {
					t.Fatalf("wrap=%t: cell %v %v neighbor %v does not link back", wrapping, c.Coord, d, n.Coord)
				}
				if g.Distance(c, n) != 1 {
					t.Fatalf("wrap=%t: neighbor %v of %v at distance %d", wrapping, n.Coord, c.Coord, g.Distance(c, n))
				}
			}
		}
	}
}

func TestNeighborCounts(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	count := func(c *Cell) int {
		n := 0
		for d := NE; d <= NW; d++ {
			if g.Neighbor(c, d) != nil {
				n++
			}
		}
		return n
	}
	if got := count(g.CellAt(5, 5)); got != 6 {
		t.Errorf("interior cell has %d neighbors, want 6", got)
	}
	if got := count(g.CellAt(0, 0)); got != 2 {
		t.Errorf("corner cell has %d neighbors, want 2", got)
	}

	w := newTestGrid(t, 10, 10, true)
	c := w.CellAt(0, 4)
	for d := NE; d <= NW; d++ {
		if w.Neighbor(c, d) == nil {
			t.Errorf("wrapping west edge cell has no %v neighbor", d)
		}
	}
	if w.Neighbor(c, W) != w.CellAt(9, 4) {
		t.Error("west neighbor of column 0 should be the last column")
	}
}

func TestExplorable(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	if g.CellAt(0, 5).Explorable || g.CellAt(5, 0).Explorable || g.CellAt(9, 5).Explorable {
		t.Error("border cells should not be explorable")
	}
	if !g.CellAt(5, 5).Explorable {
		t.Error("interior cell should be explorable")
	}

	w := newTestGrid(t, 10, 10, true)
	if !w.CellAt(0, 5).Explorable {
		t.Error("side cells of a wrapping map should be explorable")
	}
	if w.CellAt(5, 9).Explorable {
		t.Error("top row should not be explorable")
	}
}

func TestCellByCoord(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	for i := 0; i < g.CellCount(); i++ {
		c := g.Cell(i)
		if got := g.CellByCoord(c.Coord); got != c {
			t.Fatalf("CellByCoord(%v) = %v", c.Coord, got)
		}
	}
	if g.CellByCoord(HexCoord{X: -20, Z: 3}) != nil {
		t.Error("out-of-range coordinate should give nil")
	}
	if g.CellByCoord(HexCoord{X: 0, Z: 10}) != nil {
		t.Error("row past the top should give nil")
	}

	w := newTestGrid(t, 10, 10, true)
	h := FromOffset(0, 2)
	h.X--
	if got := w.CellByCoord(h); got != w.CellAt(9, 2) {
		t.Errorf("wrapped lookup = %v, want last column", got)
	}
}

func TestDirtyChunks(t *testing.T) {
	g := newTestGrid(t, 20, 15, false)
	cx, cz := g.ChunkCount()
	if cx != 4 || cz != 3 {
		t.Fatalf("ChunkCount = %d, %d", cx, cz)
	}
	if got := len(g.DirtyChunks()); got != 12 {
		t.Fatalf("fresh map has %d dirty chunks, want 12", got)
	}
	g.ClearDirty()

	g.SetElevation(g.CellAt(2, 2), 1)
	if got := g.DirtyChunks(); len(got) != 1 || got[0] != 0 {
		t.Errorf("interior change dirtied %v, want [0]", got)
	}
	g.ClearDirty()

	// Column 4 borders chunk 1.
	g.SetElevation(g.CellAt(4, 2), 1)
	if got := g.DirtyChunks(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("edge change dirtied %v, want [0 1]", got)
	}
}

func TestSearchPhase(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	if p := g.NextSearchPhase(2); p != 2 {
		t.Fatalf("phase = %d, want 2", p)
	}
	g.Cell(3).SearchPhase = 3
	g.ResetSearchPhases()
	if g.Cell(3).SearchPhase != 0 || g.NextSearchPhase(1) != 1 {
		t.Error("ResetSearchPhases did not clear")
	}
	q := g.Frontier()
	q.Enqueue(g.Cell(0))
	if g.Frontier() != q || q.Len() != 0 {
		t.Error("Frontier should return the same cleared queue")
	}
}
