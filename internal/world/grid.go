package world

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedMapSize is returned when a map is not a positive multiple of the chunk size.
var ErrUnsupportedMapSize = errors.New("unsupported map size")

// Grid holds the complete hex cell graph. Cells live in a flat row-major
// array over offset coordinates and refer to each other by index.
// A Grid is not safe for concurrent use.
type Grid struct {
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Wrapping bool `json:"wrapping"`

	cells       []Cell
	chunkCountX int
	chunkCountZ int
	dirty       []bool

	units      []*Unit
	nextUnitID int

	// Search state reused across searches.
	searchPhase int
	frontier    *CellPriorityQueue
}

// NewGrid creates an empty grid. Call CreateMap before use.
func NewGrid() *Grid {
	return &Grid{nextUnitID: 1}
}

// CreateMap discards all cells and units and builds a fresh width×height map.
// Both dimensions must be positive multiples of the chunk size.
func (g *Grid) CreateMap(width, height int, wrapping bool) error {
	if width <= 0 || width%ChunkSizeX != 0 || height <= 0 || height%ChunkSizeZ != 0 {
		return fmt.Errorf("%w: %dx%d", ErrUnsupportedMapSize, width, height)
	}

	g.Width = width
	g.Height = height
	g.Wrapping = wrapping
	g.chunkCountX = width / ChunkSizeX
	g.chunkCountZ = height / ChunkSizeZ
	g.dirty = make([]bool, g.chunkCountX*g.chunkCountZ)
	g.units = nil
	g.nextUnitID = 1
	g.searchPhase = 0
	if g.frontier != nil {
		g.frontier.Clear()
	}

	g.cells = make([]Cell, width*height)
	for z, i := 0, 0; z < height; z++ {
		for x := 0; x < width; x++ {
			g.createCell(x, z, i)
			i++
		}
	}
	return nil
}

func (g *Grid) createCell(x, z, i int) {
	g.cells[i] = newCell(i)
	c := &g.cells[i]
	c.Coord = FromOffset(x, z)
	c.ColumnIndex = x / ChunkSizeX
	c.Chunk = x/ChunkSizeX + (z/ChunkSizeZ)*g.chunkCountX

	if g.Wrapping {
		c.Explorable = z > 0 && z < g.Height-1
	} else {
		c.Explorable = x > 0 && z > 0 && x < g.Width-1 && z < g.Height-1
	}

	if x > 0 {
		g.link(i, W, i-1)
		if g.Wrapping && x == g.Width-1 {
			g.link(i, E, i-x)
		}
	}
	if z > 0 {
		if z&1 == 0 {
			g.link(i, SE, i-g.Width)
			if x > 0 {
				g.link(i, SW, i-g.Width-1)
			} else if g.Wrapping {
				g.link(i, SW, i-1)
			}
		} else {
			g.link(i, SW, i-g.Width)
			if x < g.Width-1 {
				g.link(i, SE, i-g.Width+1)
			} else if g.Wrapping {
				g.link(i, SE, i-g.Width*2+1)
			}
		}
	}
	g.dirty[c.Chunk] = true
}

// link connects cell i to cell j in direction d and j back to i.
func (g *Grid) link(i int, d Direction, j int) {
	g.cells[i].neighbors[d] = int32(j)
	g.cells[j].neighbors[d.Opposite()] = int32(i)
}

// CellCount returns the number of cells in the grid.
func (g *Grid) CellCount() int {
	return len(g.cells)
}

// Cell returns the cell at the given arena index.
func (g *Grid) Cell(i int) *Cell {
	return &g.cells[i]
}

// CellAt returns the cell at offset coordinates (x, z), or nil if out of bounds.
func (g *Grid) CellAt(x, z int) *Cell {
	if x < 0 || x >= g.Width || z < 0 || z >= g.Height {
		return nil
	}
	return &g.cells[x+z*g.Width]
}

// CellByCoord returns the cell at the given cube coordinate, or nil if out of bounds.
func (g *Grid) CellByCoord(h HexCoord) *Cell {
	z := h.Z
	if z < 0 || z >= g.Height {
		return nil
	}
	x := h.X + z/2
	if g.Wrapping && g.Width > 0 {
		x = ((x % g.Width) + g.Width) % g.Width
	}
	return g.CellAt(x, z)
}

// Neighbor returns the adjacent cell in direction d, or nil at the map edge.
func (g *Grid) Neighbor(c *Cell, d Direction) *Cell {
	if c == nil {
		return nil
	}
	n := c.neighbors[d]
	if n == noCell {
		return nil
	}
	return &g.cells[n]
}

// WrapSize returns the wrap width in columns, zero for a non-wrapping map.
func (g *Grid) WrapSize() int {
	if g.Wrapping {
		return g.Width
	}
	return 0
}

// Distance returns the hex distance between two cells, honoring wrapping.
func (g *Grid) Distance(a, b *Cell) int {
	return DistanceWrapped(a.Coord, b.Coord, g.WrapSize())
}

// ElevationDifference returns the absolute elevation difference across edge d.
// The second result is false when there is no neighbor in that direction.
func (g *Grid) ElevationDifference(c *Cell, d Direction) (int, bool) {
	n := g.Neighbor(c, d)
	if n == nil {
		return 0, false
	}
	return abs(c.elevation - n.elevation), true
}

// EdgeType classifies the edge between two cells.
func (g *Grid) EdgeType(a, b *Cell) EdgeType {
	return EdgeTypeBetween(a.elevation, b.elevation)
}

// markDirty flags the chunk owning c for rebuild.
func (g *Grid) markDirty(c *Cell) {
	g.dirty[c.Chunk] = true
}

// refresh flags the chunk owning c and any neighboring chunks.
func (g *Grid) refresh(c *Cell) {
	g.markDirty(c)
	for d := NE; d <= NW; d++ {
		if n := g.Neighbor(c, d); n != nil && n.Chunk != c.Chunk {
			g.markDirty(n)
		}
	}
}

// DirtyChunks returns the sorted indices of chunks changed since the last ClearDirty.
func (g *Grid) DirtyChunks() []int {
	var out []int
	for i, d := range g.dirty {
		if d {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// ClearDirty marks every chunk as clean.
func (g *Grid) ClearDirty() {
	for i := range g.dirty {
		g.dirty[i] = false
	}
}

// ChunkCount returns the number of chunk columns and rows.
func (g *Grid) ChunkCount() (int, int) {
	return g.chunkCountX, g.chunkCountZ
}

// NextSearchPhase advances the shared search generation counter by step and
// returns the new value. Cells stamped with an older phase hold stale search data.
func (g *Grid) NextSearchPhase(step int) int {
	g.searchPhase += step
	return g.searchPhase
}

// ResetSearchPhases clears every cell's phase stamp and the shared counter.
func (g *Grid) ResetSearchPhases() {
	for i := range g.cells {
		g.cells[i].SearchPhase = 0
	}
	g.searchPhase = 0
}

// Frontier returns the grid's reusable priority queue, emptied.
func (g *Grid) Frontier() *CellPriorityQueue {
	if g.frontier == nil {
		g.frontier = NewCellPriorityQueue(g)
	} else {
		g.frontier.Clear()
	}
	return g.frontier
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, wrapping=%t, cells=%d, units=%d)",
		g.Width, g.Height, g.Wrapping, len(g.cells), len(g.units))
}
