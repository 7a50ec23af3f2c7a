package world

// noCell marks an absent neighbor or list link.
const noCell = -1

// Cell is a single tile of the hex grid. Cells are owned by their Grid and
// referenced by index; neighbor links are indices into the same arena.
type Cell struct {
	Index       int      `json:"index"`
	Coord       HexCoord `json:"coord"`
	Chunk       int      `json:"chunk"`
	ColumnIndex int      `json:"column"`

	neighbors [6]int32

	elevation  int
	waterLevel int

	TerrainType int `json:"terrain"`
	UrbanLevel  int `json:"urban"`
	FarmLevel   int `json:"farm"`
	PlantLevel  int `json:"plant"`

	specialIndex int
	walled       bool
	roads        [6]bool

	hasIncomingRiver bool
	hasOutgoingRiver bool
	incomingRiver    Direction
	outgoingRiver    Direction

	Explorable bool `json:"explorable"`
	explored   bool
	visibility int

	unit int // Occupying unit id, zero when empty.

	// Search scratch, valid only while SearchPhase matches the grid's
	// current phase.
	Distance        int
	SearchHeuristic int
	SearchPhase     int
	PathFrom        int
	nextWithSame    int32
}

func newCell(index int) Cell {
	c := Cell{
		Index:        index,
		PathFrom:     noCell,
		nextWithSame: noCell,
	}
	for d := range c.neighbors {
		c.neighbors[d] = noCell
	}
	return c
}

// Elevation returns the cell's terrain height in elevation steps.
func (c *Cell) Elevation() int { return c.elevation }

// WaterLevel returns the height of the water surface over this cell.
func (c *Cell) WaterLevel() int { return c.waterLevel }

// SpecialIndex returns the special feature placed on this cell, zero for none.
func (c *Cell) SpecialIndex() int { return c.specialIndex }

// IsSpecial reports whether the cell holds a special feature.
func (c *Cell) IsSpecial() bool { return c.specialIndex > 0 }

// Walled reports whether the cell is enclosed by walls.
func (c *Cell) Walled() bool { return c.walled }

// IsUnderwater reports whether the water surface is above the terrain.
func (c *Cell) IsUnderwater() bool { return c.waterLevel > c.elevation }

// ViewElevation is the height an observer stands at: terrain or water surface.
func (c *Cell) ViewElevation() int {
	if c.elevation >= c.waterLevel {
		return c.elevation
	}
	return c.waterLevel
}

// SearchPriority is the bucket key used by the priority queue.
func (c *Cell) SearchPriority() int { return c.Distance + c.SearchHeuristic }

// HasIncomingRiver reports whether a river flows into this cell.
func (c *Cell) HasIncomingRiver() bool { return c.hasIncomingRiver }

// HasOutgoingRiver reports whether a river flows out of this cell.
func (c *Cell) HasOutgoingRiver() bool { return c.hasOutgoingRiver }

// IncomingRiver returns the edge the incoming river enters through.
func (c *Cell) IncomingRiver() Direction { return c.incomingRiver }

// OutgoingRiver returns the edge the outgoing river leaves through.
func (c *Cell) OutgoingRiver() Direction { return c.outgoingRiver }

// HasRiver reports whether any river touches the cell.
func (c *Cell) HasRiver() bool { return c.hasIncomingRiver || c.hasOutgoingRiver }

// IsRiverBeginOrEnd reports whether the cell is a river source or mouth.
func (c *Cell) IsRiverBeginOrEnd() bool { return c.hasIncomingRiver != c.hasOutgoingRiver }

// HasRiverThroughEdge reports whether a river crosses the edge in direction d.
func (c *Cell) HasRiverThroughEdge(d Direction) bool {
	return c.hasIncomingRiver && c.incomingRiver == d ||
		c.hasOutgoingRiver && c.outgoingRiver == d
}

// HasRoadThroughEdge reports whether a road crosses the edge in direction d.
func (c *Cell) HasRoadThroughEdge(d Direction) bool { return c.roads[d] }

// HasRoads reports whether any road leaves the cell.
func (c *Cell) HasRoads() bool {
	for _, r := range c.roads {
		if r {
			return true
		}
	}
	return false
}

// RoadMask packs the road flags into a bitmask, bit d set for direction d.
func (c *Cell) RoadMask() uint8 {
	var mask uint8
	for d, r := range c.roads {
		if r {
			mask |= 1 << d
		}
	}
	return mask
}

// Explored reports whether the cell has ever been seen.
func (c *Cell) Explored() bool { return c.explored }

// IsVisible reports whether any observer currently sees the cell.
func (c *Cell) IsVisible() bool { return c.visibility > 0 && c.Explorable }

// UnitID returns the id of the unit standing on the cell, zero for none.
func (c *Cell) UnitID() int { return c.unit }

// NeighborIndex returns the index of the neighbor in direction d.
func (c *Cell) NeighborIndex(d Direction) (int, bool) {
	n := c.neighbors[d]
	return int(n), n != noCell
}

// IsValidRiverDestination reports whether a river may flow from c into n.
func (c *Cell) IsValidRiverDestination(n *Cell) bool {
	return n != nil && (c.elevation >= n.elevation || c.waterLevel == n.elevation)
}
