package world

// SetElevation changes a cell's height, dropping rivers and roads the new
// height makes invalid.
func (g *Grid) SetElevation(c *Cell, elevation int) {
	if c.elevation == elevation {
		return
	}
	c.elevation = elevation
	g.validateRivers(c)
	g.validateRoads(c)
	g.refresh(c)
}

// SetWaterLevel changes the water surface height over a cell.
func (g *Grid) SetWaterLevel(c *Cell, level int) {
	if c.waterLevel == level {
		return
	}
	c.waterLevel = level
	g.validateRivers(c)
	g.refresh(c)
}

// SetSpecialIndex places a special feature on the cell. Special features and
// roads are mutually exclusive.
func (g *Grid) SetSpecialIndex(c *Cell, index int) {
	if c.specialIndex == index {
		return
	}
	c.specialIndex = index
	if index > 0 && c.HasRoads() {
		g.RemoveRoads(c)
	}
	g.markDirty(c)
}

// SetWalled toggles the cell's walls.
func (g *Grid) SetWalled(c *Cell, walled bool) {
	if c.walled == walled {
		return
	}
	c.walled = walled
	g.refresh(c)
}

func (g *Grid) validateRivers(c *Cell) {
	if c.hasOutgoingRiver && !c.IsValidRiverDestination(g.Neighbor(c, c.outgoingRiver)) {
		g.RemoveOutgoingRiver(c)
	}
	if c.hasIncomingRiver {
		source := g.Neighbor(c, c.incomingRiver)
		if source == nil || !source.IsValidRiverDestination(c) {
			g.RemoveIncomingRiver(c)
		}
	}
}

func (g *Grid) validateRoads(c *Cell) {
	for d := NE; d <= NW; d++ {
		if !c.roads[d] {
			continue
		}
		if diff, ok := g.ElevationDifference(c, d); !ok || diff > 1 {
			g.SetRoad(c, d, false)
		}
	}
}

// AddRoad builds a road across edge d if the edge allows one. Roads need a
// neighbor, no special feature on either side, no river through the edge,
// and at most one level of elevation difference.
func (g *Grid) AddRoad(c *Cell, d Direction) bool {
	n := g.Neighbor(c, d)
	if n == nil || c.roads[d] || c.IsSpecial() || n.IsSpecial() || c.HasRiverThroughEdge(d) {
		return false
	}
	if diff, _ := g.ElevationDifference(c, d); diff > 1 {
		return false
	}
	g.SetRoad(c, d, true)
	return true
}

// SetRoad sets the road flag on both sides of edge d.
func (g *Grid) SetRoad(c *Cell, d Direction, state bool) {
	c.roads[d] = state
	if n := g.Neighbor(c, d); n != nil {
		n.roads[d.Opposite()] = state
		g.markDirty(n)
	}
	g.markDirty(c)
}

// RemoveRoads clears every road leaving the cell.
func (g *Grid) RemoveRoads(c *Cell) {
	for d := NE; d <= NW; d++ {
		if c.roads[d] {
			g.SetRoad(c, d, false)
		}
	}
}

// SetOutgoingRiver starts a river flowing out of c across edge d. It reports
// false when the neighbor is not a valid destination.
func (g *Grid) SetOutgoingRiver(c *Cell, d Direction) bool {
	if c.hasOutgoingRiver && c.outgoingRiver == d {
		return true
	}
	n := g.Neighbor(c, d)
	if !c.IsValidRiverDestination(n) {
		return false
	}

	g.RemoveOutgoingRiver(c)
	if c.hasIncomingRiver && c.incomingRiver == d {
		g.RemoveIncomingRiver(c)
	}
	c.hasOutgoingRiver = true
	c.outgoingRiver = d
	c.specialIndex = 0

	g.RemoveIncomingRiver(n)
	n.hasIncomingRiver = true
	n.incomingRiver = d.Opposite()
	n.specialIndex = 0

	g.SetRoad(c, d, false)
	return true
}

// RemoveOutgoingRiver removes the river leaving c and the matching incoming
// river on the neighbor.
func (g *Grid) RemoveOutgoingRiver(c *Cell) {
	if !c.hasOutgoingRiver {
		return
	}
	c.hasOutgoingRiver = false
	g.markDirty(c)

	if n := g.Neighbor(c, c.outgoingRiver); n != nil {
		n.hasIncomingRiver = false
		g.markDirty(n)
	}
}

// RemoveIncomingRiver removes the river entering c and the matching outgoing
// river on the neighbor.
func (g *Grid) RemoveIncomingRiver(c *Cell) {
	if !c.hasIncomingRiver {
		return
	}
	c.hasIncomingRiver = false
	g.markDirty(c)

	if n := g.Neighbor(c, c.incomingRiver); n != nil {
		n.hasOutgoingRiver = false
		g.markDirty(n)
	}
}

// RemoveRiver removes both river ends from the cell.
func (g *Grid) RemoveRiver(c *Cell) {
	g.RemoveOutgoingRiver(c)
	g.RemoveIncomingRiver(c)
}
