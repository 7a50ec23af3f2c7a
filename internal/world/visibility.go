package world

// IncreaseVisibility adds one observer to the cell. The first sighting marks
// the cell explored.
func (g *Grid) IncreaseVisibility(c *Cell) {
	c.visibility++
	if c.visibility == 1 && c.Explorable && !c.explored {
		c.explored = true
		g.markDirty(c)
	}
}

// DecreaseVisibility removes one observer from the cell.
func (g *Grid) DecreaseVisibility(c *Cell) {
	if c.visibility > 0 {
		c.visibility--
	}
}

// ResetVisibility drops every observer count to zero. Explored flags stay.
func (g *Grid) ResetVisibility() {
	for i := range g.cells {
		g.cells[i].visibility = 0
	}
}

// Visibility returns the number of observers currently seeing c.
func (c *Cell) Visibility() int { return c.visibility }

// SetExplored sets the explored flag directly, as when loading a save.
func (g *Grid) SetExplored(c *Cell, explored bool) {
	c.explored = explored && c.Explorable
}

// SetRiverState restores river flags without validation. It is used when
// decoding a saved map whose rivers were validated when first built.
func (g *Grid) SetRiverState(c *Cell, hasIn bool, in Direction, hasOut bool, out Direction) {
	c.hasIncomingRiver = hasIn
	c.incomingRiver = in
	c.hasOutgoingRiver = hasOut
	c.outgoingRiver = out
}

// SetRoadMask restores the road flags of a cell from a bitmask.
func (g *Grid) SetRoadMask(c *Cell, mask uint8) {
	for d := range c.roads {
		c.roads[d] = mask&(1<<d) != 0
	}
}
