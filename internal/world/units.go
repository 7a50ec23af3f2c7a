package world

import (
	"errors"
	"fmt"
)

// Unit errors.
var (
	ErrCellOccupied = errors.New("cell occupied")
	ErrNoUnit       = errors.New("no such unit")
)

// UnitType describes a class of unit. Speed is the movement budget spent
// per turn; VisionRange is how far the unit sees.
type UnitType struct {
	Name        string `yaml:"name" json:"name"`
	Speed       int    `yaml:"speed" json:"speed"`
	VisionRange int    `yaml:"visionRange" json:"visionRange"`
}

// Scout is the default unit type.
var Scout = UnitType{Name: "scout", Speed: 24, VisionRange: 3}

// Unit is a movable piece standing on a cell.
type Unit struct {
	ID          int      `json:"id"`
	Type        UnitType `json:"type"`
	Player      int      `json:"player"`
	Location    int      `json:"location"` // Cell index.
	Orientation float32  `json:"orientation"`
}

// Speed returns the unit's movement budget per turn.
func (u *Unit) Speed() int { return u.Type.Speed }

// IsValidDestination reports whether the unit may end its move on c.
func (u *Unit) IsValidDestination(c *Cell) bool {
	return c.explored && !c.IsUnderwater() && c.unit == 0
}

// MoveCost returns the cost of stepping from one cell into its neighbor
// across edge d, or -1 when the step is impossible.
func (u *Unit) MoveCost(from, to *Cell, d Direction) int {
	edge := EdgeTypeBetween(from.elevation, to.elevation)
	if edge == EdgeCliff {
		return -1
	}
	if from.HasRoadThroughEdge(d) {
		return 1
	}
	if from.walled != to.walled {
		return -1
	}
	cost := 5
	if edge == EdgeSlope {
		cost = 10
	}
	return cost + to.UrbanLevel + to.FarmLevel + to.PlantLevel
}

// AddUnit places a new unit on cell c and returns it.
func (g *Grid) AddUnit(t UnitType, player int, c *Cell, orientation float32) (*Unit, error) {
	if c.unit != 0 {
		return nil, fmt.Errorf("add unit at %s: %w", c.Coord, ErrCellOccupied)
	}
	u := &Unit{
		ID:          g.nextUnitID,
		Type:        t,
		Player:      player,
		Location:    c.Index,
		Orientation: orientation,
	}
	g.nextUnitID++
	c.unit = u.ID
	g.units = append(g.units, u)
	return u, nil
}

// RemoveUnit takes the unit off the map.
func (g *Grid) RemoveUnit(id int) error {
	for i, u := range g.units {
		if u.ID != id {
			continue
		}
		g.cells[u.Location].unit = 0
		g.units = append(g.units[:i], g.units[i+1:]...)
		return nil
	}
	return fmt.Errorf("remove unit %d: %w", id, ErrNoUnit)
}

// MoveUnit relocates a unit to cell c.
func (g *Grid) MoveUnit(id int, c *Cell) error {
	u := g.UnitByID(id)
	if u == nil {
		return fmt.Errorf("move unit %d: %w", id, ErrNoUnit)
	}
	if c.unit != 0 && c.unit != id {
		return fmt.Errorf("move unit %d to %s: %w", id, c.Coord, ErrCellOccupied)
	}
	g.cells[u.Location].unit = 0
	u.Location = c.Index
	c.unit = id
	return nil
}

// UnitByID returns the unit with the given id, or nil.
func (g *Grid) UnitByID(id int) *Unit {
	for _, u := range g.units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Units returns the units on the map in placement order.
func (g *Grid) Units() []*Unit {
	return g.units
}
