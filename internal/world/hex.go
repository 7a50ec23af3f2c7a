// Package world provides the hex grid, cells, and spatial data structures.
// Uses cube coordinates (x, y, z) with y derived from x and z.
package world

import "fmt"

// HexCoord represents a position on the hex grid using cube coordinates.
// The third cube coordinate y is derived: y = -x - z.
type HexCoord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Y returns the implicit third cube coordinate.
func (h HexCoord) Y() int {
	return -h.X - h.Z
}

// FromOffset converts offset (column, row) coordinates to cube coordinates.
// Odd rows are shifted half a cell to the right.
func FromOffset(x, z int) HexCoord {
	return HexCoord{X: x - z/2, Z: z}
}

// ToOffset converts back to offset (column, row) coordinates.
func (h HexCoord) ToOffset() (int, int) {
	return h.X + h.Z/2, h.Z
}

// String returns the coordinate triple as "(x, y, z)".
func (h HexCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", h.X, h.Y(), h.Z)
}

// HexNeighborDirections defines the six neighbor offsets in cube coordinates,
// indexed by Direction.
var HexNeighborDirections = [6]HexCoord{
	{X: 0, Z: 1},  // NE
	{X: 1, Z: 0},  // E
	{X: 1, Z: -1}, // SE
	{X: 0, Z: -1}, // SW
	{X: -1, Z: 0}, // W
	{X: -1, Z: 1}, // NW
}

// Step returns the coordinate one cell away in the given direction.
func (h HexCoord) Step(d Direction) HexCoord {
	off := HexNeighborDirections[d]
	return HexCoord{X: h.X + off.X, Z: h.Z + off.Z}
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for d := NE; d <= NW; d++ {
		result[d] = h.Step(d)
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	return (abs(a.X-b.X) + abs(a.Y()-b.Y()) + abs(a.Z-b.Z)) / 2
}

// DistanceWrapped returns the hex distance on a map that wraps east-west
// every wrapSize columns. A wrapSize of zero means no wrapping.
func DistanceWrapped(a, b HexCoord, wrapSize int) int {
	xy := abs(a.X-b.X) + abs(a.Y()-b.Y())
	if wrapSize > 0 {
		// Shifting X by the wrap size keeps Z fixed, so Y moves the other way.
		east := HexCoord{X: b.X + wrapSize, Z: b.Z}
		if w := abs(a.X-east.X) + abs(a.Y()-east.Y()); w < xy {
			xy = w
		} else {
			west := HexCoord{X: b.X - wrapSize, Z: b.Z}
			if w := abs(a.X-west.X) + abs(a.Y()-west.Y()); w < xy {
				xy = w
			}
		}
	}
	return (xy + abs(a.Z-b.Z)) / 2
}

// NormalizeWrapped folds X back into the map's column range on a wrapping map.
func NormalizeWrapped(h HexCoord, wrapSize int) HexCoord {
	if wrapSize <= 0 {
		return h
	}
	ox := h.X + h.Z/2
	if ox < 0 {
		h.X += wrapSize
	} else if ox >= wrapSize {
		h.X -= wrapSize
	}
	return h
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
