package world

import "math"

// Hex geometry constants. Cells are pointy-top; offset rows are OuterRadius*1.5 apart.
const (
	OuterToInner  = 0.866025404
	OuterRadius   = 10.0
	InnerRadius   = OuterRadius * OuterToInner
	InnerDiameter = InnerRadius * 2

	ElevationStep = 3.0

	ChunkSizeX = 5
	ChunkSizeZ = 5
)

// EdgeType classifies the connection between two adjacent cells.
type EdgeType uint8

const (
	EdgeFlat  EdgeType = iota // Same elevation
	EdgeSlope                 // One level apart
	EdgeCliff                 // Two or more levels apart
)

// EdgeTypeBetween classifies the edge between cells at the given elevations.
func EdgeTypeBetween(elevation1, elevation2 int) EdgeType {
	if elevation1 == elevation2 {
		return EdgeFlat
	}
	delta := elevation2 - elevation1
	if delta == 1 || delta == -1 {
		return EdgeSlope
	}
	return EdgeCliff
}

func (e EdgeType) String() string {
	switch e {
	case EdgeFlat:
		return "flat"
	case EdgeSlope:
		return "slope"
	default:
		return "cliff"
	}
}

// CellCenter returns the planar world position of the offset cell (x, z).
func CellCenter(x, z int) (float64, float64) {
	px := (float64(x) + float64(z)*0.5 - float64(z/2)) * InnerDiameter
	pz := float64(z) * OuterRadius * 1.5
	return px, pz
}

// FromPosition returns the cube coordinate of the cell containing the planar
// world position (px, pz).
func FromPosition(px, pz float64) HexCoord {
	x := px / InnerDiameter
	y := -x

	offset := pz / (OuterRadius * 3)
	x -= offset
	y -= offset

	ix := int(math.Round(x))
	iy := int(math.Round(y))
	iz := int(math.Round(-x - y))

	if ix+iy+iz != 0 {
		dx := math.Abs(x - float64(ix))
		dy := math.Abs(y - float64(iy))
		dz := math.Abs(-x - y - float64(iz))

		if dx > dy && dx > dz {
			ix = -iy - iz
		} else if dz > dy {
			iz = -ix - iy
		}
	}
	return HexCoord{X: ix, Z: iz}
}
