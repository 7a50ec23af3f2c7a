package world

import "fmt"

// Direction names one of the six edges of a pointy-top hex cell.
type Direction uint8

const (
	NE Direction = iota // Top-right
	E                   // Right
	SE                  // Bottom-right
	SW                  // Bottom-left
	W                   // Left
	NW                  // Top-left
)

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	if d < 3 {
		return d + 3
	}
	return d - 3
}

// Previous returns the direction one step counter-clockwise.
func (d Direction) Previous() Direction {
	if d == NE {
		return NW
	}
	return d - 1
}

// Previous2 returns the direction two steps counter-clockwise.
func (d Direction) Previous2() Direction {
	return (d + 4) % 6
}

// Next returns the direction one step clockwise.
func (d Direction) Next() Direction {
	if d == NW {
		return NE
	}
	return d + 1
}

// Next2 returns the direction two steps clockwise.
func (d Direction) Next2() Direction {
	return (d + 2) % 6
}

func (d Direction) String() string {
	switch d {
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case SW:
		return "SW"
	case W:
		return "W"
	case NW:
		return "NW"
	default:
		return "?"
	}
}

// ParseDirection maps a direction name back to its value.
func ParseDirection(s string) (Direction, bool) {
	for d := NE; d <= NW; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return NE, false
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name such as "NW".
func (d *Direction) UnmarshalText(b []byte) error {
	v, ok := ParseDirection(string(b))
	if !ok {
		return fmt.Errorf("unknown direction %q", b)
	}
	*d = v
	return nil
}
