// Package navmesh builds Delaunay triangulations incrementally and finds
// straightened paths across the resulting triangle mesh.
package navmesh

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Triangle construction errors.
var (
	ErrDegenerateTriangle = errors.New("triangle needs 3 distinct points")
	ErrCollinear          = errors.New("triangle points are collinear")
)

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// area2 returns twice the signed area of triangle abc, positive when
// a, b, c turn counter-clockwise.
func area2(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// RandomPoints returns n points uniformly spread over the square [lo, hi)².
func RandomPoints(rng *rand.Rand, n int, lo, hi float64) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			X: lo + rng.Float64()*(hi-lo),
			Y: lo + rng.Float64()*(hi-lo),
		}
	}
	return points
}

// Triangle is a counter-clockwise triangle with a cached circumcircle.
type Triangle struct {
	A, B, C Point

	Center   Point
	RadiusSq float64

	completed bool
}

// init sets the vertices, ordering them counter-clockwise, and computes the
// circumcircle.
func (t *Triangle) init(p1, p2, p3 Point) error {
	if p1 == p2 || p1 == p3 || p2 == p3 {
		return fmt.Errorf("%w: %v %v %v", ErrDegenerateTriangle, p1, p2, p3)
	}

	t.A = p1
	if area2(p1, p2, p3) > 0 {
		t.B, t.C = p2, p3
	} else {
		t.B, t.C = p3, p2
	}
	t.completed = false
	return t.updateCircumcircle()
}

func (t *Triangle) updateCircumcircle() error {
	p0, p1, p2 := t.A, t.B, t.C
	dA := p0.X*p0.X + p0.Y*p0.Y
	dB := p1.X*p1.X + p1.Y*p1.Y
	dC := p2.X*p2.X + p2.Y*p2.Y

	aux1 := dA*(p2.Y-p1.Y) + dB*(p0.Y-p2.Y) + dC*(p1.Y-p0.Y)
	aux2 := -(dA*(p2.X-p1.X) + dB*(p0.X-p2.X) + dC*(p1.X-p0.X))
	div := 2 * (p0.X*(p2.Y-p1.Y) + p1.X*(p0.Y-p2.Y) + p2.X*(p1.Y-p0.Y))

	if math.Abs(div) < 1e-12 {
		return fmt.Errorf("%w: %v %v %v", ErrCollinear, p0, p1, p2)
	}

	t.Center = Point{aux1 / div, aux2 / div}
	dx, dy := t.Center.X-p0.X, t.Center.Y-p0.Y
	t.RadiusSq = dx*dx + dy*dy
	return nil
}

// InCircumcircle reports whether p lies strictly inside the circumcircle.
func (t *Triangle) InCircumcircle(p Point) bool {
	dx, dy := p.X-t.Center.X, p.Y-t.Center.Y
	return dx*dx+dy*dy < t.RadiusSq
}

// Contains reports whether p lies inside or on the triangle.
func (t *Triangle) Contains(p Point) bool {
	d1 := area2(p, t.A, t.B)
	d2 := area2(p, t.B, t.C)
	d3 := area2(p, t.C, t.A)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Centroid returns the mean of the three vertices.
func (t *Triangle) Centroid() Point {
	return Point{(t.A.X + t.B.X + t.C.X) / 3, (t.A.Y + t.B.Y + t.C.Y) / 3}
}

// Completed reports whether the sweep has moved past the circumcircle, so
// no later point can affect the triangle.
func (t *Triangle) Completed() bool { return t.completed }

// Vertices returns the three corners in counter-clockwise order.
func (t *Triangle) Vertices() [3]Point { return [3]Point{t.A, t.B, t.C} }

// Edge is an undirected segment.
type Edge struct {
	A, B Point
}

// key returns an orientation-independent identity for the edge.
func (e *Edge) key() edgeKey {
	if e.B.X < e.A.X || (e.B.X == e.A.X && e.B.Y < e.A.Y) {
		return edgeKey{e.B, e.A}
	}
	return edgeKey{e.A, e.B}
}

type edgeKey struct {
	lo, hi Point
}
