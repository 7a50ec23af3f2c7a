package navmesh

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// ErrOutOfBounds is returned for points outside the triangulation bounds.
var ErrOutOfBounds = errors.New("point outside triangulation bounds")

// Triangulator runs an incremental Bowyer–Watson triangulation over a
// fixed point set swept left to right. Triangles whose circumcircle lies
// entirely left of the sweep line are marked completed and never examined
// again. A Triangulator is not safe for concurrent use.
type Triangulator struct {
	pool   *Pool
	lo, hi float64
	points []Point
	next   int
	super  [4]Point

	triangles []*Triangle
	completed int // triangles[:completed] are final for the sweep

	// Cavity boundary scratch: edges seen an odd number of times.
	boundary mapset.Set[edgeKey]
	cavity   []*Edge
}

// NewTriangulator prepares a triangulation of points, all of which must lie
// inside the square [lo, hi]². The points are copied and sorted by X. Two
// super triangles covering [lo-1, hi+1]² start the mesh.
func NewTriangulator(pool *Pool, points []Point, lo, hi float64) (*Triangulator, error) {
	if hi <= lo {
		return nil, fmt.Errorf("empty bounds %g..%g", lo, hi)
	}
	sorted := slices.Clone(points)
	for _, p := range sorted {
		if p.X < lo || p.X > hi || p.Y < lo || p.Y > hi {
			return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, p)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Point) int { return cmp.Compare(a.X, b.X) })

	t := &Triangulator{
		pool:     pool,
		lo:       lo,
		hi:       hi,
		points:   sorted,
		boundary: mapset.New[edgeKey](),
		super: [4]Point{
			{lo - 1, lo - 1},
			{hi + 1, lo - 1},
			{lo - 1, hi + 1},
			{hi + 1, hi + 1},
		},
	}

	first, err := pool.Triangle(t.super[0], t.super[1], t.super[2])
	if err != nil {
		return nil, err
	}
	second, err := pool.Triangle(t.super[3], t.super[1], t.super[2])
	if err != nil {
		return nil, err
	}
	t.triangles = append(t.triangles, first, second)
	return t, nil
}

// Step inserts the next point of the sweep and reports whether the sweep
// has finished.
func (t *Triangulator) Step() (bool, error) {
	if t.next >= len(t.points) {
		return true, nil
	}
	p := t.points[t.next]
	t.next++
	if err := t.insert(p, true); err != nil {
		return false, err
	}
	return t.next >= len(t.points), nil
}

// Run inserts every remaining point.
func (t *Triangulator) Run() error {
	for {
		done, err := t.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Progress returns how many sweep points have been inserted out of the total.
func (t *Triangulator) Progress() (int, int) {
	return t.next, len(t.points)
}

// Insert adds an arbitrary point outside the sweep order. Since the point
// may lie left of the sweep line, completed triangles are reopened first.
func (t *Triangulator) Insert(p Point) error {
	if p.X < t.lo || p.X > t.hi || p.Y < t.lo || p.Y > t.hi {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	for _, tri := range t.triangles[:t.completed] {
		tri.completed = false
	}
	t.completed = 0
	return t.insert(p, false)
}

func (t *Triangulator) insert(p Point, sweep bool) error {
	alive := len(t.triangles)
	for i := alive - 1; i >= t.completed; i-- {
		tri := t.triangles[i]

		dx := p.X - tri.Center.X
		if sweep && dx > 0 && dx*dx > tri.RadiusSq {
			// The circle lies left of every later point.
			tri.completed = true
			t.triangles[i] = t.triangles[t.completed]
			t.triangles[t.completed] = tri
			t.completed++
			i++
			continue
		}

		if !tri.InCircumcircle(p) {
			continue
		}

		t.toggleEdge(tri.A, tri.B)
		t.toggleEdge(tri.B, tri.C)
		t.toggleEdge(tri.C, tri.A)

		alive--
		t.triangles[i] = t.triangles[alive]
		t.triangles[alive] = tri
	}

	for _, tri := range t.triangles[alive:] {
		t.pool.PutTriangle(tri)
	}
	clear(t.triangles[alive:])
	t.triangles = t.triangles[:alive]

	var err error
	for _, e := range t.cavity {
		k := e.key()
		if err == nil && t.boundary.Has(k) {
			var tri *Triangle
			if tri, err = t.pool.Triangle(e.A, e.B, p); err == nil {
				t.triangles = append(t.triangles, tri)
			}
		}
		t.boundary.Remove(k)
		t.pool.PutEdge(e)
	}
	clear(t.cavity)
	t.cavity = t.cavity[:0]
	return err
}

// toggleEdge records a cavity triangle edge. An edge shared by two cavity
// triangles is interior and cancels out.
func (t *Triangulator) toggleEdge(a, b Point) {
	e := t.pool.Edge(a, b)
	k := e.key()
	if t.boundary.Has(k) {
		t.boundary.Remove(k)
		t.pool.PutEdge(e)
		return
	}
	t.boundary.Put(k)
	t.cavity = append(t.cavity, e)
}

// Triangles returns the current triangles, super vertices included. The
// slice is owned by the triangulator and changes on the next insertion.
func (t *Triangulator) Triangles() []*Triangle {
	return t.triangles
}

// CompletedCount returns how many triangles the sweep has finalized.
func (t *Triangulator) CompletedCount() int {
	return t.completed
}

// IsSuper reports whether p is one of the super triangle corners.
func (t *Triangulator) IsSuper(p Point) bool {
	for _, s := range t.super {
		if p == s {
			return true
		}
	}
	return false
}

// Mesh snapshots the triangulation without the super triangle corners.
func (t *Triangulator) Mesh() *Mesh {
	tris := make([]Triangle, 0, len(t.triangles))
	for _, tri := range t.triangles {
		if t.IsSuper(tri.A) || t.IsSuper(tri.B) || t.IsSuper(tri.C) {
			continue
		}
		tris = append(tris, *tri)
	}
	return NewMesh(tris)
}
