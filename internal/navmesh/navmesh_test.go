package navmesh

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"
)

func triangulate(t *testing.T, points []Point, lo, hi float64) *Triangulator {
	t.Helper()
	tr, err := NewTriangulator(NewPool(len(points)), points, lo, hi)
	if err != nil {
		t.Fatalf("NewTriangulator: %v", err)
	}
	if err := tr.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return tr
}

func TestTriangleInit(t *testing.T) {
	var tri Triangle
	if err := tri.init(Point{0, 0}, Point{0, 1}, Point{1, 0}); err != nil {
		t.Fatal(err)
	}
	if area2(tri.A, tri.B, tri.C) <= 0 {
		t.Error("vertices not counter-clockwise")
	}
	if math.Abs(tri.Center.X-0.5) > 1e-9 || math.Abs(tri.Center.Y-0.5) > 1e-9 {
		t.Errorf("circumcenter = %v, want (0.5, 0.5)", tri.Center)
	}
	if math.Abs(tri.RadiusSq-0.5) > 1e-9 {
		t.Errorf("radius² = %g, want 0.5", tri.RadiusSq)
	}
	if !tri.InCircumcircle(Point{0.9, 0.9}) || tri.InCircumcircle(Point{1.2, 1.2}) {
		t.Error("circumcircle test wrong")
	}
	if !tri.Contains(Point{0.2, 0.2}) || tri.Contains(Point{0.8, 0.8}) {
		t.Error("containment test wrong")
	}
}

func TestTriangleInitErrors(t *testing.T) {
	var tri Triangle
	if err := tri.init(Point{1, 1}, Point{1, 1}, Point{2, 0}); !errors.Is(err, ErrDegenerateTriangle) {
		t.Errorf("coincident points: %v", err)
	}
	if err := tri.init(Point{0, 0}, Point{1, 1}, Point{2, 2}); !errors.Is(err, ErrCollinear) {
		t.Errorf("collinear points: %v", err)
	}
}

func TestDelaunayEmptyCircumcircle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := RandomPoints(rng, 300, -10, 10)
	tr := triangulate(t, points, -10, 10)

	tris := tr.Triangles()
	for _, tri := range tris {
		for _, p := range points {
			if p == tri.A || p == tri.B || p == tri.C {
				continue
			}
			dx, dy := p.X-tri.Center.X, p.Y-tri.Center.Y
			if dx*dx+dy*dy < tri.RadiusSq*(1-1e-9) {
				t.Fatalf("point %v inside circumcircle of %v %v %v", p, tri.A, tri.B, tri.C)
			}
		}
	}
	if done, total := tr.Progress(); done != total || total != 300 {
		t.Errorf("Progress = %d/%d", done, total)
	}
	if tr.CompletedCount() == 0 {
		t.Error("sweep completed no triangles")
	}
}

func TestDelaunayCoversArea(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	points := RandomPoints(rng, 200, 0, 50)
	tr := triangulate(t, points, 0, 50)

	// Triangles tile the super rectangle exactly.
	area := 0.0
	for _, tri := range tr.Triangles() {
		area += area2(tri.A, tri.B, tri.C) / 2
	}
	if want := 52.0 * 52.0; math.Abs(area-want) > 1e-6 {
		t.Errorf("total area = %g, want %g", area, want)
	}

	// Euler: a triangulation of n interior points plus 4 corners in a
	// square has 2n + 2 triangles.
	if got, want := len(tr.Triangles()), 2*len(points)+2; got != want {
		t.Errorf("triangle count = %d, want %d", got, want)
	}
}

func TestStepIsIncremental(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points := RandomPoints(rng, 10, -5, 5)
	tr, err := NewTriangulator(NewPool(10), points, -5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(tr.Triangles()); got != 2 {
		t.Fatalf("initial triangles = %d, want 2", got)
	}
	for i := 1; i <= 10; i++ {
		done, err := tr.Step()
		if err != nil {
			t.Fatal(err)
		}
		if got, want := len(tr.Triangles()), 2*i+2; got != want {
			t.Fatalf("after %d points: %d triangles, want %d", i, got, want)
		}
		if done != (i == 10) {
			t.Fatalf("step %d: done = %t", i, done)
		}
	}
	if done, _ := tr.Step(); !done {
		t.Fatal("Step after the end should report done")
	}
}

func TestInsertArbitraryPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	points := RandomPoints(rng, 100, -10, 10)
	tr := triangulate(t, points, -10, 10)

	// A point far left of the finished sweep reopens completed triangles.
	extra := Point{-9.5, 0.25}
	if err := tr.Insert(extra); err != nil {
		t.Fatal(err)
	}
	all := append(points, extra)
	for _, tri := range tr.Triangles() {
		for _, p := range all {
			if p == tri.A || p == tri.B || p == tri.C {
				continue
			}
			dx, dy := p.X-tri.Center.X, p.Y-tri.Center.Y
			if dx*dx+dy*dy < tri.RadiusSq*(1-1e-9) {
				t.Fatalf("point %v inside circumcircle after Insert", p)
			}
		}
	}
	if err := tr.Insert(Point{20, 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("out of bounds Insert: %v", err)
	}
}

func TestNewTriangulatorRejectsOutside(t *testing.T) {
	_, err := NewTriangulator(NewPool(1), []Point{{11, 0}}, -10, 10)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestPoolReuse(t *testing.T) {
	pool := NewPool(4)
	tris, edges := pool.Free()
	if tris != 4 || edges != 20 {
		t.Fatalf("Free = %d, %d", tris, edges)
	}
	tri, err := pool.Triangle(Point{0, 0}, Point{1, 0}, Point{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	pool.PutTriangle(tri)
	if _, err := pool.Triangle(Point{0, 0}, Point{0, 0}, Point{0, 1}); err == nil {
		t.Fatal("expected degenerate error")
	}
	if tris, _ := pool.Free(); tris != 4 {
		t.Fatalf("failed triangle not returned to pool: %d free", tris)
	}

	rng := rand.New(rand.NewSource(5))
	tr, err := NewTriangulator(pool, RandomPoints(rng, 50, 0, 1), 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Run(); err != nil {
		t.Fatal(err)
	}
	if pool.Allocated() == 0 {
		t.Error("a pool sized for 4 points should have grown for 50")
	}
}

func TestMeshAdjacencyAndPortals(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	tr := triangulate(t, RandomPoints(rng, 120, -10, 10), -10, 10)
	m := tr.Mesh()
	if m.Len() == 0 {
		t.Fatal("empty mesh")
	}

	for i := 0; i < m.Len(); i++ {
		for _, j := range m.Neighbors(i) {
			l, r, ok := m.Portal(i, j)
			if !ok {
				t.Fatalf("no portal between neighbors %d and %d", i, j)
			}
			// Facing out of i across the portal, i lies behind and j ahead.
			if area2(r, l, m.Centroid(i)) <= 0 || area2(r, l, m.Centroid(j)) >= 0 {
				t.Fatalf("portal %d->%d has left %v right %v misoriented", i, j, l, r)
			}
			bl, br, _ := m.Portal(j, i)
			if bl != r || br != l {
				t.Fatalf("reverse portal %d->%d not mirrored", j, i)
			}
		}
	}
	if _, _, ok := m.Portal(0, 0); ok {
		t.Error("a triangle has no portal to itself")
	}
}

func TestFindPathOpenMesh(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := triangulate(t, RandomPoints(rng, 400, -10, 10), -10, 10)
	m := tr.Mesh()

	from, to := Point{-6, 0.3}, Point{6, 0.3}
	path, ok := FindPath(m, from, to)
	if !ok {
		t.Fatal("no path across open mesh")
	}
	if path[0] != from || path[len(path)-1] != to {
		t.Fatalf("path runs %v..%v", path[0], path[len(path)-1])
	}
	got, want := PathLength(path), from.Dist(to)
	if got < want-1e-9 || got > want*1.1 {
		t.Errorf("path length = %g, want close to %g (path %v)", got, want, path)
	}
}

// squareMesh splits each unit square with the given lower-left corners
// into two triangles.
func squareMesh(t *testing.T, corners []Point) *Mesh {
	t.Helper()
	var tris []Triangle
	for _, c := range corners {
		var lower, upper Triangle
		if err := lower.init(c, Point{c.X + 1, c.Y}, Point{c.X + 1, c.Y + 1}); err != nil {
			t.Fatal(err)
		}
		if err := upper.init(c, Point{c.X + 1, c.Y + 1}, Point{c.X, c.Y + 1}); err != nil {
			t.Fatal(err)
		}
		tris = append(tris, lower, upper)
	}
	return NewMesh(tris)
}

func TestStraightenPathCorner(t *testing.T) {
	// An L-shaped corridor turning up at x=2; the inner corner is (2, 1).
	m := squareMesh(t, []Point{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}})
	from, to := Point{0.5, 0.5}, Point{2.5, 2.5}

	path, ok := FindPath(m, from, to)
	if !ok {
		t.Fatal("no path through corridor")
	}
	want := []Point{from, {2, 1}, to}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestStraightenPathStraightCorridor(t *testing.T) {
	m := squareMesh(t, []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}})
	from, to := Point{0.2, 0.5}, Point{3.8, 0.5}
	path, ok := FindPath(m, from, to)
	if !ok {
		t.Fatal("no path")
	}
	if len(path) != 2 {
		t.Fatalf("straight corridor path = %v, want 2 points", path)
	}
}

func TestFindPathAroundCut(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	tr := triangulate(t, RandomPoints(rng, 600, -10, 10), -10, 10)
	m := tr.Mesh().Cut(Point{0, -12}, Point{0, 4})

	from, to := Point{-5, -5}, Point{5, -5}
	path, ok := FindPath(m, from, to)
	if !ok {
		t.Fatal("no path around the wall")
	}
	if PathLength(path) <= from.Dist(to)+1 {
		t.Errorf("path length %g does not detour around the wall", PathLength(path))
	}
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if (a.X < 0) == (b.X < 0) {
			continue
		}
		y := a.Y + (b.Y-a.Y)*(0-a.X)/(b.X-a.X)
		if y < 4-1e-6 {
			t.Errorf("path crosses the wall at y=%g", y)
		}
	}
}

func TestLocateOutside(t *testing.T) {
	m := squareMesh(t, []Point{{0, 0}})
	if _, ok := m.Locate(Point{5, 5}); ok {
		t.Fatal("point outside the mesh located")
	}
	if _, ok := FindPath(m, Point{0.5, 0.5}, Point{5, 5}); ok {
		t.Fatal("path to a point off the mesh")
	}
}

func TestFindTrianglePathSame(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	m := triangulate(t, RandomPoints(rng, 30, -10, 10), -10, 10).Mesh()
	strip, ok := FindTrianglePath(m, 0, 0)
	if !ok || len(strip) != 1 || strip[0] != 0 {
		t.Fatalf("strip = %v, %t", strip, ok)
	}
	if _, ok := FindTrianglePath(m, 0, m.Len()); ok {
		t.Fatal("out of range goal should fail")
	}
	a, b := Point{1, 1}, Point{1, 1}
	if got := StraightenPath(m, strip, a, b); len(got) != 1 {
		t.Fatalf("StraightenPath to self = %v", got)
	}
}

// stripCost sums centroid hops along a triangle strip.
func stripCost(m *Mesh, strip []int) float64 {
	total := 0.0
	for i := 1; i < len(strip); i++ {
		total += m.travelCost(strip[i-1], strip[i])
	}
	return total
}

// cheapestCost is a plain quadratic Dijkstra over the mesh.
func cheapestCost(m *Mesh, start, goal int) float64 {
	dist := make([]float64, m.Len())
	done := make([]bool, m.Len())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[start] = 0
	for {
		curr := -1
		for i := range dist {
			if !done[i] && !math.IsInf(dist[i], 1) && (curr < 0 || dist[i] < dist[curr]) {
				curr = i
			}
		}
		if curr < 0 || curr == goal {
			return dist[goal]
		}
		done[curr] = true
		for _, nb := range m.Neighbors(curr) {
			if nb >= 0 && dist[curr]+m.travelCost(curr, nb) < dist[nb] {
				dist[nb] = dist[curr] + m.travelCost(curr, nb)
			}
		}
	}
}

func TestFindTrianglePathIsCheapest(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := triangulate(t, RandomPoints(rng, 200, -10, 10), -10, 10).Mesh()

	for _, pair := range [][2]int{{0, m.Len() - 1}, {3, m.Len() / 2}, {m.Len() / 3, 1}} {
		start, goal := pair[0], pair[1]
		strip, ok := FindTrianglePath(m, start, goal)
		if !ok {
			t.Fatalf("no strip %d->%d in a connected mesh", start, goal)
		}
		if strip[0] != start || strip[len(strip)-1] != goal {
			t.Fatalf("strip %v does not run %d->%d", strip, start, goal)
		}
		seen := map[int]bool{}
		for i, tri := range strip {
			if seen[tri] {
				t.Fatalf("strip %v repeats triangle %d", strip, tri)
			}
			seen[tri] = true
			if i > 0 && !slices.Contains(m.Neighbors(strip[i-1]), tri) {
				t.Fatalf("strip %v steps %d->%d across no shared edge", strip, strip[i-1], tri)
			}
		}
		if got, want := stripCost(m, strip), cheapestCost(m, start, goal); math.Abs(got-want) > 1e-9 {
			t.Errorf("strip %d->%d costs %.6f, cheapest is %.6f", start, goal, got, want)
		}
	}
}
