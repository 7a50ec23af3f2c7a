package navmesh

import "math"

// Mesh is a static triangle mesh with adjacency across shared edges.
type Mesh struct {
	Tris []Triangle

	// neighbors[i][k] is the triangle across edge k of triangle i, where
	// edge 0 is A-B, edge 1 is B-C and edge 2 is C-A; -1 for a border edge.
	neighbors [][3]int
	centroids []Point
}

// NewMesh links triangles that share an edge.
func NewMesh(tris []Triangle) *Mesh {
	m := &Mesh{
		Tris:      tris,
		neighbors: make([][3]int, len(tris)),
		centroids: make([]Point, len(tris)),
	}

	type side struct{ tri, edge int }
	open := make(map[edgeKey]side, len(tris)*3/2)
	for i := range m.Tris {
		t := &m.Tris[i]
		m.centroids[i] = t.Centroid()
		for k, e := range triangleEdges(t) {
			m.neighbors[i][k] = -1
			key := e.key()
			if other, ok := open[key]; ok {
				m.neighbors[i][k] = other.tri
				m.neighbors[other.tri][other.edge] = i
				delete(open, key)
				continue
			}
			open[key] = side{i, k}
		}
	}
	return m
}

func triangleEdges(t *Triangle) [3]Edge {
	return [3]Edge{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
}

// Len returns the number of triangles.
func (m *Mesh) Len() int { return len(m.Tris) }

// Neighbors returns the triangles adjacent to triangle i.
func (m *Mesh) Neighbors(i int) []int {
	out := make([]int, 0, 3)
	for _, n := range m.neighbors[i] {
		if n >= 0 {
			out = append(out, n)
		}
	}
	return out
}

// Centroid returns the centroid of triangle i.
func (m *Mesh) Centroid(i int) Point { return m.centroids[i] }

// Locate returns the triangle containing p.
func (m *Mesh) Locate(p Point) (int, bool) {
	for i := range m.Tris {
		if m.Tris[i].Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// Portal returns the edge shared by adjacent triangles a and b, with left and
// right as seen when walking from a into b.
func (m *Mesh) Portal(a, b int) (left, right Point, ok bool) {
	for k, n := range m.neighbors[a] {
		if n != b {
			continue
		}
		e := triangleEdges(&m.Tris[a])[k]
		// Interior lies left of each counter-clockwise edge, so facing out
		// across it the edge's end is on the left.
		return e.B, e.A, true
	}
	return Point{}, Point{}, false
}

// Cut removes every triangle that the segment from a to b passes through,
// leaving a wall the path search must go around.
func (m *Mesh) Cut(a, b Point) *Mesh {
	kept := make([]Triangle, 0, len(m.Tris))
	for i := range m.Tris {
		t := &m.Tris[i]
		crosses := false
		for _, e := range triangleEdges(t) {
			if segmentsIntersect(a, b, e.A, e.B) {
				crosses = true
				break
			}
		}
		if !crosses {
			kept = append(kept, *t)
		}
	}
	return NewMesh(kept)
}

// segmentsIntersect reports whether segments p1-p2 and q1-q2 cross at a
// point strictly inside both.
func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	const eps = 1e-5
	den := (q2.Y-q1.Y)*(p2.X-p1.X) - (q2.X-q1.X)*(p2.Y-p1.Y)
	if den == 0 {
		return false
	}
	ua := ((q2.X-q1.X)*(p1.Y-q1.Y) - (q2.Y-q1.Y)*(p1.X-q1.X)) / den
	ub := ((p2.X-p1.X)*(p1.Y-q1.Y) - (p2.Y-p1.Y)*(p1.X-q1.X)) / den
	return ua > eps && ua < 1-eps && ub > eps && ub < 1-eps
}

// travelCost is the Manhattan distance between triangle centroids.
func (m *Mesh) travelCost(a, b int) float64 {
	ca, cb := m.centroids[a], m.centroids[b]
	return math.Abs(ca.X-cb.X) + math.Abs(ca.Y-cb.Y)
}
