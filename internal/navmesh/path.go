package navmesh

import "container/heap"

// FindTrianglePath runs A* over triangle adjacency from triangle start to
// triangle goal, costing each hop by the Manhattan distance between
// centroids. Equal f values pop the lower heuristic first. The strip runs
// from start to goal.
func FindTrianglePath(m *Mesh, start, goal int) ([]int, bool) {
	n := m.Len()
	if start < 0 || start >= n || goal < 0 || goal >= n {
		return nil, false
	}

	g := make([]float64, n)
	parent := make([]int, n)
	seen := make([]bool, n)
	closed := make([]bool, n)

	open := &triangleQueue{}
	heap.Init(open)
	heap.Push(open, &triangleStep{tri: start, h: m.travelCost(start, goal)})
	seen[start] = true
	parent[start] = -1

	for open.Len() > 0 {
		curr := heap.Pop(open).(*triangleStep)
		if closed[curr.tri] {
			continue
		}
		closed[curr.tri] = true

		if curr.tri == goal {
			return restoreStrip(parent, start, goal), true
		}

		for _, nb := range m.neighbors[curr.tri] {
			if nb < 0 || closed[nb] {
				continue
			}
			cost := g[curr.tri] + m.travelCost(curr.tri, nb)
			if seen[nb] && cost >= g[nb] {
				continue
			}
			seen[nb] = true
			g[nb] = cost
			parent[nb] = curr.tri
			heap.Push(open, &triangleStep{tri: nb, g: cost, h: m.travelCost(nb, goal)})
		}
	}
	return nil, false
}

type triangleStep struct {
	tri  int
	g, h float64
}

type triangleQueue []*triangleStep

func (q triangleQueue) Len() int { return len(q) }
func (q triangleQueue) Less(i, j int) bool {
	fi, fj := q[i].g+q[i].h, q[j].g+q[j].h
	return fi < fj || fi == fj && q[i].h < q[j].h
}
func (q triangleQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *triangleQueue) Push(x any) { *q = append(*q, x.(*triangleStep)) }

func (q *triangleQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func restoreStrip(parent []int, start, goal int) []int {
	var strip []int
	for t := goal; t != start; t = parent[t] {
		strip = append(strip, t)
	}
	strip = append(strip, start)
	for i, j := 0, len(strip)-1; i < j; i, j = i+1, j-1 {
		strip[i], strip[j] = strip[j], strip[i]
	}
	return strip
}

// StraightenPath pulls a path taut through the portals of a triangle strip
// using the funnel algorithm. The result starts at from and ends at to.
func StraightenPath(m *Mesh, strip []int, from, to Point) []Point {
	if len(strip) <= 1 {
		if from == to {
			return []Point{from}
		}
		return []Point{from, to}
	}

	portals := make([][2]Point, 0, len(strip)+1)
	portals = append(portals, [2]Point{from, from})
	for i := 0; i+1 < len(strip); i++ {
		left, right, ok := m.Portal(strip[i], strip[i+1])
		if !ok {
			return nil
		}
		portals = append(portals, [2]Point{left, right})
	}
	portals = append(portals, [2]Point{to, to})

	path := []Point{from}
	apex, left, right := from, from, from
	apexIdx, leftIdx, rightIdx := 0, 0, 0

	for i := 1; i < len(portals); i++ {
		pl, pr := portals[i][0], portals[i][1]

		// Narrow the right side.
		if area2(apex, right, pr) >= 0 {
			if apex == right || area2(apex, left, pr) < 0 {
				right, rightIdx = pr, i
			} else {
				// Right crossed over left: left becomes a corner.
				path = appendPoint(path, left)
				apex, apexIdx = left, leftIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}

		// Narrow the left side.
		if area2(apex, left, pl) <= 0 {
			if apex == left || area2(apex, right, pl) > 0 {
				left, leftIdx = pl, i
			} else {
				path = appendPoint(path, right)
				apex, apexIdx = right, rightIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}
	}
	return appendPoint(path, to)
}

func appendPoint(path []Point, p Point) []Point {
	if len(path) > 0 && path[len(path)-1] == p {
		return path
	}
	return append(path, p)
}

// FindPath locates both points on the mesh and returns the straightened
// route between them.
func FindPath(m *Mesh, from, to Point) ([]Point, bool) {
	start, ok := m.Locate(from)
	if !ok {
		return nil, false
	}
	goal, ok := m.Locate(to)
	if !ok {
		return nil, false
	}
	strip, ok := FindTrianglePath(m, start, goal)
	if !ok {
		return nil, false
	}
	path := StraightenPath(m, strip, from, to)
	return path, path != nil
}

// PathLength sums the segment lengths of a polyline.
func PathLength(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Dist(path[i])
	}
	return total
}
