package navmesh

import "github.com/zyedidia/generic/stack"

// Pool recycles triangles and edges between insertions. A Pool belongs to
// one triangulator at a time.
type Pool struct {
	triangles *stack.Stack[*Triangle]
	edges     *stack.Stack[*Edge]

	allocated int
}

// NewPool creates a pool pre-filled for roughly n points.
func NewPool(n int) *Pool {
	p := &Pool{
		triangles: stack.New[*Triangle](),
		edges:     stack.New[*Edge](),
	}
	for i := 0; i < n; i++ {
		p.triangles.Push(&Triangle{})
	}
	for i := 0; i < n*5; i++ {
		p.edges.Push(&Edge{})
	}
	return p
}

// Triangle returns a triangle through the three points.
func (p *Pool) Triangle(p1, p2, p3 Point) (*Triangle, error) {
	var t *Triangle
	if p.triangles.Size() > 0 {
		t = p.triangles.Pop()
	} else {
		t = &Triangle{}
		p.allocated++
	}
	if err := t.init(p1, p2, p3); err != nil {
		p.PutTriangle(t)
		return nil, err
	}
	return t, nil
}

// PutTriangle returns t to the pool.
func (p *Pool) PutTriangle(t *Triangle) {
	t.completed = false
	p.triangles.Push(t)
}

// Edge returns an edge between two points.
func (p *Pool) Edge(a, b Point) *Edge {
	var e *Edge
	if p.edges.Size() > 0 {
		e = p.edges.Pop()
	} else {
		e = &Edge{}
		p.allocated++
	}
	e.A, e.B = a, b
	return e
}

// PutEdge returns e to the pool.
func (p *Pool) PutEdge(e *Edge) {
	p.edges.Push(e)
}

// Free returns the number of pooled triangles and edges.
func (p *Pool) Free() (triangles, edges int) {
	return p.triangles.Size(), p.edges.Size()
}

// Allocated returns how many objects were created after the pool ran dry.
func (p *Pool) Allocated() int { return p.allocated }
