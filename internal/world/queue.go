package world

import (
	"fmt"
	"math"
)

// CellPriorityQueue is a bucket queue keyed by Cell.SearchPriority.
// Each bucket holds a singly linked list of cells threaded through the
// cells themselves, so enqueueing never allocates once the buckets have grown.
type CellPriorityQueue struct {
	grid    *Grid
	buckets []int32
	count   int
	minimum int
}

// NewCellPriorityQueue creates an empty queue over the cells of g.
func NewCellPriorityQueue(g *Grid) *CellPriorityQueue {
	return &CellPriorityQueue{grid: g, minimum: math.MaxInt}
}

// Len returns the number of queued cells.
func (q *CellPriorityQueue) Len() int {
	return q.count
}

// Enqueue pushes c onto the bucket for its current search priority.
func (q *CellPriorityQueue) Enqueue(c *Cell) {
	priority := c.SearchPriority()
	if priority < 0 {
		panic(fmt.Sprintf("world: negative search priority %d for cell %d", priority, c.Index))
	}
	q.count++
	if priority < q.minimum {
		q.minimum = priority
	}
	for priority >= len(q.buckets) {
		q.buckets = append(q.buckets, noCell)
	}
	c.nextWithSame = q.buckets[priority]
	q.buckets[priority] = int32(c.Index)
}

// Dequeue removes and returns a cell with the lowest priority, or nil when empty.
func (q *CellPriorityQueue) Dequeue() *Cell {
	if q.count == 0 {
		return nil
	}
	for ; q.minimum < len(q.buckets); q.minimum++ {
		head := q.buckets[q.minimum]
		if head == noCell {
			continue
		}
		c := &q.grid.cells[head]
		q.buckets[q.minimum] = c.nextWithSame
		c.nextWithSame = noCell
		q.count--
		return c
	}
	return nil
}

// Change moves c, currently queued under oldPriority, to the bucket for its
// current priority.
func (q *CellPriorityQueue) Change(c *Cell, oldPriority int) {
	if oldPriority < 0 || oldPriority >= len(q.buckets) {
		panic(fmt.Sprintf("world: cell %d not queued at priority %d", c.Index, oldPriority))
	}
	idx := int32(c.Index)
	head := q.buckets[oldPriority]
	if head == idx {
		q.buckets[oldPriority] = c.nextWithSame
	} else {
		if head == noCell {
			panic(fmt.Sprintf("world: cell %d not queued at priority %d", c.Index, oldPriority))
		}
		current := &q.grid.cells[head]
		for current.nextWithSame != idx {
			if current.nextWithSame == noCell {
				panic(fmt.Sprintf("world: cell %d not queued at priority %d", c.Index, oldPriority))
			}
			current = &q.grid.cells[current.nextWithSame]
		}
		current.nextWithSame = c.nextWithSame
	}
	q.count--
	q.Enqueue(c)
}

// Clear empties the queue, keeping the bucket storage for reuse.
func (q *CellPriorityQueue) Clear() {
	q.buckets = q.buckets[:0]
	q.count = 0
	q.minimum = math.MaxInt
}
