package tree

// Neighbor describes a candidate returned by a kNN search.
type Neighbor struct {
	Point    *Point
	Distance float32
}

// neighbors is a heap holding the current best k with the worst candidate,
// by (distance, rank), on top.
type neighbors struct {
	items  []Neighbor
	before func(a, b *Point) bool
}

// better reports whether a ranks ahead of b.
func (h *neighbors) better(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return h.before(a.Point, b.Point)
}

// worst returns the top of the heap; the heap must not be empty.
func (h *neighbors) worst() Neighbor { return h.items[0] }

func (h *neighbors) Len() int           { return len(h.items) }
func (h *neighbors) Less(i, j int) bool { return h.better(h.items[j], h.items[i]) }
func (h *neighbors) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *neighbors) Push(x any)         { h.items = append(h.items, x.(Neighbor)) }
func (h *neighbors) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

type nodeItem struct {
	node       *Node
	lowerBound float32
	centerDist float32
}

// nodeQueue is a min-heap on the lower bound of the subtree distance.
type nodeQueue []nodeItem

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].lowerBound < q[j].lowerBound }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)        { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
