// Package tree implements a cover tree for kNN queries over float32 vectors.
// Each inserted point carries a value of type T (the caller's identifier).
package tree

import (
	"container/heap"
	"sync"

	"github.com/viant/vec/search"
)

// DefaultBase is the level expansion factor used when none is given.
const DefaultBase float32 = 1.3

// Tree is a cover tree. It is safe for concurrent use; searches take the
// write lock because they refresh cached subtree radii.
type Tree[T any] struct {
	mu           sync.Mutex
	root         *Node
	base         float32
	distance     DistanceFunction
	distanceFunc DistanceFunc
	values       []T
	compare      func(a, b T) int
	version      uint64
}

// Option configures a Tree.
type Option[T any] func(*Tree[T])

// WithCompare orders neighbours at equal distance by cmp on their values.
// Without it, ties are ordered by insertion.
func WithCompare[T any](cmp func(a, b T) int) Option[T] {
	return func(t *Tree[T]) { t.compare = cmp }
}

// NewTree constructs a cover tree with the provided base and distance metric.
// An unknown metric falls back to Euclidean.
func NewTree[T any](base float32, distance DistanceFunction, opts ...Option[T]) *Tree[T] {
	if base <= 1 {
		base = DefaultBase
	}
	fn := distance.Function()
	if fn == nil {
		distance = DistanceFunctionEuclidean
		fn = EuclideanDistance
	}
	t := &Tree[T]{base: base, distance: distance, distanceFunc: fn}
	for _, o := range opts {
		o(t)
	}
	return t
}

// before ranks two inserted points that lie at equal distance.
func (t *Tree[T]) before(a, b *Point) bool {
	if t.compare != nil {
		if c := t.compare(t.values[a.index], t.values[b.index]); c != 0 {
			return c < 0
		}
	}
	return a.index < b.index
}

// Distance returns the metric the tree was built with.
func (t *Tree[T]) Distance() DistanceFunction { return t.distance }

// Len returns the number of inserted points.
func (t *Tree[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.values)
}

// Insert adds a value/vector pair to the tree.
func (t *Tree[T]) Insert(value T, point *Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	point.index = int32(len(t.values))
	t.values = append(t.values, value)
	if point.Magnitude == 0 && len(point.Vector) > 0 {
		point.Magnitude = search.Float32s(point.Vector).Magnitude()
	}
	t.version++
	if t.root == nil {
		node := newNode(point, 0)
		t.root = &node
		return
	}
	t.insert(point)
}

// Value returns the value stored with point.
func (t *Tree[T]) Value(point *Point) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	if !point.HasValue() || int(point.index) >= len(t.values) {
		return zero
	}
	return t.values[point.index]
}

func (t *Tree[T]) insert(point *Point) {
	node := t.root
	level := node.level
	for {
		cover := coverDistance(t.base, level)
		if t.distanceFunc(point, node.point) >= cover {
			if node == t.root {
				// Promote the root until it covers the new point.
				level++
				t.root.level = level
				continue
			}
			node.children = append(node.children, newNode(point, level-1))
			return
		}
		var next *Node
		for i := range node.children {
			child := &node.children[i]
			if t.distanceFunc(point, child.point) < coverDistance(t.base, child.level) {
				next = child
				break
			}
		}
		if next == nil {
			node.children = append(node.children, newNode(point, level-1))
			return
		}
		node = next
		level = next.level
	}
}

// KNearestNeighbors runs a best-first search and returns up to k neighbours
// ordered by ascending distance, then by the tree's tie order.
func (t *Tree[T]) KNearestNeighbors(point *Point, k int) []Neighbor {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil || k <= 0 {
		return nil
	}
	best := &neighbors{before: t.before}
	pq := &nodeQueue{}
	rootDist := t.distanceFunc(point, t.root.point)
	heap.Push(pq, nodeItem{node: t.root, lowerBound: rootDist - t.radius(t.root), centerDist: rootDist})

	// A subtree whose lower bound equals the current worst distance may still
	// hold a tie that ranks ahead of it, so only strictly farther ones prune.
	for pq.Len() > 0 {
		top := heap.Pop(pq).(nodeItem)
		if best.Len() == k && top.lowerBound > best.worst().Distance {
			break
		}
		cand := Neighbor{Point: top.node.point, Distance: top.centerDist}
		if best.Len() < k {
			heap.Push(best, cand)
		} else if best.better(cand, best.worst()) {
			heap.Pop(best)
			heap.Push(best, cand)
		}
		for i := range top.node.children {
			child := &top.node.children[i]
			cd := t.distanceFunc(point, child.point)
			lb := cd - t.radius(child)
			if best.Len() == k && lb > best.worst().Distance {
				continue
			}
			heap.Push(pq, nodeItem{node: child, lowerBound: lb, centerDist: cd})
		}
	}
	result := make([]Neighbor, best.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(best).(Neighbor)
	}
	return result
}

// radius returns the cached maximum distance from n to any descendant.
func (t *Tree[T]) radius(n *Node) float32 {
	if n.radiusVersion == t.version {
		return n.radius
	}
	var maxR float32
	for i := range n.children {
		child := &n.children[i]
		if d := t.distanceFunc(n.point, child.point) + t.radius(child); d > maxR {
			maxR = d
		}
	}
	n.radius = maxR
	n.radiusVersion = t.version
	return maxR
}
