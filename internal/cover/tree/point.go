package tree

// Point represents a vector stored in the tree. index is -1 until the point
// is inserted.
type Point struct {
	index     int32
	Magnitude float32
	Vector    []float32
}

// HasValue reports whether the point has an associated value.
func (p *Point) HasValue() bool {
	return p != nil && p.index >= 0
}

// NewPoint constructs a detached point for the given vector, e.g. a query.
func NewPoint(vector ...float32) *Point {
	return &Point{index: -1, Vector: vector}
}
