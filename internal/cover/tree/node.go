package tree

import "math"

// Node is a cover-tree node. radius caches the maximum distance from the
// node point to any descendant and is valid while radiusVersion matches the
// tree version.
type Node struct {
	level         int32
	point         *Point
	children      []Node
	radius        float32
	radiusVersion uint64
}

func newNode(point *Point, level int32) Node {
	return Node{level: level, point: point}
}

func coverDistance(base float32, level int32) float32 {
	return float32(math.Pow(float64(base), float64(level)))
}
