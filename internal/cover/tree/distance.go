package tree

import "github.com/viant/vec/search"

// DistanceFunction names a supported distance metric.
type DistanceFunction string

const (
	// DistanceFunctionEuclidean is a true metric; kNN results are exact.
	DistanceFunctionEuclidean DistanceFunction = "euclidean"
	// DistanceFunctionCosine violates the triangle inequality, so pruning
	// may skip true neighbours.
	DistanceFunctionCosine DistanceFunction = "cosine"
)

// DistanceFunc computes the distance between two points.
type DistanceFunc func(p1, p2 *Point) float32

// Function resolves the callable distance implementation.
func (d DistanceFunction) Function() DistanceFunc {
	switch d {
	case DistanceFunctionEuclidean:
		return EuclideanDistance
	case DistanceFunctionCosine:
		return CosineDistance
	default:
		return nil
	}
}

// EuclideanDistance returns the Euclidean distance between two points.
func EuclideanDistance(p1, p2 *Point) float32 {
	return search.Float32s(p1.Vector).EuclideanDistance(p2.Vector)
}

// CosineDistance returns 1 - cosine similarity, using cached magnitudes.
func CosineDistance(p1, p2 *Point) float32 {
	m1, m2 := p1.Magnitude, p2.Magnitude
	if m1 == 0 {
		m1 = search.Float32s(p1.Vector).Magnitude()
	}
	if m2 == 0 {
		m2 = search.Float32s(p2.Vector).Magnitude()
	}
	return search.Float32s(p1.Vector).CosineDistanceWithMagnitude(p2.Vector, m1, m2)
}
