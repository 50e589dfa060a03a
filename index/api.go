package index

import (
	"fmt"
	"sort"
)

// Neighbor is a single kNN match.
type Neighbor struct {
	ID       int64
	Distance float32
}

// Index defines an in-process vector index.
type Index interface {
	// Build constructs the index from the given ids and vectors, replacing
	// any previous content. ids and vectors must have the same length and all
	// vectors the same dimension.
	Build(ids []int64, vectors [][]float32) error

	// Query returns up to k neighbours of query ordered by non-decreasing
	// distance; ties are broken by ascending id.
	Query(query []float32, k int) ([]Neighbor, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimension returns the vector dimension, or 0 for an empty index.
	Dimension() int
}

// Kind names an Index implementation.
type Kind string

const (
	KindBrute Kind = "brute"
	KindCover Kind = "cover"
)

// CheckBuild validates Build arguments and returns the common dimension.
func CheckBuild(ids []int64, vectors [][]float32) (int, error) {
	if len(ids) != len(vectors) {
		return 0, fmt.Errorf("index: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(vectors) == 0 {
		return 0, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return 0, fmt.Errorf("index: empty vector for id %d", ids[0])
	}
	for j := range vectors {
		if len(vectors[j]) != dim {
			return 0, fmt.Errorf("index: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	return dim, nil
}

// SortNeighbors orders neighbours by distance, then id.
func SortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(a, b int) bool {
		if ns[a].Distance != ns[b].Distance {
			return ns[a].Distance < ns[b].Distance
		}
		return ns[a].ID < ns[b].ID
	})
}
