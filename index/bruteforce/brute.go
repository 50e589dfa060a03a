// Package bruteforce provides an exact vector index that answers kNN queries
// by scanning all vectors and scoring them by Euclidean distance.
package bruteforce

import (
	"fmt"

	"github.com/viant/seqvec/index"
	"github.com/viant/vec/search"
)

// Index is a brute-force vector index.
type Index struct {
	ids  []int64
	vecs [][]float32
	dim  int
}

var _ index.Index = (*Index)(nil)

// New returns an empty index.
func New() *Index { return &Index{} }

// Build loads ids and vectors.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	dim, err := index.CheckBuild(ids, vectors)
	if err != nil {
		return fmt.Errorf("bruteforce: %w", err)
	}
	i.ids = append([]int64(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	return nil
}

// Query returns the top-k by ascending Euclidean distance.
func (i *Index) Query(query []float32, k int) ([]index.Neighbor, error) {
	if len(i.vecs) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	q := search.Float32s(query)
	scored := make([]index.Neighbor, len(i.vecs))
	for j, v := range i.vecs {
		scored[j] = index.Neighbor{ID: i.ids[j], Distance: q.EuclideanDistance(v)}
	}
	index.SortNeighbors(scored)
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Dimension returns the vector dimension.
func (i *Index) Dimension() int { return i.dim }
