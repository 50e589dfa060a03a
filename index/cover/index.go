// Package cover adapts the cover tree in internal/cover/tree to the
// index.Index interface. Euclidean distance keeps results exact.
package cover

import (
	"cmp"
	"fmt"

	"github.com/viant/seqvec/index"
	"github.com/viant/seqvec/internal/cover/tree"
)

// Index is a cover-tree backed vector index.
type Index struct {
	base float32
	tree *tree.Tree[int64]
	n    int
	dim  int
}

var _ index.Index = (*Index)(nil)

// Option configures an Index.
type Option func(*Index)

// WithBase sets the cover tree level expansion factor (must be > 1).
func WithBase(base float32) Option {
	return func(i *Index) {
		if base > 1 {
			i.base = base
		}
	}
}

// New returns an empty index.
func New(opts ...Option) *Index {
	i := &Index{base: tree.DefaultBase}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Build inserts all vectors into a fresh tree.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	dim, err := index.CheckBuild(ids, vectors)
	if err != nil {
		return fmt.Errorf("cover: %w", err)
	}
	t := tree.NewTree(i.base, tree.DistanceFunctionEuclidean, tree.WithCompare(cmp.Compare[int64]))
	for j, v := range vectors {
		t.Insert(ids[j], tree.NewPoint(v...))
	}
	i.tree, i.n, i.dim = t, len(ids), dim
	return nil
}

// Query returns up to k neighbours by ascending Euclidean distance.
func (i *Index) Query(query []float32, k int) ([]index.Neighbor, error) {
	if i.tree == nil || i.n == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("cover: query dim %d != index dim %d", len(query), i.dim)
	}
	found := i.tree.KNearestNeighbors(tree.NewPoint(query...), k)
	out := make([]index.Neighbor, len(found))
	for j, n := range found {
		out[j] = index.Neighbor{ID: i.tree.Value(n.Point), Distance: n.Distance}
	}
	index.SortNeighbors(out)
	return out, nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return i.n }

// Dimension returns the vector dimension.
func (i *Index) Dimension() int { return i.dim }
