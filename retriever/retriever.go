// Package retriever enforces the top-k retrieval contract over a vector index
// service: per query vector, at most topK hits ordered by non-decreasing
// distance.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/viant/seqvec/vectordb"
)

// ErrInvalidTopK is returned when topK is less than one.
var ErrInvalidTopK = errors.New("retriever: topK must be >= 1")

// Retriever queries a vectordb.Service.
type Retriever struct {
	service vectordb.Service
}

// New returns a Retriever over service.
func New(service vectordb.Service) (*Retriever, error) {
	if service == nil {
		return nil, fmt.Errorf("retriever: service is nil")
	}
	return &Retriever{service: service}, nil
}

// Search returns the topK nearest hits for each vector. Backend errors are
// returned as is, without retry.
func (r *Retriever) Search(ctx context.Context, namespace string, vectors [][]float32, topK int) ([][]vectordb.Hit, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}
	if namespace == "" {
		return nil, fmt.Errorf("%w: empty namespace", vectordb.ErrIndexNotFound)
	}
	if len(vectors) == 0 {
		return [][]vectordb.Hit{}, nil
	}
	results, err := r.service.Search(ctx, namespace, vectors, topK)
	if err != nil {
		return nil, err
	}
	if len(results) != len(vectors) {
		return nil, fmt.Errorf("%w: %d result lists for %d vectors", vectordb.ErrIndexUnavailable, len(results), len(vectors))
	}
	for i, hits := range results {
		sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })
		if len(hits) > topK {
			hits = hits[:topK]
		}
		if hits == nil {
			hits = []vectordb.Hit{}
		}
		results[i] = hits
	}
	return results, nil
}
