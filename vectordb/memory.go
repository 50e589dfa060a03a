package vectordb

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/seqvec/index"
	"github.com/viant/seqvec/index/bruteforce"
	"github.com/viant/seqvec/index/cover"
)

// Memory is an in-process Service. Each namespace keeps its raw vectors and
// an index.Index that is rebuilt on the first search after a write.
type Memory struct {
	mu     sync.RWMutex
	kind   index.Kind
	spaces map[string]*collection
	closed bool
}

type collection struct {
	mu    sync.Mutex
	dim   int
	order []int64
	vecs  map[int64][]float32
	idx   index.Index
	dirty bool
}

var _ Service = (*Memory)(nil)

// NewMemory returns an empty in-process service using the given index kind.
// An empty kind selects brute force.
func NewMemory(kind index.Kind) (*Memory, error) {
	switch kind {
	case "":
		kind = index.KindBrute
	case index.KindBrute, index.KindCover:
	default:
		return nil, fmt.Errorf("vectordb: unknown index kind %q", kind)
	}
	return &Memory{kind: kind, spaces: make(map[string]*collection)}, nil
}

func (m *Memory) newIndex() index.Index {
	if m.kind == index.KindCover {
		return cover.New()
	}
	return bruteforce.New()
}

// Create creates a namespace.
func (m *Memory) Create(_ context.Context, namespace string, dim int) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	if dim < 1 {
		return fmt.Errorf("vectordb: invalid dimension %d", dim)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrIndexUnavailable
	}
	if c, ok := m.spaces[namespace]; ok {
		if c.dim != dim {
			return fmt.Errorf("%w: namespace %q exists with dim %d", ErrDimensionMismatch, namespace, c.dim)
		}
		return nil
	}
	m.spaces[namespace] = &collection{dim: dim, vecs: make(map[int64][]float32)}
	return nil
}

func (m *Memory) collection(namespace string) (*collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrIndexUnavailable
	}
	c, ok := m.spaces[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrIndexNotFound, namespace)
	}
	return c, nil
}

// Insert adds or replaces vectors.
func (m *Memory) Insert(_ context.Context, namespace string, ids []int64, vectors [][]float32) error {
	c, err := m.collection(namespace)
	if err != nil {
		return err
	}
	if err := checkInsert(ids, vectors, c.dim); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range ids {
		if _, ok := c.vecs[id]; !ok {
			c.order = append(c.order, id)
		}
		c.vecs[id] = append([]float32(nil), vectors[i]...)
	}
	c.dirty = true
	return nil
}

// Search runs a kNN query per vector.
func (m *Memory) Search(ctx context.Context, namespace string, vectors [][]float32, topK int) ([][]Hit, error) {
	c, err := m.collection(namespace)
	if err != nil {
		return nil, err
	}
	idx, err := c.index(m.newIndex)
	if err != nil {
		return nil, err
	}
	out := make([][]Hit, len(vectors))
	for i, v := range vectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(v) != c.dim {
			return nil, fmt.Errorf("%w: query has %d dims, namespace %q has %d", ErrDimensionMismatch, len(v), namespace, c.dim)
		}
		found, err := idx.Query(v, topK)
		if err != nil {
			return nil, err
		}
		hits := make([]Hit, len(found))
		for j, n := range found {
			hits[j] = Hit{ID: FormatID(n.ID), Distance: n.Distance}
		}
		out[i] = hits
	}
	return out, nil
}

func (c *collection) index(newIndex func() index.Index) (index.Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx != nil && !c.dirty {
		return c.idx, nil
	}
	vecs := make([][]float32, len(c.order))
	for i, id := range c.order {
		vecs[i] = c.vecs[id]
	}
	idx := newIndex()
	if err := idx.Build(c.order, vecs); err != nil {
		return nil, err
	}
	c.idx, c.dirty = idx, false
	return idx, nil
}

// Close marks the service unavailable and drops all namespaces.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.spaces = nil
	return nil
}
