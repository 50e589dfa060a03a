package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/seqvec/index"
	"github.com/viant/seqvec/vectordb"
)

// stubService returns canned hits regardless of input.
type stubService struct {
	hits  [][]vectordb.Hit
	err   error
	calls int
}

func (s *stubService) Create(context.Context, string, int) error { return nil }
func (s *stubService) Insert(context.Context, string, []int64, [][]float32) error {
	return nil
}
func (s *stubService) Search(context.Context, string, [][]float32, int) ([][]vectordb.Hit, error) {
	s.calls++
	return s.hits, s.err
}
func (s *stubService) Close() error { return nil }

func TestRetriever_SortsAndTruncates(t *testing.T) {
	svc := &stubService{hits: [][]vectordb.Hit{{
		{ID: "a", Distance: 0.9},
		{ID: "b", Distance: 0.1},
		{ID: "c", Distance: 0.5},
		{ID: "d", Distance: 0.1},
	}}}
	r, err := New(svc)
	require.NoError(t, err)

	got, err := r.Search(context.Background(), "dna", [][]float32{{1}}, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []vectordb.Hit{
		{ID: "b", Distance: 0.1},
		{ID: "d", Distance: 0.1},
		{ID: "c", Distance: 0.5},
	}, got[0])
}

func TestRetriever_Validation(t *testing.T) {
	svc := &stubService{}
	r, err := New(svc)
	require.NoError(t, err)

	_, err = r.Search(context.Background(), "dna", [][]float32{{1}}, 0)
	assert.ErrorIs(t, err, ErrInvalidTopK)
	_, err = r.Search(context.Background(), "", [][]float32{{1}}, 5)
	assert.ErrorIs(t, err, vectordb.ErrIndexNotFound)
	assert.Zero(t, svc.calls)

	_, err = New(nil)
	assert.Error(t, err)
}

func TestRetriever_PropagatesWithoutRetry(t *testing.T) {
	svc := &stubService{err: errors.Join(vectordb.ErrIndexUnavailable, errors.New("connection refused"))}
	r, err := New(svc)
	require.NoError(t, err)

	got, err := r.Search(context.Background(), "dna", [][]float32{{1}}, 5)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, vectordb.ErrIndexUnavailable)
	assert.Equal(t, 1, svc.calls)
}

func TestRetriever_ResultCountMismatch(t *testing.T) {
	r, err := New(&stubService{hits: [][]vectordb.Hit{}})
	require.NoError(t, err)
	_, err = r.Search(context.Background(), "dna", [][]float32{{1}}, 5)
	assert.ErrorIs(t, err, vectordb.ErrIndexUnavailable)
}

func TestRetriever_Memory(t *testing.T) {
	ctx := context.Background()
	svc, err := vectordb.NewMemory(index.KindBrute)
	require.NoError(t, err)
	require.NoError(t, svc.Create(ctx, "dna", 1))
	require.NoError(t, svc.Insert(ctx, "dna", []int64{1, 2, 3, 4}, [][]float32{{4}, {1}, {3}, {2}}))

	r, err := New(svc)
	require.NoError(t, err)
	got, err := r.Search(ctx, "dna", [][]float32{{0}}, 2)
	require.NoError(t, err)
	require.Len(t, got[0], 2)
	assert.Equal(t, "2", got[0][0].ID)
	assert.Equal(t, "4", got[0][1].ID)
	assert.LessOrEqual(t, got[0][0].Distance, got[0][1].Distance)
}
