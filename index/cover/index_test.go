package cover

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/seqvec/index/bruteforce"
	"github.com/viant/seqvec/vector"
)

func TestIndex_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n, dim = 500, 16
	ids := make([]int64, n)
	vecs := make([][]float32, n)
	for i := range vecs {
		ids[i] = int64(1_000_000_000_000 + i)
		v := make([]float32, dim)
		for j := range v {
			v[j] = rng.Float32()
		}
		vector.Normalize(v)
		vecs[i] = v
	}

	cov := New(WithBase(1.5))
	require.NoError(t, cov.Build(ids, vecs))
	brute := bruteforce.New()
	require.NoError(t, brute.Build(ids, vecs))
	assert.Equal(t, n, cov.Len())
	assert.Equal(t, dim, cov.Dimension())

	for q := 0; q < 25; q++ {
		query := make([]float32, dim)
		for j := range query {
			query[j] = rng.Float32()
		}
		vector.Normalize(query)

		want, err := brute.Query(query, 10)
		require.NoError(t, err)
		got, err := cov.Query(query, 10)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID, "query %d rank %d", q, i)
			assert.InDelta(t, want[i].Distance, got[i].Distance, 1e-5)
		}
	}
}

func TestIndex_Empty(t *testing.T) {
	cov := New()
	got, err := cov.Query([]float32{1, 2}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, cov.Build([]int64{1}, [][]float32{{1, 2}}))
	_, err = cov.Query([]float32{1}, 1)
	assert.Error(t, err)
}

func TestIndex_TiesMatchBruteForce(t *testing.T) {
	ids := []int64{9, 4, 6, 442204850290667521, 2}
	vecs := [][]float32{{1, 1}, {1, 1}, {1, 1}, {1, 1}, {5, 5}}
	cov := New()
	require.NoError(t, cov.Build(ids, vecs))
	brute := bruteforce.New()
	require.NoError(t, brute.Build(ids, vecs))

	for k := 1; k <= len(ids); k++ {
		want, err := brute.Query([]float32{0, 0}, k)
		require.NoError(t, err)
		got, err := cov.Query([]float32{0, 0}, k)
		require.NoError(t, err)
		assert.Equal(t, want, got, "k=%d", k)
	}
}
