package tree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomVectors(rng *rand.Rand, n, dim int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dim)
		for j := range v {
			v[j] = rng.Float32()*2 - 1
		}
		out[i] = v
	}
	return out
}

func TestTree_KNearestNeighborsMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vecs := randomVectors(rng, 300, 8)

	tr := NewTree[int](0, DistanceFunctionEuclidean)
	for i, v := range vecs {
		tr.Insert(i, NewPoint(v...))
	}
	require.Equal(t, len(vecs), tr.Len())

	for _, q := range randomVectors(rng, 20, 8) {
		query := NewPoint(q...)
		type scored struct {
			id   int
			dist float32
		}
		all := make([]scored, len(vecs))
		for i, v := range vecs {
			all[i] = scored{id: i, dist: EuclideanDistance(query, NewPoint(v...))}
		}
		sort.Slice(all, func(a, b int) bool { return all[a].dist < all[b].dist })

		got := tr.KNearestNeighbors(query, 5)
		require.Len(t, got, 5)
		for i, n := range got {
			assert.Equal(t, all[i].id, tr.Value(n.Point))
			assert.InDelta(t, all[i].dist, n.Distance, 1e-5)
			if i > 0 {
				assert.LessOrEqual(t, got[i-1].Distance, n.Distance)
			}
		}
	}
}

func TestTree_Edges(t *testing.T) {
	tr := NewTree[string](2, "unknown")
	assert.Equal(t, DistanceFunctionEuclidean, tr.Distance())
	assert.Nil(t, tr.KNearestNeighbors(NewPoint(1, 0), 3))

	tr.Insert("a", NewPoint(1, 0))
	tr.Insert("b", NewPoint(0, 1))
	got := tr.KNearestNeighbors(NewPoint(1, 0.1), 10)
	require.Len(t, got, 2)
	assert.Equal(t, "a", tr.Value(got[0].Point))
	assert.Equal(t, "b", tr.Value(got[1].Point))
	assert.Nil(t, tr.KNearestNeighbors(NewPoint(1, 0), 0))
	assert.Equal(t, "", tr.Value(NewPoint(1, 0)))
}

func TestTree_TiesFollowCompare(t *testing.T) {
	tr := NewTree(0, DistanceFunctionEuclidean, WithCompare(func(a, b int) int { return a - b }))
	for _, id := range []int{9, 4, 6} {
		tr.Insert(id, NewPoint(1, 1))
	}
	tr.Insert(1, NewPoint(3, 3))

	for k, want := range [][]int{{4}, {4, 6}, {4, 6, 9}, {4, 6, 9, 1}} {
		got := tr.KNearestNeighbors(NewPoint(0, 0), k+1)
		ids := make([]int, len(got))
		for i, n := range got {
			ids[i] = tr.Value(n.Point)
		}
		assert.Equal(t, want, ids, "k=%d", k+1)
	}

	plain := NewTree[string](0, DistanceFunctionEuclidean)
	for _, v := range []string{"c", "a", "b"} {
		plain.Insert(v, NewPoint(2, 0))
	}
	got := plain.KNearestNeighbors(NewPoint(0, 0), 2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", plain.Value(got[0].Point))
	assert.Equal(t, "a", plain.Value(got[1].Point))
}
