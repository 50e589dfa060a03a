package metadata

import (
	"context"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	bg, err := OpenBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sq.Close()
		_ = bg.Close()
	})
	return map[string]Store{"sqlite": sq, "badger": bg}
}

func byID(records []Record) []Record {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

func TestStore_PutLookup(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "dna", []Record{
				{ID: "442204850290667521", Class: "3", Sequence: "ACGTTA"},
				{ID: "2", Class: "1", Sequence: "GGGG"},
				{ID: "3", Class: "0", Sequence: "TTTT"},
			}))
			require.NoError(t, s.Put(ctx, "other", []Record{{ID: "2", Class: "9", Sequence: "CCCC"}}))

			got, err := s.Lookup(ctx, "dna", []string{"442204850290667521", "2", "404", "2"})
			require.NoError(t, err)
			assert.Equal(t, []Record{
				{ID: "2", Class: "1", Sequence: "GGGG"},
				{ID: "442204850290667521", Class: "3", Sequence: "ACGTTA"},
			}, byID(got))

			got, err = s.Lookup(ctx, "other", []string{"2"})
			require.NoError(t, err)
			assert.Equal(t, []Record{{ID: "2", Class: "9", Sequence: "CCCC"}}, got)
		})
	}
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "dna", []Record{{ID: "1", Class: "a", Sequence: "AAAA"}}))
			require.NoError(t, s.Put(ctx, "dna", []Record{{ID: "1", Class: "b", Sequence: "CCCC"}}))
			got, err := s.Lookup(ctx, "dna", []string{"1"})
			require.NoError(t, err)
			assert.Equal(t, []Record{{ID: "1", Class: "b", Sequence: "CCCC"}}, got)
		})
	}
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Lookup(ctx, "nothing", []string{"1"})
			assert.ErrorIs(t, err, ErrNamespaceNotFound)

			_, err = s.Lookup(ctx, "drop table;", []string{"1"})
			assert.Error(t, err)

			assert.Error(t, s.Put(ctx, "dna", []Record{{Class: "x"}}))

			got, err := s.Lookup(ctx, "dna", nil)
			if err == nil {
				assert.Empty(t, got)
			}
		})
	}
}

func TestSQLite_LookupChunks(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	const n = lookupChunk*2 + 7
	records := make([]Record, n)
	ids := make([]string, n)
	for i := range records {
		id := strconv.Itoa(i)
		records[i] = Record{ID: id, Class: "c", Sequence: "ACGT"}
		ids[i] = id
	}
	require.NoError(t, s.Put(ctx, "dna", records))
	got, err := s.Lookup(ctx, "dna", ids)
	require.NoError(t, err)
	assert.Len(t, got, n)
}
