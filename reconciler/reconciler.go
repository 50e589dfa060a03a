// Package reconciler maps retrieved vector identifiers back to their class
// labels and original sequences.
//
// Identifiers that have no metadata record are dropped from the output and
// reported in Resolution.Missing; Resolution.Positions lets callers filter
// any slice aligned with the input ids the same way.
package reconciler

import (
	"context"
	"fmt"

	"github.com/viant/seqvec/metadata"
)

// MetadataLookupError reports a failed metadata store lookup.
type MetadataLookupError struct {
	Namespace string
	Err       error
}

func (e *MetadataLookupError) Error() string {
	return fmt.Sprintf("reconciler: metadata lookup in %q failed: %v", e.Namespace, e.Err)
}

func (e *MetadataLookupError) Unwrap() error { return e.Err }

// Resolution is the outcome of Resolve. Classes, Sequences and Positions have
// equal length; Positions[i] is the index in the input ids of the identifier
// that produced Classes[i] and Sequences[i].
type Resolution struct {
	Classes   []string
	Sequences []string
	Positions []int
	Missing   []string
}

// Reconciler resolves identifiers against a metadata.Store.
type Reconciler struct {
	store metadata.Store
}

// New returns a Reconciler over store.
func New(store metadata.Store) (*Reconciler, error) {
	if store == nil {
		return nil, fmt.Errorf("reconciler: store is nil")
	}
	return &Reconciler{store: store}, nil
}

// Resolve looks up ids in a single batched call and returns the records
// aligned to the order of ids.
func (r *Reconciler) Resolve(ctx context.Context, ids []string, namespace string) (*Resolution, error) {
	res := &Resolution{
		Classes:   make([]string, 0, len(ids)),
		Sequences: make([]string, 0, len(ids)),
		Positions: make([]int, 0, len(ids)),
	}
	if len(ids) == 0 {
		return res, nil
	}
	records, err := r.store.Lookup(ctx, namespace, ids)
	if err != nil {
		return nil, &MetadataLookupError{Namespace: namespace, Err: err}
	}
	byID := make(map[string]metadata.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	for i, id := range ids {
		rec, ok := byID[id]
		if !ok {
			res.Missing = append(res.Missing, id)
			continue
		}
		res.Classes = append(res.Classes, rec.Class)
		res.Sequences = append(res.Sequences, rec.Sequence)
		res.Positions = append(res.Positions, i)
	}
	return res, nil
}
