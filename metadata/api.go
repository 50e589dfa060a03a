package metadata

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNamespaceNotFound is returned by Lookup when nothing was ever stored in
// the namespace.
var ErrNamespaceNotFound = errors.New("metadata: namespace not found")

// Record is the metadata kept for one vector identifier.
type Record struct {
	ID       string `msgpack:"id"`
	Class    string `msgpack:"class"`
	Sequence string `msgpack:"seq"`
}

// Store is a namespaced metadata store.
type Store interface {
	// Put inserts or replaces records.
	Put(ctx context.Context, namespace string, records []Record) error

	// Lookup returns the records for the ids that exist, in no particular
	// order. Ids without a record are omitted; duplicate ids yield a single
	// record.
	Lookup(ctx context.Context, namespace string, ids []string) ([]Record, error)

	Close() error
}

var namespacePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

func validateNamespace(namespace string) error {
	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("metadata: invalid namespace %q", namespace)
	}
	return nil
}

func validateRecords(records []Record) error {
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("metadata: record %d has empty id", i)
		}
	}
	return nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
