package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// Badger is a Store backed by BadgerDB. Records live under
// "rec/{namespace}/{id}" as msgpack; "ns/{namespace}" marks a namespace that
// has received at least one Put.
type Badger struct {
	db *badger.DB
}

var _ Store = (*Badger)(nil)

// BadgerOptions configures the Badger store.
type BadgerOptions struct {
	// Dir is the data directory. Required unless InMemory is set.
	Dir string

	// InMemory runs Badger without disk persistence.
	InMemory bool

	// Logger receives Badger warnings and errors. Nil discards them.
	Logger *slog.Logger
}

// OpenBadger opens a Badger store.
func OpenBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("metadata: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(badgerLogger{opts.Logger})
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("metadata: open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func recordKey(namespace, id string) []byte { return []byte("rec/" + namespace + "/" + id) }
func namespaceKey(namespace string) []byte  { return []byte("ns/" + namespace) }

// Put inserts or replaces records.
func (b *Badger) Put(_ context.Context, namespace string, records []Record) error {
	if err := validateNamespace(namespace); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	if err := wb.Set(namespaceKey(namespace), []byte{}); err != nil {
		return err
	}
	for _, r := range records {
		data, err := msgpack.Marshal(&r)
		if err != nil {
			return fmt.Errorf("metadata: encode record %q: %w", r.ID, err)
		}
		if err := wb.Set(recordKey(namespace, r.ID), data); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Lookup fetches records by id within a single read transaction.
func (b *Badger) Lookup(ctx context.Context, namespace string, ids []string) ([]Record, error) {
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}
	ids = unique(ids)
	out := make([]Record, 0, len(ids))
	err := b.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(namespaceKey(namespace)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %q", ErrNamespaceNotFound, namespace)
			}
			return err
		}
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := txn.Get(recordKey(namespace, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var r Record
			if err := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("metadata: decode record %q: %w", id, err)
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the database.
func (b *Badger) Close() error { return b.db.Close() }

// badgerLogger forwards warnings and errors to slog and drops the rest.
type badgerLogger struct{ l *slog.Logger }

func (b badgerLogger) Errorf(f string, v ...interface{}) {
	if b.l != nil {
		b.l.Error(fmt.Sprintf(f, v...), "component", "badger")
	}
}

func (b badgerLogger) Warningf(f string, v ...interface{}) {
	if b.l != nil {
		b.l.Warn(fmt.Sprintf(f, v...), "component", "badger")
	}
}

func (badgerLogger) Infof(string, ...interface{})  {}
func (badgerLogger) Debugf(string, ...interface{}) {}
