package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/viant/seqvec/engine"
)

// lookupChunk bounds the number of bound parameters per IN query.
const lookupChunk = 500

// SQLite is a Store backed by one table per namespace.
type SQLite struct {
	db   *sql.DB
	owns bool
}

var _ Store = (*SQLite)(nil)

// NewSQLite wraps an existing database; the caller keeps ownership.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, fmt.Errorf("metadata: db is nil")
	}
	return &SQLite{db: db}, nil
}

// OpenSQLite opens dsn and returns a store that closes it on Close.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := engine.Open(dsn)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db, owns: true}, nil
}

func tableName(namespace string) string { return `"meta_` + namespace + `"` }

// EnsureNamespace creates the table for namespace if it does not exist.
func (s *SQLite) EnsureNamespace(ctx context.Context, namespace string) error {
	if err := validateNamespace(namespace); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+tableName(namespace)+` (
    id       TEXT PRIMARY KEY,
    class    TEXT NOT NULL,
    sequence TEXT NOT NULL
);`)
	return err
}

// Put inserts or replaces records.
func (s *SQLite) Put(ctx context.Context, namespace string, records []Record) error {
	if err := validateRecords(records); err != nil {
		return err
	}
	if err := s.EnsureNamespace(ctx, namespace); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO `+tableName(namespace)+`(id, class, sequence) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Class, r.Sequence); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Lookup fetches records by id.
func (s *SQLite) Lookup(ctx context.Context, namespace string, ids []string) ([]Record, error) {
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}
	ok, err := s.hasNamespace(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNamespaceNotFound, namespace)
	}

	ids = unique(ids)
	out := make([]Record, 0, len(ids))
	for start := 0; start < len(ids); start += lookupChunk {
		end := min(start+lookupChunk, len(ids))
		chunk, err := s.lookup(ctx, namespace, ids[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (s *SQLite) lookup(ctx context.Context, namespace string, ids []string) ([]Record, error) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := s.db.QueryContext(ctx, `SELECT id, class, sequence FROM `+tableName(namespace)+` WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Class, &r.Sequence); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) hasNamespace(ctx context.Context, namespace string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, "meta_"+namespace).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close closes the database when the store opened it.
func (s *SQLite) Close() error {
	if !s.owns {
		return nil
	}
	return s.db.Close()
}
