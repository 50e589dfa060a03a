package vectordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/viant/seqvec/engine"
	"github.com/viant/seqvec/vector"
)

// SQLite is a Service backed by a SQLite database. Each namespace is a table
// of (id, embedding) rows registered in vec_collections; searches are scored
// in SQL with vec_l2.
type SQLite struct {
	db     *sql.DB
	owns   bool
	closed atomic.Bool
}

var _ Service = (*SQLite)(nil)

// NewSQLite wraps an existing database. The caller keeps ownership of db.
// The database must have been opened with engine.Open so that vec_l2 is
// available.
func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, fmt.Errorf("vectordb: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return &SQLite{db: db}, nil
}

// OpenSQLite opens dsn with engine.Open and returns a service that closes the
// database on Close.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := engine.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	s, err := NewSQLite(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owns = true
	return s, nil
}

// Create registers a namespace and creates its table.
func (s *SQLite) Create(ctx context.Context, namespace string, dim int) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	if dim < 1 {
		return fmt.Errorf("vectordb: invalid dimension %d", dim)
	}
	existing, err := s.dimension(ctx, namespace)
	switch {
	case err == nil:
		if existing != dim {
			return fmt.Errorf("%w: namespace %q exists with dim %d", ErrDimensionMismatch, namespace, existing)
		}
		return nil
	case !errors.Is(err, ErrIndexNotFound):
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, collectionDDL(namespace)); err != nil {
		return unavailable(err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO vec_collections(name, dim) VALUES(?, ?)`, namespace, dim); err != nil {
		return unavailable(err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Insert adds or replaces vectors in a namespace.
func (s *SQLite) Insert(ctx context.Context, namespace string, ids []int64, vectors [][]float32) error {
	dim, err := s.dimension(ctx, namespace)
	if err != nil {
		return err
	}
	if err := checkInsert(ids, vectors, dim); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO `+tableName(namespace)+`(id, embedding) VALUES(?, ?)`)
	if err != nil {
		return unavailable(err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, vector.EncodeEmbedding(vectors[i])); err != nil {
			return unavailable(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Search returns up to topK nearest rows per query vector.
func (s *SQLite) Search(ctx context.Context, namespace string, vectors [][]float32, topK int) ([][]Hit, error) {
	dim, err := s.dimension(ctx, namespace)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, vec_l2(embedding, ?) AS d FROM ` + tableName(namespace) + ` ORDER BY d, id LIMIT ?`
	out := make([][]Hit, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: query has %d dims, namespace %q has %d", ErrDimensionMismatch, len(v), namespace, dim)
		}
		hits, err := s.search(ctx, query, v, topK)
		if err != nil {
			return nil, err
		}
		out[i] = hits
	}
	return out, nil
}

func (s *SQLite) search(ctx context.Context, query string, v []float32, topK int) ([]Hit, error) {
	if topK <= 0 {
		return []Hit{}, nil
	}
	rows, err := s.db.QueryContext(ctx, query, vector.EncodeEmbedding(v), topK)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, topK)
	for rows.Next() {
		var (
			id   int64
			dist float64
		)
		if err := rows.Scan(&id, &dist); err != nil {
			return nil, unavailable(err)
		}
		hits = append(hits, Hit{ID: FormatID(id), Distance: float32(dist)})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return hits, nil
}

func (s *SQLite) dimension(ctx context.Context, namespace string) (int, error) {
	if s.closed.Load() {
		return 0, ErrIndexUnavailable
	}
	if err := ValidateNamespace(namespace); err != nil {
		return 0, err
	}
	var dim int
	err := s.db.QueryRowContext(ctx, `SELECT dim FROM vec_collections WHERE name = ?`, namespace).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrIndexNotFound, namespace)
	}
	if err != nil {
		return 0, unavailable(err)
	}
	return dim, nil
}

// Close marks the service closed and closes the database when the service
// opened it.
func (s *SQLite) Close() error {
	if s.closed.Swap(true) || !s.owns {
		return nil
	}
	return s.db.Close()
}

func unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
}
