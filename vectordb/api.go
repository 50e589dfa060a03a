package vectordb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrIndexNotFound is returned when a namespace does not exist.
	ErrIndexNotFound = errors.New("vectordb: index not found")

	// ErrIndexUnavailable is returned when the service cannot be reached or
	// has been closed.
	ErrIndexUnavailable = errors.New("vectordb: index unavailable")

	// ErrDimensionMismatch is returned when a vector does not match the
	// namespace dimension.
	ErrDimensionMismatch = errors.New("vectordb: dimension mismatch")
)

// Hit is a single search result: a vector identifier and its distance to the
// query. Lower distance means more similar.
type Hit struct {
	ID       string
	Distance float32
}

// Service is a vector index service holding named collections (namespaces)
// of fixed-dimension vectors.
type Service interface {
	// Create creates a namespace for vectors of the given dimension. It is a
	// no-op when the namespace already exists with the same dimension.
	Create(ctx context.Context, namespace string, dim int) error

	// Insert adds or replaces vectors in a namespace.
	Insert(ctx context.Context, namespace string, ids []int64, vectors [][]float32) error

	// Search returns, for each query vector, up to topK hits ordered by
	// ascending distance.
	Search(ctx context.Context, namespace string, vectors [][]float32, topK int) ([][]Hit, error)

	// Close releases resources; later calls fail with ErrIndexUnavailable.
	Close() error
}

var namespacePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateNamespace rejects names that cannot be used as a table suffix.
func ValidateNamespace(namespace string) error {
	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("%w: invalid namespace %q", ErrIndexNotFound, namespace)
	}
	return nil
}

// FormatID renders a vector identifier in its precision-safe string form.
func FormatID(id int64) string { return strconv.FormatInt(id, 10) }

// ParseID parses an identifier produced by FormatID.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("vectordb: invalid id %q: %w", s, err)
	}
	return id, nil
}

func checkInsert(ids []int64, vectors [][]float32, dim int) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("vectordb: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dims, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return nil
}
