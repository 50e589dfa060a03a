package encoder

import (
	"context"
	"errors"
	"fmt"
)

// Encoder converts k-mer sentences into fixed-dimension float32 vectors.
type Encoder interface {
	// Encode returns one vector per input text, preserving input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

var (
	// ErrEmptyInput is returned when the batch or one of its texts is empty.
	ErrEmptyInput = errors.New("encoder: empty input")

	// ErrUnsupportedSymbol is returned when a text contains a symbol outside
	// the configured alphabet.
	ErrUnsupportedSymbol = errors.New("encoder: unsupported symbol")

	// ErrModelUnavailable is returned when the embedding model cannot be
	// reached or answers with an error.
	ErrModelUnavailable = errors.New("encoder: model unavailable")
)

// EncodingError reports a failure to embed a batch. Index is the position of
// the offending text, or -1 when the failure concerns the whole batch.
type EncodingError struct {
	Index int
	Err   error
}

// Error implements error.
func (e *EncodingError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("encoding failed: %v", e.Err)
	}
	return fmt.Sprintf("encoding failed at input %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying provider or validation error.
func (e *EncodingError) Unwrap() error { return e.Err }

func batchError(err error) error { return &EncodingError{Index: -1, Err: err} }
