package pipeline

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step.
type Stage string

const (
	// StageTokenize splits a sequence into overlapping k-mers.
	StageTokenize Stage = "tokenize"
	// StageEncode embeds the k-mer sentence.
	StageEncode Stage = "encode"
	// StageRetrieve runs the nearest-neighbor search.
	StageRetrieve Stage = "retrieve"
	// StageReconcile joins neighbor ids with stored records.
	StageReconcile Stage = "reconcile"
)

var (
	// ErrEmptyTokens is returned when a sequence is shorter than the k-mer
	// size and therefore yields no tokens.
	ErrEmptyTokens = errors.New("pipeline: sequence shorter than k-mer size")

	// ErrInvalidConfig is returned by New for an unusable Config.
	ErrInvalidConfig = errors.New("pipeline: invalid config")
)

// Error is the single error type returned by Query. Err carries the cause
// from the failing stage and is reachable through errors.Is and errors.As.
type Error struct {
	Stage     Stage
	Namespace string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline: %s stage failed for namespace %q: %v", e.Stage, e.Namespace, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
