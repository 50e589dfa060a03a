package encoder

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/viant/seqvec/vector"
)

const (
	// DefaultDimension matches the vector dimension the sample collections
	// are created with.
	DefaultDimension = 768

	// DefaultAlphabet accepts nucleotides plus the ambiguous base N.
	DefaultAlphabet = "ACGTN"
)

// Hashing is a deterministic vectorizer: every word n-gram of the sentence is
// hashed into one of dim buckets, bucket counts are accumulated and the
// result is L2-normalized. The same sentence always yields the same vector.
type Hashing struct {
	dim      int
	ngramMin int
	ngramMax int
	alphabet *[256]bool
}

var _ Encoder = (*Hashing)(nil)

// HashingOption configures a Hashing encoder.
type HashingOption func(*Hashing)

// WithDimension sets the number of hash buckets.
func WithDimension(dim int) HashingOption {
	return func(h *Hashing) { h.dim = dim }
}

// WithNGramRange sets the inclusive range of word n-gram sizes. The default
// (1, 1) counts single k-mers.
func WithNGramRange(lo, hi int) HashingOption {
	return func(h *Hashing) { h.ngramMin, h.ngramMax = lo, hi }
}

// WithAlphabet restricts accepted symbols (case-insensitive). An empty
// alphabet disables validation.
func WithAlphabet(symbols string) HashingOption {
	return func(h *Hashing) {
		if symbols == "" {
			h.alphabet = nil
			return
		}
		var set [256]bool
		for i := 0; i < len(symbols); i++ {
			c := symbols[i]
			set[c] = true
			set[toLower(c)] = true
			set[toUpper(c)] = true
		}
		h.alphabet = &set
	}
}

// NewHashing creates a Hashing encoder.
func NewHashing(opts ...HashingOption) (*Hashing, error) {
	h := &Hashing{dim: DefaultDimension, ngramMin: 1, ngramMax: 1}
	WithAlphabet(DefaultAlphabet)(h)
	for _, o := range opts {
		o(h)
	}
	if h.dim < 1 {
		return nil, fmt.Errorf("encoder: invalid dimension %d", h.dim)
	}
	if h.ngramMin < 1 || h.ngramMax < h.ngramMin {
		return nil, fmt.Errorf("encoder: invalid n-gram range [%d, %d]", h.ngramMin, h.ngramMax)
	}
	return h, nil
}

// Dimension returns the number of hash buckets.
func (h *Hashing) Dimension() int { return h.dim }

// Encode vectorizes each sentence.
func (h *Hashing) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, batchError(ErrEmptyInput)
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, batchError(err)
		}
		vec, err := h.encode(text)
		if err != nil {
			return nil, &EncodingError{Index: i, Err: err}
		}
		out[i] = vec
	}
	return out, nil
}

func (h *Hashing) encode(text string) ([]float32, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, ErrEmptyInput
	}
	if h.alphabet != nil {
		for _, w := range words {
			for j := 0; j < len(w); j++ {
				if !h.alphabet[w[j]] {
					return nil, fmt.Errorf("%w %q in %q", ErrUnsupportedSymbol, w[j], w)
				}
			}
		}
	}
	vec := make([]float32, h.dim)
	dim := uint64(h.dim)
	for n := h.ngramMin; n <= h.ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			gram := words[i]
			if n > 1 {
				gram = strings.Join(words[i:i+n], " ")
			}
			vec[xxhash.Sum64String(strings.ToUpper(gram))%dim]++
		}
	}
	if vector.Normalize(vec) == 0 {
		return nil, fmt.Errorf("%w: no %d..%d-gram in %d words", ErrEmptyInput, h.ngramMin, h.ngramMax, len(words))
	}
	return vec, nil
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
