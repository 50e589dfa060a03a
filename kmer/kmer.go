package kmer

import (
	"errors"
	"strings"
)

// ErrInvalidK is returned when the requested k-mer length is below 1.
var ErrInvalidK = errors.New("kmer: k must be >= 1")

// Tokenize returns the overlapping substrings of length k of seq, sliding by
// one symbol from left to right. A sequence of length n yields n-k+1 tokens;
// a sequence shorter than k yields an empty slice and no error.
func Tokenize(seq string, k int) ([]string, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	n := len(seq) - k + 1
	if n <= 0 {
		return []string{}, nil
	}
	tokens := make([]string, n)
	for i := 0; i < n; i++ {
		tokens[i] = seq[i : i+k]
	}
	return tokens, nil
}

// Sentence joins tokens with a single space.
func Sentence(tokens []string) string {
	return strings.Join(tokens, " ")
}

// Build tokenizes seq and returns the sentence form together with the token
// count.
func Build(seq string, k int) (string, int, error) {
	tokens, err := Tokenize(seq, k)
	if err != nil {
		return "", 0, err
	}
	return Sentence(tokens), len(tokens), nil
}
