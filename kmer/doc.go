// Package kmer splits biological sequences into overlapping fixed-length
// substrings (k-mers) and joins them into the space-delimited sentence form
// consumed by the encoders.
package kmer
