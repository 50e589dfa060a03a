// Package index defines a minimal abstraction for in-process vector indexes
// that are built from (id, embedding) pairs and answer kNN queries by
// ascending Euclidean distance. Implementations: bruteforce (exact scan) and
// cover (cover tree).
package index
