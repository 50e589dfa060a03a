// Package vectordb defines the vector index service consumed by the
// retriever and ships two backends:
//   - Memory: per-namespace in-process indexes (brute force or cover tree)
//   - SQLite: per-namespace tables scored with the vec_l2 SQL function
//
// Vector identifiers are int64 inside a backend and leave it as decimal
// strings, so large identifiers never pass through a float.
package vectordb
