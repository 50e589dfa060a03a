// Package engine provides helpers for working with the modernc.org/sqlite
// driver: opening connections and registering the vec_l2 and vec_cosine SQL
// scalar functions used by the SQLite vector index backend. Both SQLite
// backends open their databases through this package so they share the same
// driver instance and function registry.
package engine
