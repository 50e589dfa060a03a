// Package metadata stores the class label and original sequence of every
// indexed vector, keyed by the vector identifier in its decimal string form.
//
// Two backends are provided: SQLite (one table per namespace, sharing the
// database file with the vector index) and Badger (one key per record,
// msgpack-encoded).
package metadata
