// Package pipeline answers similarity queries over biological sequences.
//
// A query runs four stages in order: tokenize the sequence into k-mers,
// encode the k-mer sentence into a vector, retrieve the nearest vectors from
// a namespace of the index service, and reconcile the returned identifiers
// with their metadata. The first failing stage aborts the query and is
// reported as an *Error; no partial result is returned.
package pipeline
