// Package vector holds the numeric helpers shared by the encoders, the
// in-process indexes and the SQLite backends:
//   - embedding encoding to and from the little-endian float32 BLOB layout
//   - L2 and cosine distance
//   - L2 normalization
package vector
