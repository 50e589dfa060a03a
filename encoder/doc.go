// Package encoder maps k-mer sentences to dense embedding vectors.
//
// Two implementations are provided:
//
//   - [Hashing]: a deterministic bag-of-k-mers feature-hashing vectorizer that
//     runs in process and needs no model files.
//   - [OpenAI]: any OpenAI-compatible embeddings endpoint.
//
// Both return one vector per input sentence, in input order, and report
// failures as [*EncodingError]. Neither substitutes zero vectors on failure.
package encoder
