package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/seqvec/encoder"
	"github.com/viant/seqvec/kmer"
	"github.com/viant/seqvec/reconciler"
	"github.com/viant/seqvec/vectordb"
	"golang.org/x/sync/errgroup"
)

// Config holds the query parameters fixed at construction.
type Config struct {
	// DefaultNamespace is used when Query is called with an empty namespace.
	DefaultNamespace string
	// TopK is the number of neighbours retrieved per query.
	TopK int
	// KmerSize is the k-mer length used for tokenization.
	KmerSize int
}

// Validate reports whether c can be used.
func (c Config) Validate() error {
	switch {
	case c.DefaultNamespace == "":
		return fmt.Errorf("%w: default namespace is empty", ErrInvalidConfig)
	case c.TopK < 1:
		return fmt.Errorf("%w: top_k must be >= 1, got %d", ErrInvalidConfig, c.TopK)
	case c.KmerSize < 1:
		return fmt.Errorf("%w: k-mer size must be >= 1, got %d", ErrInvalidConfig, c.KmerSize)
	}
	return nil
}

// Retriever returns the nearest hits per query vector.
type Retriever interface {
	Search(ctx context.Context, namespace string, vectors [][]float32, topK int) ([][]vectordb.Hit, error)
}

// Reconciler resolves identifiers to metadata.
type Reconciler interface {
	Resolve(ctx context.Context, ids []string, namespace string) (*reconciler.Resolution, error)
}

// Result is the answer to one query. All slices are positionally aligned
// and ordered by non-decreasing distance.
type Result struct {
	IDs       []string
	Classes   []string
	Sequences []string
	Distances []float32
}

// Len returns the number of matches.
func (r *Result) Len() int { return len(r.IDs) }

// Pipeline runs similarity queries. It holds no per-query state and is safe
// for concurrent use when its collaborators are.
type Pipeline struct {
	cfg         Config
	encoder     encoder.Encoder
	retriever   Retriever
	reconciler  Reconciler
	logger      *slog.Logger
	observer    Observer
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Nil keeps the default discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver registers a stage observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithConcurrency bounds the number of queries QueryAll runs at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New validates cfg and returns a Pipeline.
func New(cfg Config, enc encoder.Encoder, ret Retriever, rec Reconciler, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if enc == nil || ret == nil || rec == nil {
		return nil, fmt.Errorf("%w: encoder, retriever and reconciler are required", ErrInvalidConfig)
	}
	p := &Pipeline{
		cfg:         cfg,
		encoder:     enc,
		retriever:   ret,
		reconciler:  rec,
		logger:      slog.New(slog.DiscardHandler),
		observer:    NoopObserver{},
		concurrency: 4,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Query finds the TopK sequences most similar to seq in namespace. An empty
// namespace selects Config.DefaultNamespace.
func (p *Pipeline) Query(ctx context.Context, namespace, seq string) (*Result, error) {
	if namespace == "" {
		namespace = p.cfg.DefaultNamespace
	}
	q := query{p: p, ctx: ctx, namespace: namespace,
		log: p.logger.With("namespace", namespace, "top_k", p.cfg.TopK)}

	var sentence string
	if err := q.stage(StageTokenize, func() error {
		s, n, err := kmer.Build(seq, p.cfg.KmerSize)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: length %d, k %d", ErrEmptyTokens, len(seq), p.cfg.KmerSize)
		}
		sentence = s
		return nil
	}); err != nil {
		return nil, err
	}

	var vec []float32
	if err := q.stage(StageEncode, func() error {
		vectors, err := p.encoder.Encode(ctx, []string{sentence})
		if err != nil {
			return err
		}
		if len(vectors) != 1 {
			return &encoder.EncodingError{Index: -1, Err: fmt.Errorf("encoder returned %d vectors for 1 input", len(vectors))}
		}
		vec = vectors[0]
		return nil
	}); err != nil {
		return nil, err
	}

	var hits []vectordb.Hit
	if err := q.stage(StageRetrieve, func() error {
		results, err := p.retriever.Search(ctx, namespace, [][]float32{vec}, p.cfg.TopK)
		if err != nil {
			return err
		}
		if len(results) != 1 {
			return fmt.Errorf("%w: %d result lists for 1 query", vectordb.ErrIndexUnavailable, len(results))
		}
		hits = results[0]
		return nil
	}); err != nil {
		return nil, err
	}

	var result *Result
	if err := q.stage(StageReconcile, func() error {
		ids := make([]string, len(hits))
		for i, h := range hits {
			ids[i] = h.ID
		}
		res, err := p.reconciler.Resolve(ctx, ids, namespace)
		if err != nil {
			return err
		}
		result = assemble(hits, res)
		if len(res.Missing) > 0 {
			q.log.Warn("dropped hits without metadata", "missing", res.Missing)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// assemble filters hits down to the resolved positions so every output
// slice stays aligned.
func assemble(hits []vectordb.Hit, res *reconciler.Resolution) *Result {
	out := &Result{
		IDs:       make([]string, len(res.Positions)),
		Classes:   res.Classes,
		Sequences: res.Sequences,
		Distances: make([]float32, len(res.Positions)),
	}
	for i, pos := range res.Positions {
		out.IDs[i] = hits[pos].ID
		out.Distances[i] = hits[pos].Distance
	}
	return out
}

// QueryAll runs independent queries concurrently and returns results in the
// order of seqs. The first failure cancels the remaining queries.
func (p *Pipeline) QueryAll(ctx context.Context, namespace string, seqs []string) ([]*Result, error) {
	results := make([]*Result, len(seqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, seq := range seqs {
		g.Go(func() error {
			r, err := p.Query(gctx, namespace, seq)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type query struct {
	p         *Pipeline
	ctx       context.Context
	namespace string
	log       *slog.Logger
}

func (q query) stage(stage Stage, fn func() error) error {
	start := time.Now()
	err := q.ctx.Err()
	if err == nil {
		err = fn()
	}
	elapsed := time.Since(start)
	q.p.observer.ObserveStage(stage, elapsed, err)
	if err != nil {
		q.log.Error("query failed", "stage", stage, "error", err)
		return &Error{Stage: stage, Namespace: q.namespace, Err: err}
	}
	q.log.Debug("stage done", "stage", stage, "elapsed", elapsed)
	return nil
}
