package encoder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

const (
	openAIMaxBatch     = 2048
	openAIDefaultModel = "text-embedding-3-small"
)

// OpenAI implements [Encoder] using an OpenAI-compatible embeddings API.
// Requests are not retried; a failed call surfaces as an [*EncodingError]
// wrapping [ErrModelUnavailable].
type OpenAI struct {
	client  *openai.Client
	model   string
	dim     int
	limiter *rate.Limiter
}

var _ Encoder = (*OpenAI)(nil)

type openAIConfig struct {
	model      string
	dim        int
	baseURL    string
	httpClient *http.Client
	rps        float64
	burst      int
}

// OpenAIOption configures an OpenAI encoder.
type OpenAIOption func(*openAIConfig)

// WithModel sets the embedding model name.
func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) { c.model = model }
}

// WithOutputDimension sets the requested output dimensionality.
func WithOutputDimension(dim int) OpenAIOption {
	return func(c *openAIConfig) { c.dim = dim }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(c *openAIConfig) { c.httpClient = client }
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(rps float64, burst int) OpenAIOption {
	return func(c *openAIConfig) { c.rps, c.burst = rps, burst }
}

// NewOpenAI creates an OpenAI encoder.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	cfg := openAIConfig{
		model:      openAIDefaultModel,
		dim:        DefaultDimension,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(clientOpts...)

	e := &OpenAI{client: &client, model: cfg.model, dim: cfg.dim}
	if cfg.rps > 0 {
		burst := cfg.burst
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(cfg.rps), burst)
	}
	return e
}

// Dimension returns the configured vector dimensionality.
func (o *OpenAI) Dimension() int { return o.dim }

// Model returns the model identifier.
func (o *OpenAI) Model() string { return o.model }

// Encode returns embeddings for texts. Batches larger than the API limit are
// split into multiple calls.
func (o *OpenAI) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, batchError(ErrEmptyInput)
	}
	for i, text := range texts {
		if text == "" {
			return nil, &EncodingError{Index: i, Err: ErrEmptyInput}
		}
	}
	result := make([][]float32, len(texts))
	for i := 0; i < len(texts); i += openAIMaxBatch {
		end := min(i+openAIMaxBatch, len(texts))
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return nil, batchError(err)
			}
		}
		vecs, err := o.callAPI(ctx, texts[i:end], i)
		if err != nil {
			return nil, err
		}
		for j, v := range vecs {
			if len(v) != o.dim {
				return nil, &EncodingError{Index: i + j, Err: fmt.Errorf("encoder: model returned %d dims, want %d", len(v), o.dim)}
			}
		}
		copy(result[i:], vecs)
	}
	return result, nil
}

func (o *OpenAI) callAPI(ctx context.Context, texts []string, offset int) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model:          o.model,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Dimensions:     openai.Int(int64(o.dim)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, batchError(fmt.Errorf("%w: %w", ErrModelUnavailable, err))
	}
	vecs := make([][]float32, len(texts))
	for _, item := range resp.Data {
		idx := item.Index
		if idx < 0 || idx >= int64(len(texts)) {
			return nil, batchError(fmt.Errorf("encoder: unexpected embedding index %d for batch size %d", idx, len(texts)))
		}
		vecs[idx] = toFloat32s(item.Embedding)
	}
	for i, v := range vecs {
		if v == nil {
			return nil, &EncodingError{Index: offset + i, Err: fmt.Errorf("encoder: missing embedding")}
		}
	}
	return vecs, nil
}

func toFloat32s(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
