package encoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbeddingResponse builds a minimal OpenAI-compatible embedding response.
func fakeEmbeddingResponse(dim int, texts []string) []byte {
	type embItem struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	}
	type usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	}
	type resp struct {
		Object string    `json:"object"`
		Model  string    `json:"model"`
		Data   []embItem `json:"data"`
		Usage  usage     `json:"usage"`
	}
	data := make([]embItem, len(texts))
	for i := range texts {
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = float64(len(texts[i])) * 0.01 * float64(j+1)
		}
		// Reverse order in the payload to exercise index-based placement.
		data[len(texts)-1-i] = embItem{Object: "embedding", Index: i, Embedding: vec}
	}
	b, _ := json.Marshal(resp{Object: "list", Model: "test-model", Data: data, Usage: usage{PromptTokens: 1, TotalTokens: 1}})
	return b
}

func newFakeServer(t *testing.T, dim int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fakeEmbeddingResponse(dim, req.Input))
	}))
}

func TestOpenAI_Encode(t *testing.T) {
	const dim = 8
	srv := newFakeServer(t, dim, nil)
	defer srv.Close()

	e := NewOpenAI("test-key", WithBaseURL(srv.URL), WithOutputDimension(dim), WithRateLimit(100, 1))
	assert.Equal(t, dim, e.Dimension())
	assert.Equal(t, openAIDefaultModel, e.Model())

	texts := []string{"ACG", "ACG CGT", "ACG CGT GTT"}
	vecs, err := e.Encode(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	for i, v := range vecs {
		require.Len(t, v, dim)
		assert.InDelta(t, float64(len(texts[i]))*0.01, v[0], 1e-6, "vector %d out of order", i)
	}
}

func TestOpenAI_DimensionMismatch(t *testing.T) {
	srv := newFakeServer(t, 4, nil)
	defer srv.Close()

	e := NewOpenAI("test-key", WithBaseURL(srv.URL), WithOutputDimension(8))
	_, err := e.Encode(context.Background(), []string{"ACG"})
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 0, encErr.Index)
}

func TestOpenAI_Unavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprint(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	e := NewOpenAI("test-key", WithBaseURL(srv.URL), WithOutputDimension(4))
	vecs, err := e.Encode(context.Background(), []string{"ACG"})
	assert.Nil(t, vecs)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "requests must not be retried")
}

func TestOpenAI_EmptyInput(t *testing.T) {
	e := NewOpenAI("test-key", WithBaseURL("http://127.0.0.1:1"))
	_, err := e.Encode(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = e.Encode(context.Background(), []string{"ACG", ""})
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 1, encErr.Index)
}
