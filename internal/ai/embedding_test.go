package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddingServer(t *testing.T, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model string `json:"model"`
			Input any    `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		count := 1
		if inputs, ok := body.Input.([]any); ok {
			count = len(inputs)
		}
		var data []map[string]any
		for i := 0; i < count; i++ {
			data = append(data, map[string]any{
				"embedding": []float32{float32(i), 0.5, 0.25},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func TestEmbed_SingleText(t *testing.T) {
	requests := 0
	srv := newEmbeddingServer(t, &requests)
	defer srv.Close()

	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "embed-test"})
	vector, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5, 0.25}, vector)
	assert.Equal(t, 1, requests)
}

func TestEmbed_EmptyInput(t *testing.T) {
	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: "http://127.0.0.1:0"})
	_, err := client.Embed(context.Background(), "   ")
	require.Error(t, err)
}

func TestEmbedBatch_SingleRoundTrip(t *testing.T) {
	requests := 0
	srv := newEmbeddingServer(t, &requests)
	defer srv.Close()

	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "embed-test"})
	texts := []string{"one", "two", "three", "four", "five"}
	vectors, err := client.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	assert.Equal(t, 1, requests, "batch embedding must use one request")
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: "http://127.0.0.1:0"})
	vectors, err := client.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedBatch_OutOfOrderResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 2, "embedding": []float32{2}},
				{"index": 0, "embedding": []float32{0}},
				{"index": 1, "embedding": []float32{1}},
			},
		})
	}))
	defer srv.Close()

	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: srv.URL})
	vectors, err := client.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0}, {1}, {2}}, vectors)
}

func TestEmbedBatch_IndexOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 5, "embedding": []float32{1}}},
		})
	}))
	defer srv.Close()

	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: srv.URL})
	_, err := client.EmbedBatch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{1}}},
		})
	}))
	defer srv.Close()

	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: srv.URL})
	_, err := client.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewEmbeddingClient(EmbeddingConfig{BaseURL: srv.URL})
	_, err := client.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("status %d", http.StatusTooManyRequests))
}
