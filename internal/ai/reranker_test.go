package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRerank_OrdersByScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 0, "relevance_score": 0.2},
				{"index": 1, "relevance_score": 0.9},
				{"index": 2, "relevance_score": 0.5},
			},
		})
	}))
	defer srv.Close()

	client := NewRerankerClient(RerankerConfig{BaseURL: srv.URL, Model: "rerank-test"})
	out, err := client.Rerank(context.Background(), "query", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, out)
}

func TestRerank_SkipsOutOfRangeIndices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 9, "relevance_score": 0.9},
				{"index": 0, "relevance_score": 0.1},
			},
		})
	}))
	defer srv.Close()

	client := NewRerankerClient(RerankerConfig{BaseURL: srv.URL})
	out, err := client.Rerank(context.Background(), "query", []string{"a"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out)
}

func TestRerank_EmptyTexts(t *testing.T) {
	client := NewRerankerClient(RerankerConfig{BaseURL: "http://127.0.0.1:0"})
	out, err := client.Rerank(context.Background(), "query", nil, 3)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestRerank_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewRerankerClient(RerankerConfig{BaseURL: srv.URL})
	_, err := client.Rerank(context.Background(), "query", []string{"a"}, 1)
	require.Error(t, err)
}
