package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "What is Go?", body.Messages[0].Content)
		assert.False(t, body.Stream)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-test",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Go is a programming language."}},
			},
			"usage": map[string]any{
				"prompt_tokens":     42,
				"completion_tokens": 7,
			},
		})
	}))
	defer srv.Close()

	client := NewGenerationClient(GenerationConfig{BaseURL: srv.URL, Model: "gpt-test"})
	gen, err := client.Complete(context.Background(), "What is Go?")
	require.NoError(t, err)
	assert.Equal(t, "gpt-test", gen.Model)
	assert.Equal(t, "Go is a programming language.", gen.Content)
	assert.Equal(t, 42, gen.InputTokens)
	assert.Equal(t, 7, gen.OutputTokens)
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewGenerationClient(GenerationConfig{BaseURL: srv.URL})
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "model overloaded")
	assert.False(t, errors.Is(err, ErrNetwork))
}

func TestComplete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewGenerationClient(GenerationConfig{BaseURL: srv.URL})
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "gpt-test", "choices": []any{}})
	}))
	defer srv.Close()

	client := NewGenerationClient(GenerationConfig{BaseURL: srv.URL})
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty llm choices")
}
