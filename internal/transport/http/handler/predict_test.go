package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragapi/internal/ai"
	appsvc "ragapi/internal/app"
	"ragapi/internal/model"
)

type stubRetriever struct {
	chunks []string
	err    error
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	return s.chunks, s.err
}

type stubGenerator struct {
	gen *ai.Generation
	err error
}

func (s *stubGenerator) Complete(ctx context.Context, prompt string) (*ai.Generation, error) {
	return s.gen, s.err
}

type stubTurnStore struct {
	turns   []model.ChatTurn
	created int
}

func (s *stubTurnStore) Create(turn *model.ChatTurn) error {
	s.created++
	return nil
}

func (s *stubTurnStore) ListRecentBySessionID(sessionID string, limit int) ([]model.ChatTurn, error) {
	return s.turns, nil
}

func newPredictRouter(queryService *appsvc.QueryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/predict", NewPredictHandler(queryService).Predict)
	return router
}

func jsonKeys(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestPredictHandler_ResponseShape(t *testing.T) {
	queryService := appsvc.NewQueryService(
		&stubRetriever{chunks: []string{"support is available 24/7"}},
		&stubTurnStore{turns: []model.ChatTurn{{Query: "hi", Response: "hello"}}},
		nil,
		&stubGenerator{gen: &ai.Generation{
			Model:        "gpt-test",
			Content:      "Support is available **24/7**.",
			InputTokens:  100,
			OutputTokens: 12,
		}},
		5,
	)
	router := newPredictRouter(queryService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict",
		strings.NewReader(`{"query":"when is support available?","session_id":"s1","user_id":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// Field names are a fixed client contract; a renamed tag is a break.
	assert.ElementsMatch(t, []string{
		"response", "model", "input_tokens", "output_tokens",
		"chunks_retrieved", "chat_history_length", "timing_breakdown",
	}, jsonKeys(t, w.Body.Bytes()))

	var body struct {
		Response          string                     `json:"response"`
		Model             string                     `json:"model"`
		InputTokens       int                        `json:"input_tokens"`
		OutputTokens      int                        `json:"output_tokens"`
		ChunksRetrieved   int                        `json:"chunks_retrieved"`
		ChatHistoryLength int                        `json:"chat_history_length"`
		TimingBreakdown   map[string]json.RawMessage `json:"timing_breakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Support is available **24/7**.", body.Response)
	assert.Equal(t, "gpt-test", body.Model)
	assert.Equal(t, 100, body.InputTokens)
	assert.Equal(t, 12, body.OutputTokens)
	assert.Equal(t, 1, body.ChunksRetrieved)
	assert.Equal(t, 2, body.ChatHistoryLength)

	timingKeys := make([]string, 0, len(body.TimingBreakdown))
	for k := range body.TimingBreakdown {
		timingKeys = append(timingKeys, k)
	}
	assert.ElementsMatch(t,
		[]string{"retrieval", "history", "prompt", "llm", "save", "total"},
		timingKeys)
	for k, v := range body.TimingBreakdown {
		var s string
		require.NoError(t, json.Unmarshal(v, &s))
		assert.Regexp(t, `^\d+\.\d{3}s$`, s, "timing %q", k)
	}
}

func TestPredictHandler_InvalidPayload(t *testing.T) {
	queryService := appsvc.NewQueryService(&stubRetriever{}, &stubTurnStore{}, nil, &stubGenerator{}, 5)
	router := newPredictRouter(queryService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict",
		strings.NewReader(`{"query":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictHandler_PipelineFailureIsGeneric(t *testing.T) {
	queryService := appsvc.NewQueryService(
		&stubRetriever{err: errors.New("qdrant connection refused")},
		&stubTurnStore{},
		nil,
		&stubGenerator{},
		5,
	)
	router := newPredictRouter(queryService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict",
		strings.NewReader(`{"query":"hi","session_id":"s1","user_id":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "prediction failed", body.Message)
	assert.NotContains(t, body.Message, "qdrant", "stage detail must not leak to the client")
}
