package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ragapi/internal/ai"
	"ragapi/internal/model"
)

const (
	defaultTopK = 5

	// historyWindow bounds the number of turns in the prompt's chat
	// history block. Fixed, not configurable: it caps prompt size and
	// history-fetch latency.
	historyWindow = 3
)

// Retriever turns a query into ranked chunk texts.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// Generator sends an assembled prompt to the language model.
type Generator interface {
	Complete(ctx context.Context, prompt string) (*ai.Generation, error)
}

// TurnStore persists and reads chat turns.
type TurnStore interface {
	Create(turn *model.ChatTurn) error
	ListRecentBySessionID(sessionID string, limit int) ([]model.ChatTurn, error)
}

// HistoryCache caches a session's recent turns between queries.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.ChatTurn, bool, error)
	SetHistory(ctx context.Context, sessionID string, turns []model.ChatTurn) error
	DeleteHistory(ctx context.Context, sessionID string) error
}

// QueryService runs the query-answering pipeline: retrieve, fetch
// history, assemble prompt, generate, persist the turn. Stages are
// strictly sequential; any failure aborts the rest and no partial
// answer is returned.
type QueryService struct {
	retriever    Retriever
	turns        TurnStore
	historyCache HistoryCache // optional; used only when caching is requested
	generator    Generator
	topK         int
}

func NewQueryService(
	retriever Retriever,
	turns TurnStore,
	historyCache HistoryCache,
	generator Generator,
	topK int,
) *QueryService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &QueryService{
		retriever:    retriever,
		turns:        turns,
		historyCache: historyCache,
		generator:    generator,
		topK:         topK,
	}
}

type PredictInput struct {
	Query     string
	SessionID string
	UserID    string
	Caching   bool
}

// TimingBreakdown reports per-stage wall time, each as a "<seconds>s"
// string. Part of the wire contract.
type TimingBreakdown struct {
	Retrieval string `json:"retrieval"`
	History   string `json:"history"`
	Prompt    string `json:"prompt"`
	LLM       string `json:"llm"`
	Save      string `json:"save"`
	Total     string `json:"total"`
}

// PredictResult is the query-pipeline response body. Field names and
// shape are fixed for client compatibility.
type PredictResult struct {
	Response          string          `json:"response"`
	Model             string          `json:"model"`
	InputTokens       int             `json:"input_tokens"`
	OutputTokens      int             `json:"output_tokens"`
	ChunksRetrieved   int             `json:"chunks_retrieved"`
	ChatHistoryLength int             `json:"chat_history_length"`
	TimingBreakdown   TimingBreakdown `json:"timing_breakdown"`
}

// Predict answers one user query. Concurrent queries on the same
// session may interleave history reads and turn writes; the store's
// own consistency is the only ordering guarantee (see DESIGN.md).
func (s *QueryService) Predict(ctx context.Context, input PredictInput) (*PredictResult, error) {
	if strings.TrimSpace(input.Query) == "" || input.SessionID == "" || input.UserID == "" {
		return nil, ErrInvalidInput
	}
	start := time.Now()

	retrievalStart := time.Now()
	contextChunks, err := s.retriever.Retrieve(ctx, input.Query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	retrievalTime := time.Since(retrievalStart)

	historyStart := time.Now()
	historyLines, err := s.fetchHistory(ctx, input.SessionID, input.Caching)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	historyTime := time.Since(historyStart)

	promptStart := time.Now()
	prompt := buildPrompt(historyLines, contextChunks, input.Query)
	promptTime := time.Since(promptStart)

	llmStart := time.Now()
	gen, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}
	llmTime := time.Since(llmStart)

	saveStart := time.Now()
	turn := &model.ChatTurn{
		UserID:    input.UserID,
		SessionID: input.SessionID,
		Query:     input.Query,
		Response:  gen.Content,
		CreatedAt: time.Now(),
	}
	if err := s.turns.Create(turn); err != nil {
		// Generation already succeeded, but the caller still gets an
		// error: a turn that was never persisted never happened.
		return nil, fmt.Errorf("%w: save chat turn: %v", ErrStorage, err)
	}
	if input.Caching && s.historyCache != nil {
		if err := s.historyCache.DeleteHistory(ctx, input.SessionID); err != nil {
			log.Printf("invalidate history cache failed: %v", err)
		}
	}
	saveTime := time.Since(saveStart)

	return &PredictResult{
		Response:          gen.Content,
		Model:             gen.Model,
		InputTokens:       gen.InputTokens,
		OutputTokens:      gen.OutputTokens,
		ChunksRetrieved:   len(contextChunks),
		ChatHistoryLength: len(historyLines),
		TimingBreakdown: TimingBreakdown{
			Retrieval: formatSeconds(retrievalTime),
			History:   formatSeconds(historyTime),
			Prompt:    formatSeconds(promptTime),
			LLM:       formatSeconds(llmTime),
			Save:      formatSeconds(saveTime),
			Total:     formatSeconds(time.Since(start)),
		},
	}, nil
}

// fetchHistory returns the window's turns expanded into alternating
// QUERY/RESPONSE lines, oldest turn first. Cache errors fall through
// to the store.
func (s *QueryService) fetchHistory(ctx context.Context, sessionID string, caching bool) ([]string, error) {
	if caching && s.historyCache != nil {
		if turns, hit, err := s.historyCache.GetHistory(ctx, sessionID); err == nil && hit {
			return formatHistory(turns), nil
		}
	}

	turns, err := s.turns.ListRecentBySessionID(sessionID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: list chat turns: %v", ErrStorage, err)
	}

	if caching && s.historyCache != nil {
		if err := s.historyCache.SetHistory(ctx, sessionID, turns); err != nil {
			log.Printf("set history cache failed: %v", err)
		}
	}
	return formatHistory(turns), nil
}

func formatHistory(turns []model.ChatTurn) []string {
	lines := make([]string, 0, 2*len(turns))
	for _, t := range turns {
		lines = append(lines, "QUERY: "+t.Query)
		lines = append(lines, "RESPONSE: "+t.Response)
	}
	return lines
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
