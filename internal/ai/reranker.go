package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// RerankerConfig holds API settings for the rerank service.
type RerankerConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// RerankerClient is an optional post-filter over retrieved chunks. It
// is not part of the default query path.
type RerankerClient struct {
	cfg        RerankerConfig
	httpClient *http.Client
}

func NewRerankerClient(cfg RerankerConfig) *RerankerClient {
	return &RerankerClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Rerank returns the topN most relevant texts for the query, most
// relevant first.
func (c *RerankerClient) Rerank(ctx context.Context, query string, texts []string, topN int) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(texts) {
		topN = len(texts)
	}

	reqBody := map[string]any{
		"model":     c.cfg.Model,
		"query":     query,
		"documents": texts,
		"top_n":     topN,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build rerank request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rerank response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rerank response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Results []struct {
			Index          int     `json:"index"`
			RelevanceScore float64 `json:"relevance_score"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse rerank json failed: %w", err)
	}

	results := parsed.Results
	sort.Slice(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if topN > len(results) {
		topN = len(results)
	}

	reranked := make([]string, 0, topN)
	for _, r := range results[:topN] {
		if r.Index < 0 || r.Index >= len(texts) {
			continue
		}
		reranked = append(reranked, texts[r.Index])
	}
	return reranked, nil
}
