package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ragapi/internal/model"
	"ragapi/internal/platform/qdrant"
)

// Embedder converts text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex stores vector points and answers nearest-neighbor queries.
type VectorIndex interface {
	Upsert(ctx context.Context, points []qdrant.Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]qdrant.Payload, error)
}

// Reranker reorders retrieved texts by relevance to the query.
type Reranker interface {
	Rerank(ctx context.Context, query string, texts []string, topN int) ([]string, error)
}

// RetrievalService turns a query into ranked chunk texts and stores
// embedded chunks on the ingestion side.
type RetrievalService struct {
	embedder Embedder
	index    VectorIndex
	reranker Reranker // nil disables the post-filter
}

func NewRetrievalService(embedder Embedder, index VectorIndex, reranker Reranker) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		index:    index,
		reranker: reranker,
	}
}

// Retrieve embeds the query and returns up to k chunk texts ranked
// most-relevant-first. An empty index yields an empty slice. A point
// with no text payload contributes an empty string at its rank.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrEmbedding, err)
	}

	payloads, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrVectorStore, err)
	}

	texts := make([]string, len(payloads))
	for i, p := range payloads {
		texts[i] = p.Text
	}

	if s.reranker != nil && len(texts) > 0 {
		texts, err = s.reranker.Rerank(ctx, query, texts, k)
		if err != nil {
			return nil, fmt.Errorf("rerank failed: %w", err)
		}
	}
	return texts, nil
}

// Store embeds all texts in one batched call, assigns a fresh point ID
// per chunk, and writes all points in one batch upsert. A metadata
// slice shorter than texts is padded with empty metadata.
func (s *RetrievalService) Store(ctx context.Context, texts []string, metadatas []model.ChunkMetadata) error {
	if len(texts) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed chunks: %v", ErrVectorStore, err)
	}

	points := make([]qdrant.Point, len(texts))
	for i := range texts {
		var meta model.ChunkMetadata
		if i < len(metadatas) {
			meta = metadatas[i]
		}
		points[i] = qdrant.Point{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Payload: qdrant.Payload{
				Text:   texts[i],
				Source: meta.Source,
				UserID: meta.UserID,
			},
		}
	}

	if err := s.index.Upsert(ctx, points); err != nil {
		return fmt.Errorf("%w: upsert points: %v", ErrVectorStore, err)
	}
	return nil
}
