package service

import (
	"context"
	"fmt"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/telemetry"
)

// QueryEmbedder embeds a single query text with the same model used for
// the catalog. Using a different model or dimensionality than the stored
// vectors is a correctness bug.
type QueryEmbedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NearestSearcher answers top-K cosine similarity queries.
type NearestSearcher interface {
	SearchNearest(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error)
}

// Retriever turns a query string into a ranked, thresholded result set.
type Retriever struct {
	embedder QueryEmbedder
	store    NearestSearcher
}

func NewRetriever(embedder QueryEmbedder, store NearestSearcher) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Search embeds the query, asks the store for the topK nearest records, and
// drops candidates strictly below minSimilarity. The returned slice stays
// in descending-similarity order and may be shorter than topK, including
// empty. Ties keep the store-returned order.
func (r *Retriever) Search(ctx context.Context, query string, topK int, minSimilarity float32) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return []domain.SearchResult{}, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "Retriever.Search", telemetry.SpanAttributes{
		Query:     query,
		Operation: "search",
	})
	defer span.End()

	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed search query: %w", err)
	}

	candidates, err := r.store.SearchNearest(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Similarity < minSimilarity {
			continue
		}
		results = append(results, c)
	}

	return results, nil
}
