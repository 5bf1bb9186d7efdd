package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

const (
	// embedBatchSize bounds how many texts go to the embedding model per call.
	embedBatchSize = 10
	// storeBatchSize bounds how many records go to the vector store per upsert.
	storeBatchSize = 100
)

// EmbeddingGenerator defines the interface for generating embeddings
type EmbeddingGenerator interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingStore defines the vector store interface used by the embedder
type EmbeddingStore interface {
	UpsertBatch(ctx context.Context, records []domain.EmbeddingRecord) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Embedder converts catalog items into embedding records and manages the
// vector store contents together with the display cache.
type Embedder struct {
	client EmbeddingGenerator
	store  EmbeddingStore
	cache  *ProductCache
}

func NewEmbedder(client EmbeddingGenerator, store EmbeddingStore, cache *ProductCache) *Embedder {
	return &Embedder{client: client, store: store, cache: cache}
}

// buildProductText renders the canonical text serialization of a catalog
// item for embedding. Catalog items with the same fields always produce the
// same text.
func buildProductText(item domain.CatalogItem) string {
	availability := "No"
	if item.AvailableForSale {
		availability = "Yes"
	}
	return strings.Join([]string{
		"Title: " + item.Title,
		"Description: " + item.Description,
		"Price: " + item.Price.Display(),
		"Tags: " + strings.Join(item.Tags, ", "),
		"Available: " + availability,
	}, "\n")
}

// EmbedAll generates one embedding record per catalog item, preserving
// input order. Items are processed in fixed-size batches; the first batch
// failure aborts the whole call. EmbedAll is a pure transform; persistence
// happens in StoreEmbeddings.
func (e *Embedder) EmbedAll(ctx context.Context, items []domain.CatalogItem) ([]domain.EmbeddingRecord, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	records := make([]domain.EmbeddingRecord, 0, len(items))
	for start := 0; start < len(items); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		texts := make([]string, len(batch))
		for i, item := range batch {
			texts[i] = buildProductText(item)
		}

		embeddings, err := e.client.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed catalog batch starting at %d: %w", start, err)
		}

		for i, item := range batch {
			records = append(records, domain.EmbeddingRecord{
				ProductID:     item.ID,
				ProductHandle: item.Handle,
				Embedding:     embeddings[i],
				Metadata: domain.ProductMetadata{
					Title:            item.Title,
					Description:      item.Description,
					Price:            item.Price.Display(),
					Tags:             item.Tags,
					AvailableForSale: item.AvailableForSale,
				},
			})
		}
	}

	return records, nil
}

// StoreEmbeddings upserts all records in batches and then refreshes the
// display cache. Re-running with the same records is a no-op for the store's
// item count.
func (e *Embedder) StoreEmbeddings(ctx context.Context, records []domain.EmbeddingRecord, items []domain.CatalogItem) error {
	for start := 0; start < len(records); start += storeBatchSize {
		end := start + storeBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := e.store.UpsertBatch(ctx, records[start:end]); err != nil {
			return fmt.Errorf("failed to store embeddings batch starting at %d: %w", start, err)
		}
	}

	e.cache.Replace(items)
	return nil
}

// ClearAll deletes every record and empties the display cache. It must
// complete before re-embedding begins.
func (e *Embedder) ClearAll(ctx context.Context) error {
	if err := e.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear embeddings: %w", err)
	}
	e.cache.Clear()
	return nil
}

// Initialize embeds and stores the full catalog.
func (e *Embedder) Initialize(ctx context.Context, items []domain.CatalogItem) (int, error) {
	records, err := e.EmbedAll(ctx, items)
	if err != nil {
		return 0, err
	}
	if err := e.StoreEmbeddings(ctx, records, items); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Reinitialize clears the store first, then embeds and stores the catalog.
// The clear is strictly sequential with the re-embed; this is a
// maintenance operation, not a steady-state concurrent path.
func (e *Embedder) Reinitialize(ctx context.Context, items []domain.CatalogItem) (int, error) {
	if err := e.ClearAll(ctx); err != nil {
		return 0, err
	}
	return e.Initialize(ctx, items)
}

// Status reports whether the store holds any records and how many.
func (e *Embedder) Status(ctx context.Context) (bool, int, error) {
	count, err := e.store.Count(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return count > 0, count, nil
}

// Initialized reports whether the embedding store holds any records.
func (e *Embedder) Initialized(ctx context.Context) (bool, error) {
	ready, _, err := e.Status(ctx)
	return ready, err
}
