//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/testutil"
)

// unitVector builds a 1536-dim vector with weight 1 at the given slot.
func unitVector(slot int) []float32 {
	vec := make([]float32, 1536)
	vec[slot] = 1
	return vec
}

func embeddingRecord(id, handle, title string, slot int) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		ProductID:     id,
		ProductHandle: handle,
		Embedding:     unitVector(slot),
		Metadata: domain.ProductMetadata{
			Title:            title,
			Description:      "test product",
			Price:            "10.00 USD",
			Tags:             []string{"test", handle},
			AvailableForSale: true,
		},
	}
}

func TestEmbeddingRepository_UpsertAndCount(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmbeddingRepository(pool)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	records := []domain.EmbeddingRecord{
		embeddingRecord("p-1", "hoodie", "Hoodie", 0),
		embeddingRecord("p-2", "cap", "Cap", 1),
	}
	require.NoError(t, repo.UpsertBatch(ctx, records))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Re-upserting the same product ids must not grow the store.
	records[0].Metadata.Title = "Hoodie v2"
	require.NoError(t, repo.UpsertBatch(ctx, records))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := repo.SearchNearest(ctx, unitVector(0), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Hoodie v2", results[0].Metadata.Title)
}

func TestEmbeddingRepository_UpsertBatch_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmbeddingRepository(pool)
	require.NoError(t, repo.UpsertBatch(ctx, nil))
}

func TestEmbeddingRepository_SearchNearest(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmbeddingRepository(pool)

	require.NoError(t, repo.UpsertBatch(ctx, []domain.EmbeddingRecord{
		embeddingRecord("p-1", "hoodie", "Hoodie", 0),
		embeddingRecord("p-2", "cap", "Cap", 1),
		embeddingRecord("p-3", "mug", "Mug", 2),
	}))

	// A query along slot 0 with a small slot-1 component ranks p-1 first,
	// p-2 second.
	query := make([]float32, 1536)
	query[0] = 1
	query[1] = 0.2

	results, err := repo.SearchNearest(ctx, query, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "p-1", results[0].ProductID)
	assert.Equal(t, "hoodie", results[0].ProductHandle)
	assert.Equal(t, "p-2", results[1].ProductID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
	assert.InDelta(t, 0.98, float64(results[0].Similarity), 0.02)

	assert.Equal(t, []string{"test", "hoodie"}, results[0].Metadata.Tags)
	assert.True(t, results[0].Metadata.AvailableForSale)
}

func TestEmbeddingRepository_SearchNearest_TopKZero(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmbeddingRepository(pool)
	results, err := repo.SearchNearest(ctx, unitVector(0), 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEmbeddingRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewEmbeddingRepository(pool)

	require.NoError(t, repo.UpsertBatch(ctx, []domain.EmbeddingRecord{
		embeddingRecord("p-1", "hoodie", "Hoodie", 0),
	}))
	require.NoError(t, repo.DeleteAll(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
