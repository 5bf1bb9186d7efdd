package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// EmbeddingRepository persists product vectors and answers nearest-neighbor
// queries by cosine similarity.
type EmbeddingRepository struct {
	pool *pgxpool.Pool
}

func NewEmbeddingRepository(pool *pgxpool.Pool) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

// UpsertBatch replaces the full record for each product id. Safe to re-run
// with the same records.
func (r *EmbeddingRepository) UpsertBatch(ctx context.Context, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO product_embeddings
				(product_id, product_handle, title, description, price, tags, available_for_sale, embedding, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
			 ON CONFLICT (product_id) DO UPDATE SET
				product_handle = EXCLUDED.product_handle,
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				price = EXCLUDED.price,
				tags = EXCLUDED.tags,
				available_for_sale = EXCLUDED.available_for_sale,
				embedding = EXCLUDED.embedding,
				updated_at = now()`,
			rec.ProductID,
			rec.ProductHandle,
			rec.Metadata.Title,
			rec.Metadata.Description,
			rec.Metadata.Price,
			rec.Metadata.Tags,
			rec.Metadata.AvailableForSale,
			pgvector.NewVector(rec.Embedding),
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll removes every stored embedding.
func (r *EmbeddingRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM product_embeddings`)
	return err
}

// Count returns the number of stored embeddings.
func (r *EmbeddingRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product_embeddings`).Scan(&count)
	return count, err
}

// SearchNearest returns up to topK records ordered by descending cosine
// similarity against the query vector. Ties keep the index-returned order.
func (r *EmbeddingRepository) SearchNearest(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return []domain.SearchResult{}, nil
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, product_handle, title, description, price, tags, available_for_sale,
		        1 - (embedding <=> $1) AS similarity
		 FROM product_embeddings
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.SearchResult, 0, topK)
	for rows.Next() {
		var res domain.SearchResult
		if err := rows.Scan(
			&res.ProductID,
			&res.ProductHandle,
			&res.Metadata.Title,
			&res.Metadata.Description,
			&res.Metadata.Price,
			&res.Metadata.Tags,
			&res.Metadata.AvailableForSale,
			&res.Similarity,
		); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}
