package domain

import "fmt"

// EmbeddingDimensions is the fixed dimensionality of all stored vectors.
// Changing it requires re-creating the index and re-embedding the catalog.
const EmbeddingDimensions = 1536

// ProductMetadata is the denormalized snapshot of catalog fields stored
// alongside each vector so search results can be displayed without a
// catalog round-trip.
type ProductMetadata struct {
	Title            string
	Description      string
	Price            string
	Tags             []string
	AvailableForSale bool
}

// EmbeddingRecord is one catalog item's vector plus its display metadata.
// There is exactly one record per product id; upsert replaces the whole
// record, never individual fields.
type EmbeddingRecord struct {
	ProductID     string
	ProductHandle string
	Embedding     []float32
	Metadata      ProductMetadata
}

// SearchResult is an EmbeddingRecord with its cosine similarity against a
// query, produced only at query time and never persisted.
type SearchResult struct {
	EmbeddingRecord
	Similarity float32
}

// ValidateEmbeddingRecord checks an EmbeddingRecord before storage.
func ValidateEmbeddingRecord(r *EmbeddingRecord) error {
	if r == nil {
		return fmt.Errorf("embedding record cannot be nil")
	}
	if r.ProductID == "" {
		return fmt.Errorf("embedding record ProductID is required")
	}
	if len(r.Embedding) != EmbeddingDimensions {
		return fmt.Errorf("embedding record has %d dimensions, expected %d", len(r.Embedding), EmbeddingDimensions)
	}
	return nil
}
