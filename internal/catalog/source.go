// Package catalog provides read-only access to the product catalog. The
// catalog is owned by an external system; this package only loads it for
// embedding and display.
package catalog

import (
	"context"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// Source yields the full product catalog. Implementations must return items
// in a stable order so re-initialization is deterministic.
type Source interface {
	Products(ctx context.Context) ([]domain.CatalogItem, error)
}

// FixtureSource serves the built-in demo catalog. Used when no external
// catalog source is configured.
type FixtureSource struct{}

func NewFixtureSource() *FixtureSource {
	return &FixtureSource{}
}

func (s *FixtureSource) Products(ctx context.Context) ([]domain.CatalogItem, error) {
	items := make([]domain.CatalogItem, len(fixtureProducts))
	copy(items, fixtureProducts)
	return items, nil
}
