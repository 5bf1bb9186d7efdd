package domain

import "fmt"

// Price is a decimal amount plus an ISO currency code. The amount is kept
// as the catalog's string representation to avoid float rounding in display.
type Price struct {
	Amount   string
	Currency string
}

// Display renders the price the way the assistant quotes it, e.g. "55.00 USD".
func (p Price) Display() string {
	return fmt.Sprintf("%s %s", p.Amount, p.Currency)
}

// CatalogItem is a product as read from the external catalog source.
// The pipeline never mutates catalog items; it only embeds and displays them.
type CatalogItem struct {
	ID               string
	Handle           string
	Title            string
	Description      string
	Price            Price
	AvailableForSale bool
	Tags             []string
}

// ValidateCatalogItem checks the fields the pipeline depends on.
func ValidateCatalogItem(item *CatalogItem) error {
	if item == nil {
		return fmt.Errorf("catalog item cannot be nil")
	}
	if item.ID == "" {
		return fmt.Errorf("catalog item ID is required")
	}
	if item.Handle == "" {
		return fmt.Errorf("catalog item Handle is required")
	}
	if item.Title == "" {
		return fmt.Errorf("catalog item Title is required")
	}
	return nil
}
