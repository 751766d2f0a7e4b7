package models

import "github.com/shopspring/decimal"

// CatalogItem is a purchasable product as reported by the inventory backend.
// The backend owns it; this service only reads it to seed cart stock limits.
type CatalogItem struct {
	ID                ID              `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantityInStock"`
}

// InStock reports whether at least one unit can be sold
func (c CatalogItem) InStock() bool {
	return c.QuantityAvailable > 0
}
