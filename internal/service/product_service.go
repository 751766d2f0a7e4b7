package service

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
)

// CatalogSource reads purchasable items from the inventory backend
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]models.CatalogItem, error)
}

// ProductService handles read access to the stock catalog
type ProductService struct {
	source CatalogSource
}

// NewProductService creates a new product service
func NewProductService(source CatalogSource) *ProductService {
	return &ProductService{
		source: source,
	}
}

// ListProducts returns all catalog items
func (s *ProductService) ListProducts(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return items, nil
}

// GetProduct returns a catalog item by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.CatalogItem, error) {
	items, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID.String() == id {
			return &items[i], nil
		}
	}
	return nil, ErrItemNotFound
}
