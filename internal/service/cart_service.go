package service

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/repository"
)

// CartService applies cashier actions to stored carts
type CartService struct {
	carts   repository.CartRepository
	catalog *ProductService
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts repository.CartRepository, catalog *ProductService, m *metrics.Metrics, log *slog.Logger) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
		metrics: m,
		log:     log,
	}
}

// Create opens a new empty cart
func (s *CartService) Create(ctx context.Context) (string, *cart.Cart, error) {
	id, c, err := s.carts.Create(ctx)
	if err != nil {
		return "", nil, err
	}
	s.metrics.SetActiveCarts(s.carts.Count())
	s.log.Debug("cart created", "cart_id", id)
	return id, c, nil
}

// Get returns a cart by ID
func (s *CartService) Get(ctx context.Context, id string) (*cart.Cart, error) {
	return s.carts.Get(ctx, id)
}

// Delete discards a cart
func (s *CartService) Delete(ctx context.Context, id string) error {
	if err := s.carts.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.SetActiveCarts(s.carts.Count())
	return nil
}

// AddItem adds one unit of a catalog product. The returned flag is false when
// the line was already at its stock ceiling.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string) (*cart.Cart, bool, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, false, err
	}

	item, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if _, inCart := c.Line(productID); !inCart && !item.InStock() {
		return nil, false, ErrOutOfStock
	}

	return c, c.Add(*item), nil
}

// SetQuantity changes a line's quantity; zero or less removes it
func (s *CartService) SetQuantity(ctx context.Context, cartID, itemID string, quantity int) (*cart.Cart, bool, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, false, err
	}
	return c, c.SetQuantity(itemID, quantity), nil
}

// RemoveItem deletes a line
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID string) (*cart.Cart, bool, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, false, err
	}
	return c, c.Remove(itemID), nil
}

// Clear empties a cart
func (s *CartService) Clear(ctx context.Context, cartID string) (*cart.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	return c, nil
}
