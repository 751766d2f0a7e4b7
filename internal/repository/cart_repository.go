package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/cart"
)

var (
	ErrCartNotFound = errors.New("cart not found")
)

// CartRepository defines the interface for cart storage
type CartRepository interface {
	Create(ctx context.Context) (string, *cart.Cart, error)
	Get(ctx context.Context, id string) (*cart.Cart, error)
	Delete(ctx context.Context, id string) error
	Count() int
}

// InMemoryCartRepository keeps carts in process memory. Carts are lost on restart.
type InMemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

// NewInMemoryCartRepository creates an empty cart repository
func NewInMemoryCartRepository() *InMemoryCartRepository {
	return &InMemoryCartRepository{
		carts: make(map[string]*cart.Cart),
	}
}

// Create stores a new empty cart and returns its id
func (r *InMemoryCartRepository) Create(ctx context.Context) (string, *cart.Cart, error) {
	id := uuid.NewString()
	c := cart.New()

	r.mu.Lock()
	r.carts[id] = c
	r.mu.Unlock()

	return id, c, nil
}

// Get returns a cart by its ID
func (r *InMemoryCartRepository) Get(ctx context.Context, id string) (*cart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.carts[id]
	if !exists {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// Delete discards a cart
func (r *InMemoryCartRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.carts[id]; !exists {
		return ErrCartNotFound
	}
	delete(r.carts, id)
	return nil
}

// Count returns the number of carts held
func (r *InMemoryCartRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.carts)
}
