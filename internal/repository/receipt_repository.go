package repository

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

// Document is a rendered receipt held until its holder releases it
type Document struct {
	ID        string
	OrderID   string
	Content   []byte
	CreatedAt time.Time
}

// ReceiptRepository holds rendered receipts behind revocable handles
type ReceiptRepository interface {
	Put(ctx context.Context, orderID string, content []byte) (Document, error)
	Get(ctx context.Context, id string) (Document, error)
	Release(ctx context.Context, id string) error
	Count() int
}

// InMemoryReceiptRepository keeps at most maxHeld documents; adding beyond
// that evicts the oldest one.
type InMemoryReceiptRepository struct {
	mu      sync.Mutex
	maxHeld int
	docs    map[string]Document
	order   []string
	now     func() time.Time
}

// NewInMemoryReceiptRepository creates a receipt repository. maxHeld <= 0 means unbounded.
func NewInMemoryReceiptRepository(maxHeld int) *InMemoryReceiptRepository {
	return &InMemoryReceiptRepository{
		maxHeld: maxHeld,
		docs:    make(map[string]Document),
		now:     time.Now,
	}
}

// Put stores content and returns the handle under which it can be fetched
func (r *InMemoryReceiptRepository) Put(ctx context.Context, orderID string, content []byte) (Document, error) {
	doc := Document{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Content:   content,
		CreatedAt: r.now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[doc.ID] = doc
	r.order = append(r.order, doc.ID)

	if r.maxHeld > 0 && len(r.order) > r.maxHeld {
		excess := len(r.order) - r.maxHeld
		for _, oldest := range r.order[:excess] {
			delete(r.docs, oldest)
		}
		r.order = slices.Delete(r.order, 0, excess)
	}

	return doc, nil
}

// Get returns a held document
func (r *InMemoryReceiptRepository) Get(ctx context.Context, id string) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, exists := r.docs[id]
	if !exists {
		return Document{}, ErrReceiptNotFound
	}
	return doc, nil
}

// Release drops a held document
func (r *InMemoryReceiptRepository) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[id]; !exists {
		return ErrReceiptNotFound
	}
	delete(r.docs, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

// Count returns the number of documents held
func (r *InMemoryReceiptRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.docs)
}
