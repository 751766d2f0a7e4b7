package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/backend"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/receipt"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/repository"
)

// OrderReader fetches order records from the backend
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*models.OrderRecord, error)
}

// Layouter computes receipt plans
type Layouter interface {
	Layout(order models.OrderRecord) receipt.Plan
}

// DocumentRenderer turns plans into finished documents
type DocumentRenderer interface {
	Render(ctx context.Context, plan receipt.Plan) ([]byte, error)
}

// ReceiptService builds receipts from order records and manages held copies
type ReceiptService struct {
	orders   OrderReader
	layout   Layouter
	renderer DocumentRenderer
	held     repository.ReceiptRepository
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(orders OrderReader, layout Layouter, renderer DocumentRenderer, held repository.ReceiptRepository, m *metrics.Metrics, log *slog.Logger) *ReceiptService {
	return &ReceiptService{
		orders:   orders,
		layout:   layout,
		renderer: renderer,
		held:     held,
		metrics:  m,
		log:      log,
	}
}

// FetchOrder reads the order record a receipt is built from
func (s *ReceiptService) FetchOrder(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: %w", ErrOrderFetch, ErrMissingOrderID)
	}

	record, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrOrderFetch, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%w: %w", ErrOrderFetch, err)
	}
	if record.ID == "" {
		record.ID = models.ID(orderID)
	}
	return record, nil
}

// Generate renders a fresh receipt for orderID. Nothing is cached between calls.
func (s *ReceiptService) Generate(ctx context.Context, orderID string) ([]byte, error) {
	record, err := s.FetchOrder(ctx, orderID)
	if err != nil {
		s.metrics.RecordReceiptGenerated(metrics.OutcomeRejected)
		return nil, err
	}

	start := time.Now()
	plan := s.layout.Layout(*record)
	doc, err := s.renderer.Render(ctx, plan)
	if err != nil {
		s.metrics.RecordReceiptGenerated(metrics.OutcomeFailed)
		s.log.Error("failed to render receipt", "order_id", orderID, "error", err)
		return nil, err
	}
	s.metrics.RecordRenderDuration(time.Since(start))
	s.metrics.RecordReceiptGenerated(metrics.OutcomeSuccess)

	s.log.Info("receipt generated", "order_id", orderID, "items_count", len(record.Items), "bytes", len(doc))
	return doc, nil
}

// Hold renders a receipt and keeps it until Release is called
func (s *ReceiptService) Hold(ctx context.Context, orderID string) (repository.Document, error) {
	doc, err := s.Generate(ctx, orderID)
	if err != nil {
		return repository.Document{}, err
	}

	held, err := s.held.Put(ctx, orderID, doc)
	if err != nil {
		return repository.Document{}, err
	}
	s.metrics.SetHeldReceipts(s.held.Count())
	return held, nil
}

// Held returns a document kept by Hold
func (s *ReceiptService) Held(ctx context.Context, receiptID string) (repository.Document, error) {
	return s.held.Get(ctx, receiptID)
}

// Release drops a held document
func (s *ReceiptService) Release(ctx context.Context, receiptID string) error {
	if err := s.held.Release(ctx, receiptID); err != nil {
		return err
	}
	s.metrics.SetHeldReceipts(s.held.Count())
	return nil
}
