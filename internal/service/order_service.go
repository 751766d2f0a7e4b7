package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/backend"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/validation"
)

const genericSubmissionMessage = "Failed to submit order"

// OrderAPI creates orders on the backend
type OrderAPI interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (string, error)
}

// OrderService turns carts into backend orders.
//
// Submit sends at most one request per call and never retries; it also never
// touches the cart it was given. Clearing after success is the caller's job.
type OrderService struct {
	api             OrderAPI
	validate        *validatorv10.Validate
	defaultCustomer string
	metrics         *metrics.Metrics
	log             *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(api OrderAPI, validate *validatorv10.Validate, defaultCustomer string, m *metrics.Metrics, log *slog.Logger) *OrderService {
	return &OrderService{
		api:             api,
		validate:        validate,
		defaultCustomer: defaultCustomer,
		metrics:         m,
		log:             log,
	}
}

// BuildOrderRequest snapshots lines into an order request. The result shares
// no memory with lines.
func BuildOrderRequest(lines []cart.Line, customerName string) models.OrderRequest {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID: l.ItemID,
			Quantity:  l.Quantity,
		})
	}
	return models.OrderRequest{
		CustomerName: customerName,
		Items:        items,
	}
}

// Submit sends the current contents of c as a new order and returns the order id
func (s *OrderService) Submit(ctx context.Context, c *cart.Cart, customerName string) (string, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		s.metrics.RecordOrderSubmitted(metrics.OutcomeRejected)
		return "", ErrEmptyCart
	}

	name := strings.TrimSpace(customerName)
	if name == "" {
		name = s.defaultCustomer
	}
	req := BuildOrderRequest(lines, name)

	if err := s.validate.Struct(req); err != nil {
		s.metrics.RecordOrderSubmitted(metrics.OutcomeRejected)
		return "", &SubmissionError{Message: validation.Summary(err), Err: err}
	}

	orderID, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		msg := genericSubmissionMessage
		outcome := metrics.OutcomeFailed

		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			outcome = metrics.OutcomeRejected
			if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}

		s.metrics.RecordOrderSubmitted(outcome)
		s.log.Error("failed to submit order", "error", err, "items_count", len(req.Items))
		return "", &SubmissionError{Message: msg, Err: err}
	}

	s.metrics.RecordOrderSubmitted(metrics.OutcomeSuccess)
	s.log.Info("order submitted", "order_id", orderID, "items_count", len(req.Items), "customer", name)
	return orderID, nil
}
