package service

import (
	"context"
	"log/slog"
)

// CheckoutResult identifies the created order and its held receipt.
// ReceiptID is empty when the order went through but the receipt failed.
type CheckoutResult struct {
	OrderID   string
	ReceiptID string
}

// CheckoutService runs the submit → clear → receipt sequence for a cart
type CheckoutService struct {
	carts    *CartService
	orders   *OrderService
	receipts *ReceiptService
	log      *slog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts *CartService, orders *OrderService, receipts *ReceiptService, log *slog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		receipts: receipts,
		log:      log,
	}
}

// Checkout submits the cart. The cart is cleared only after the backend has
// confirmed the order, and before its receipt is fetched. When the receipt step
// fails the result still carries the order id alongside the error.
func (s *CheckoutService) Checkout(ctx context.Context, cartID, customerName string) (CheckoutResult, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return CheckoutResult{}, err
	}

	if !c.TryBeginCheckout() {
		return CheckoutResult{}, ErrCheckoutInProgress
	}
	defer c.EndCheckout()

	orderID, err := s.orders.Submit(ctx, c, customerName)
	if err != nil {
		return CheckoutResult{}, err
	}
	c.Clear()

	result := CheckoutResult{OrderID: orderID}

	held, err := s.receipts.Hold(ctx, orderID)
	if err != nil {
		s.log.Warn("order placed but receipt unavailable", "cart_id", cartID, "order_id", orderID, "error", err)
		return result, err
	}
	result.ReceiptID = held.ID

	s.log.Info("checkout completed", "cart_id", cartID, "order_id", orderID, "receipt_id", held.ID)
	return result, nil
}
