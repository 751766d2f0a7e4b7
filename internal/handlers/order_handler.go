package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/service"
)

// CheckoutRequest is the optional body of POST /api/cart/{cartId}/checkout
type CheckoutRequest struct {
	CustomerName string `json:"customerName" validate:"max=200"`
}

// CheckoutResponse identifies the placed order. When the order went through
// but its receipt could not be produced, ReceiptID is empty and ReceiptError
// explains why; the order itself must not be retried.
type CheckoutResponse struct {
	OrderID      string `json:"orderId"`
	ReceiptID    string `json:"receiptId,omitempty"`
	ReceiptError string `json:"receiptError,omitempty"`
}

// OrderHandler handles checkout and order receipt requests
type OrderHandler struct {
	checkout *service.CheckoutService
	receipts *service.ReceiptService
	validate *validatorv10.Validate
	log      *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkout *service.CheckoutService, receipts *service.ReceiptService, validate *validatorv10.Validate, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		receipts: receipts,
		validate: validate,
		log:      log,
	}
}

// Checkout handles POST /api/cart/{cartId}/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	var req CheckoutRequest
	if err := decodeBody(r, &req, h.validate, true); err != nil {
		h.log.Warn("invalid checkout request", "cart_id", cartID, "error", err)
		writeDecodeError(w, err, h.log)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), cartID, req.CustomerName)
	if err != nil {
		if result.OrderID != "" {
			WriteJSON(w, http.StatusCreated, CheckoutResponse{
				OrderID:      result.OrderID,
				ReceiptError: "Order placed but the receipt could not be generated",
			}, h.log)
			return
		}
		h.log.Error("checkout failed", "cart_id", cartID, "error", err)
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID:   result.OrderID,
		ReceiptID: result.ReceiptID,
	}, h.log)
}

// GetReceipt handles GET /api/order/{orderId}/receipt
func (h *OrderHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	doc, err := h.receipts.Generate(r.Context(), orderID)
	if err != nil {
		h.log.Warn("failed to generate receipt", "order_id", orderID, "error", err)
		writeServiceError(w, err, h.log)
		return
	}

	WritePDF(w, "receipt-"+orderID+".pdf", doc, h.log)
}
