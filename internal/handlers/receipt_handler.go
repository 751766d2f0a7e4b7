package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/service"
)

// ReceiptHandler serves and releases receipts held after checkout
type ReceiptHandler struct {
	receipts *service.ReceiptService
	log      *slog.Logger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receipts *service.ReceiptService, log *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receipts: receipts,
		log:      log,
	}
}

// GetReceipt handles GET /api/receipt/{receiptId}
func (h *ReceiptHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	doc, err := h.receipts.Held(r.Context(), chi.URLParam(r, "receiptId"))
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WritePDF(w, "receipt-"+doc.OrderID+".pdf", doc.Content, h.log)
}

// ReleaseReceipt handles DELETE /api/receipt/{receiptId}
func (h *ReceiptHandler) ReleaseReceipt(w http.ResponseWriter, r *http.Request) {
	if err := h.receipts.Release(r.Context(), chi.URLParam(r, "receiptId")); err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
