package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/service"
)

// AddItemRequest is the body of POST /api/cart/{cartId}/items
type AddItemRequest struct {
	ProductID models.ID `json:"productId" validate:"required"`
}

// SetQuantityRequest is the body of PUT /api/cart/{cartId}/items/{itemId}.
// Zero or negative quantities remove the line.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// LineView is one cart line as shown to the cashier
type LineView struct {
	ItemID      string `json:"itemId"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	UnitPrice   string `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"maxQuantity"`
	LineTotal   string `json:"lineTotal"`
	AtLimit     bool   `json:"atLimit"`
}

// CartView is the JSON form of a cart
type CartView struct {
	CartID     string     `json:"cartId"`
	Lines      []LineView `json:"lines"`
	TotalItems int        `json:"totalItems"`
	TotalPrice string     `json:"totalPrice"`
	// Changed is set on mutations; false means the request hit a stock limit
	Changed *bool `json:"changed,omitempty"`
}

// NewCartView builds a view from a single snapshot of the cart's lines so the
// totals always agree with the lines shown
func NewCartView(id string, c *cart.Cart) CartView {
	lines := c.Lines()
	view := CartView{
		CartID: id,
		Lines:  make([]LineView, 0, len(lines)),
	}

	total := decimal.Zero
	for _, l := range lines {
		view.Lines = append(view.Lines, LineView{
			ItemID:      l.ItemID,
			Name:        l.Name,
			SKU:         l.SKU,
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Quantity:    l.Quantity,
			MaxQuantity: l.MaxQuantity,
			LineTotal:   l.Total().StringFixed(2),
			AtLimit:     l.AtLimit(),
		})
		view.TotalItems += l.Quantity
		total = total.Add(l.Total())
	}
	view.TotalPrice = total.StringFixed(2)
	return view
}

// CartHandler exposes cart editing over HTTP
type CartHandler struct {
	carts    *service.CartService
	validate *validatorv10.Validate
	log      *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, validate *validatorv10.Validate, log *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validate,
		log:      log,
	}
}

// CreateCart handles POST /api/cart
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	id, c, err := h.carts.Create(r.Context())
	if err != nil {
		h.log.Error("failed to create cart", "error", err)
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, NewCartView(id, c), h.log)
}

// GetCart handles GET /api/cart/{cartId}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")

	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, NewCartView(id, c), h.log)
}

// DeleteCart handles DELETE /api/cart/{cartId}
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Delete(r.Context(), chi.URLParam(r, "cartId")); err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/cart/{cartId}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")

	var req AddItemRequest
	if err := decodeBody(r, &req, h.validate, false); err != nil {
		h.log.Warn("invalid add item request", "cart_id", id, "error", err)
		writeDecodeError(w, err, h.log)
		return
	}

	c, changed, err := h.carts.AddItem(r.Context(), id, req.ProductID.String())
	if err != nil {
		h.log.Info("failed to add item", "cart_id", id, "product_id", req.ProductID, "error", err)
		writeServiceError(w, err, h.log)
		return
	}

	h.writeMutation(w, id, c, changed)
}

// SetQuantity handles PUT /api/cart/{cartId}/items/{itemId}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")
	itemID := chi.URLParam(r, "itemId")

	var req SetQuantityRequest
	if err := decodeBody(r, &req, h.validate, false); err != nil {
		h.log.Warn("invalid quantity request", "cart_id", id, "error", err)
		writeDecodeError(w, err, h.log)
		return
	}

	c, changed, err := h.carts.SetQuantity(r.Context(), id, itemID, *req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	h.writeMutation(w, id, c, changed)
}

// RemoveItem handles DELETE /api/cart/{cartId}/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")

	c, changed, err := h.carts.RemoveItem(r.Context(), id, chi.URLParam(r, "itemId"))
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	h.writeMutation(w, id, c, changed)
}

// ClearCart handles DELETE /api/cart/{cartId}/items
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartId")

	c, err := h.carts.Clear(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, NewCartView(id, c), h.log)
}

func (h *CartHandler) writeMutation(w http.ResponseWriter, id string, c *cart.Cart, changed bool) {
	view := NewCartView(id, c)
	view.Changed = &changed
	WriteJSON(w, http.StatusOK, view, h.log)
}
