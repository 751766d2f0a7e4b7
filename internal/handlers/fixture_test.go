package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/backend"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/receipt"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/validation"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/pkg/logger"
)

// stubBackend stands in for the inventory/order API
type stubBackend struct {
	products  []models.CatalogItem
	listErr   error
	orderID   string
	createErr error
	created   []models.OrderRequest
	orders    map[string]*models.OrderRecord
	getErr    error
}

func (b *stubBackend) ListProducts(ctx context.Context) ([]models.CatalogItem, error) {
	return b.products, b.listErr
}

func (b *stubBackend) CreateOrder(ctx context.Context, req models.OrderRequest) (string, error) {
	b.created = append(b.created, req)
	if b.createErr != nil {
		return "", b.createErr
	}
	return b.orderID, nil
}

func (b *stubBackend) GetOrder(ctx context.Context, id string) (*models.OrderRecord, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	rec, ok := b.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", backend.ErrNotFound, id)
	}
	copied := *rec
	return &copied, nil
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		products: []models.CatalogItem{
			{ID: "1", Name: "Espresso", SKU: "ESP", Price: decimal.RequireFromString("3.50"), QuantityAvailable: 2},
			{ID: "2", Name: "Croissant", SKU: "CRO", Price: decimal.RequireFromString("4.25"), QuantityAvailable: 10},
			{ID: "3", Name: "Sold Out Muffin", SKU: "MUF", Price: decimal.RequireFromString("2.00"), QuantityAvailable: 0},
		},
		orderID: "ORD-100",
		orders: map[string]*models.OrderRecord{
			"ORD-100": {
				ID:           "ORD-100",
				CustomerName: "Walk-in Customer",
				OrderDate:    models.Timestamp{Time: time.Date(2024, 10, 15, 14, 30, 0, 0, time.UTC)},
				TotalAmount:  decimal.RequireFromString("7.00"),
				Items: models.List[models.OrderRecordItem]{
					{ID: "1", Name: "Espresso", ProductID: "1", Quantity: 2, UnitPrice: decimal.RequireFromString("3.50")},
				},
			},
		},
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(ctx context.Context, plan receipt.Plan) ([]byte, error) {
	return nil, fmt.Errorf("%w: boom", receipt.ErrReceiptGeneration)
}

// testServer wires real services over the stub backend into a chi router
type testServer struct {
	router   chi.Router
	backend  *stubBackend
	carts    *service.CartService
	receipts *service.ReceiptService
}

func newTestServer(t *testing.T, renderer service.DocumentRenderer) *testServer {
	t.Helper()

	log := logger.New("error")
	m := metrics.New(prometheus.NewRegistry())
	validate := validation.New()
	be := newStubBackend()

	if renderer == nil {
		renderer = receipt.NewRenderer(receipt.RendererOptions{}, log)
	}

	products := service.NewProductService(be)
	carts := service.NewCartService(repository.NewInMemoryCartRepository(), products, m, log)
	orders := service.NewOrderService(be, validate, "Walk-in Customer", m, log)
	receipts := service.NewReceiptService(be, receipt.NewLayoutEngine(receipt.LayoutOptions{}), renderer, repository.NewInMemoryReceiptRepository(10), m, log)
	checkout := service.NewCheckoutService(carts, orders, receipts, log)

	productHandler := NewProductHandler(products, log)
	cartHandler := NewCartHandler(carts, validate, log)
	orderHandler := NewOrderHandler(checkout, receipts, validate, log)
	receiptHandler := NewReceiptHandler(receipts, log)

	r := chi.NewRouter()
	r.Get("/api/catalog", productHandler.ListProducts)
	r.Get("/api/catalog/{productId}", productHandler.GetProduct)
	r.Post("/api/cart", cartHandler.CreateCart)
	r.Get("/api/cart/{cartId}", cartHandler.GetCart)
	r.Delete("/api/cart/{cartId}", cartHandler.DeleteCart)
	r.Post("/api/cart/{cartId}/items", cartHandler.AddItem)
	r.Delete("/api/cart/{cartId}/items", cartHandler.ClearCart)
	r.Put("/api/cart/{cartId}/items/{itemId}", cartHandler.SetQuantity)
	r.Delete("/api/cart/{cartId}/items/{itemId}", cartHandler.RemoveItem)
	r.Post("/api/cart/{cartId}/checkout", orderHandler.Checkout)
	r.Get("/api/order/{orderId}/receipt", orderHandler.GetReceipt)
	r.Get("/api/receipt/{receiptId}", receiptHandler.GetReceipt)
	r.Delete("/api/receipt/{receiptId}", receiptHandler.ReleaseReceipt)

	return &testServer{router: r, backend: be, carts: carts, receipts: receipts}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// newCart creates a cart directly through the service and returns its id
func (s *testServer) newCart(t *testing.T) string {
	t.Helper()
	id, _, err := s.carts.Create(context.Background())
	if err != nil {
		t.Fatalf("failed to create cart: %v", err)
	}
	return id
}
