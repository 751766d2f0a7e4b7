package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/middleware"
)

type routes struct {
	health   *handlers.HealthHandler
	products *handlers.ProductHandler
	carts    *handlers.CartHandler
	orders   *handlers.OrderHandler
	receipts *handlers.ReceiptHandler
	metrics  *metrics.Metrics
	// metricsHandler serves the Prometheus exposition format
	metricsHandler http.Handler
}

func newRouter(rt routes, allowedOrigins []string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(rt.metrics.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.health.ServeHTTP)
	r.Handle("/metrics", rt.metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", rt.products.ListProducts)
		r.Get("/catalog/{productId}", rt.products.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", rt.carts.CreateCart)
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", rt.carts.GetCart)
				r.Delete("/", rt.carts.DeleteCart)
				r.Post("/items", rt.carts.AddItem)
				r.Delete("/items", rt.carts.ClearCart)
				r.Put("/items/{itemId}", rt.carts.SetQuantity)
				r.Delete("/items/{itemId}", rt.carts.RemoveItem)
				r.Post("/checkout", rt.orders.Checkout)
			})
		})

		r.Get("/order/{orderId}/receipt", rt.orders.GetReceipt)

		r.Get("/receipt/{receiptId}", rt.receipts.GetReceipt)
		r.Delete("/receipt/{receiptId}", rt.receipts.ReleaseReceipt)
	})

	return r
}
