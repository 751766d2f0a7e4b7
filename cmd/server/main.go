package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/backend"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/receipt"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/validation"
	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting pos checkout server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"backend_url", cfg.Backend.URL,
		"receipt_timezone", cfg.Receipt.Timezone,
		"log_level", cfg.LogLevel,
	)

	client, err := backend.NewClient(backend.Options{
		BaseURL: cfg.Backend.URL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: time.Duration(cfg.Backend.Timeout) * time.Second,
	}, log)
	if err != nil {
		log.Error("failed to create backend client", "error", err)
		os.Exit(1)
	}

	// Receipt pipeline
	var fonts receipt.FontLoader
	if cfg.Receipt.FontURL != "" {
		fontURL := cfg.Receipt.FontURL
		fonts = receipt.NewCachedFont(receipt.FontLoaderFunc(func(ctx context.Context) ([]byte, error) {
			return client.FetchFont(ctx, fontURL)
		}))
	} else {
		log.Warn("RECEIPT_FONT_URL not set, receipts use the built-in Helvetica font and fail for names outside cp1252")
	}
	layout := receipt.NewLayoutEngine(receipt.LayoutOptions{
		Location:     cfg.Location(),
		MaxNameRunes: cfg.Receipt.MaxNameRunes,
	})
	renderer := receipt.NewRenderer(receipt.RendererOptions{Fonts: fonts}, log)

	m := metrics.New(prometheus.DefaultRegisterer)
	validate := validation.New()

	// Initialize repositories
	cartRepo := repository.NewInMemoryCartRepository()
	receiptRepo := repository.NewInMemoryReceiptRepository(cfg.Receipt.MaxHeld)

	// Initialize services
	productService := service.NewProductService(client)
	cartService := service.NewCartService(cartRepo, productService, m, log)
	orderService := service.NewOrderService(client, validate, cfg.Checkout.DefaultCustomerName, m, log)
	receiptService := service.NewReceiptService(client, layout, renderer, receiptRepo, m, log)
	checkoutService := service.NewCheckoutService(cartService, orderService, receiptService, log)

	// Initialize handlers
	r := newRouter(routes{
		health:         handlers.NewHealthHandler(log),
		products:       handlers.NewProductHandler(productService, log),
		carts:          handlers.NewCartHandler(cartService, validate, log),
		orders:         handlers.NewOrderHandler(checkoutService, receiptService, validate, log),
		receipts:       handlers.NewReceiptHandler(receiptService, log),
		metrics:        m,
		metricsHandler: promhttp.Handler(),
	}, cfg.CORS.AllowedOrigins, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
