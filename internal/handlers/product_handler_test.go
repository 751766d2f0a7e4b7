package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
)

func TestListProducts(t *testing.T) {
	// Setup
	s := newTestServer(t, nil)

	// Execute
	w := s.do(http.MethodGet, "/api/catalog", "")

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var products []models.CatalogItem
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(products) != 3 {
		t.Errorf("expected 3 products, got %d", len(products))
	}
}

func TestListProducts_BackendDown(t *testing.T) {
	s := newTestServer(t, nil)
	s.backend.listErr = errors.New("connection refused")

	w := s.do(http.MethodGet, "/api/catalog", "")

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}
}

func TestGetProduct(t *testing.T) {
	tests := []struct {
		name           string
		productID      string
		expectedStatus int
	}{
		{"existing product", "2", http.StatusOK},
		{"unknown product", "99", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			w := s.do(http.MethodGet, "/api/catalog/"+tt.productID, "")

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var product models.CatalogItem
			if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if product.ID != "2" || product.Name != "Croissant" {
				t.Errorf("unexpected product %+v", product)
			}
		})
	}
}
