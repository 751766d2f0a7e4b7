package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/backend"
)

func TestOrderHandler_Checkout(t *testing.T) {
	tests := []struct {
		name             string
		body             string
		backendErr       error
		expectedStatus   int
		expectedCustomer string
		expectedError    string
		cartCleared      bool
	}{
		{
			name:             "no body uses default customer",
			body:             "",
			expectedStatus:   http.StatusCreated,
			expectedCustomer: "Walk-in Customer",
			cartCleared:      true,
		},
		{
			name:             "named customer",
			body:             `{"customerName":"Dana"}`,
			expectedStatus:   http.StatusCreated,
			expectedCustomer: "Dana",
			cartCleared:      true,
		},
		{
			name:           "backend rejects with message",
			body:           `{}`,
			backendErr:     &backend.APIError{StatusCode: 400, Message: "Insufficient stock for Espresso"},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Insufficient stock for Espresso",
		},
		{
			name:           "backend unreachable",
			body:           `{}`,
			backendErr:     errors.New("dial tcp: connection refused"),
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Failed to submit order",
		},
		{
			name:           "invalid JSON",
			body:           `{"customerName":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			s := newTestServer(t, nil)
			s.backend.createErr = tt.backendErr
			id := s.newCart(t)
			s.do(http.MethodPost, "/api/cart/"+id+"/items", `{"productId":"1"}`)

			// Execute
			w := s.do(http.MethodPost, "/api/cart/"+id+"/checkout", tt.body)

			// Assert
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated {
				var resp CheckoutResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.OrderID != "ORD-100" || resp.ReceiptID == "" {
					t.Errorf("unexpected checkout response %+v", resp)
				}
				if got := s.backend.created[0].CustomerName; got != tt.expectedCustomer {
					t.Errorf("expected customer %q, got %q", tt.expectedCustomer, got)
				}
			}

			if tt.expectedError != "" {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode error: %v", err)
				}
				if resp.Error != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, resp.Error)
				}
			}

			view := decodeCart(t, s.do(http.MethodGet, "/api/cart/"+id, ""))
			if cleared := len(view.Lines) == 0; cleared != tt.cartCleared {
				t.Errorf("expected cart cleared=%v, got lines %+v", tt.cartCleared, view.Lines)
			}
		})
	}
}

func TestOrderHandler_CheckoutEmptyCart(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.newCart(t)

	w := s.do(http.MethodPost, "/api/cart/"+id+"/checkout", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if len(s.backend.created) != 0 {
		t.Error("empty cart must not reach the backend")
	}
}

func TestOrderHandler_CheckoutReceiptFailure(t *testing.T) {
	s := newTestServer(t, failingRenderer{})
	id := s.newCart(t)
	s.do(http.MethodPost, "/api/cart/"+id+"/items", `{"productId":"1"}`)

	w := s.do(http.MethodPost, "/api/cart/"+id+"/checkout", "")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var resp CheckoutResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OrderID != "ORD-100" || resp.ReceiptID != "" || resp.ReceiptError == "" {
		t.Errorf("expected order id with receipt error, got %+v", resp)
	}
}

func TestOrderHandler_GetReceipt(t *testing.T) {
	tests := []struct {
		name           string
		orderID        string
		getErr         error
		expectedStatus int
	}{
		{"existing order", "ORD-100", nil, http.StatusOK},
		{"unknown order", "ORD-404", nil, http.StatusNotFound},
		{"backend failure", "ORD-100", errors.New("timeout"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			s.backend.getErr = tt.getErr

			w := s.do(http.MethodGet, "/api/order/"+tt.orderID+"/receipt", "")

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
				t.Errorf("expected application/pdf, got %s", ct)
			}
			if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
				t.Error("expected a PDF document")
			}
		})
	}
}

func TestOrderHandler_GetReceiptRenderFailure(t *testing.T) {
	s := newTestServer(t, failingRenderer{})

	w := s.do(http.MethodGet, "/api/order/ORD-100/receipt", "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
