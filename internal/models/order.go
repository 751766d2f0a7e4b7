package models

import "github.com/shopspring/decimal"

// OrderRequest is the body of POST /api/order on the backend.
// It is built once per checkout as a snapshot of the cart.
type OrderRequest struct {
	CustomerName string      `json:"customerName" validate:"required,max=200"`
	Items        []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// OrderItem represents a single item in an order request
type OrderItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// OrderCreated is the payload returned by the backend after an order is accepted
type OrderCreated struct {
	ID ID `json:"id"`
}

// OrderRecord is the backend's persisted representation of a completed sale.
// It drives receipt generation.
type OrderRecord struct {
	ID           ID                    `json:"id"`
	CustomerName string                `json:"customerName"`
	OrderDate    Timestamp             `json:"orderDate"`
	TotalAmount  decimal.Decimal       `json:"totalAmount"`
	Items        List[OrderRecordItem] `json:"items"`
}

// OrderRecordItem is one sold line of an order record
type OrderRecordItem struct {
	ID        ID              `json:"id"`
	Name      string          `json:"name"`
	ProductID ID              `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity × unit price
func (i OrderRecordItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
