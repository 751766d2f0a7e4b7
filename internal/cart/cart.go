// Package cart holds the in-progress sale for one till.
//
// A Cart never enters an invalid state: quantities outside [1, maxQuantity]
// are clamped or turned into removals instead of being rejected.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/pos-checkout/internal/models"
)

// Line is one product's quantity entry within a cart.
type Line struct {
	ItemID      string          `json:"itemId"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"maxQuantity"`
}

// Total returns unit price × quantity for the line
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AtLimit reports whether the line has reached its stock ceiling
func (l Line) AtLimit() bool {
	return l.Quantity >= l.MaxQuantity
}

// Cart is an ordered set of lines keyed by item id.
// It is safe for concurrent use.
type Cart struct {
	mu          sync.Mutex
	lines       []Line
	checkingOut bool
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of item into the cart and reports whether the cart changed.
//
// An existing line is incremented unless it already sits at its ceiling. A new
// line starts at quantity 1 with the item's available stock as its ceiling.
//
// An item with no stock is not added at all, so every line keeps
// 1 <= Quantity <= MaxQuantity. The cart does not rely on callers filtering out
// zero-stock items first; callers that want to report the refusal check
// InStock themselves.
func (c *Cart) Add(item models.CatalogItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.ID.String()
	if i := c.indexOf(id); i >= 0 {
		if c.lines[i].Quantity >= c.lines[i].MaxQuantity {
			return false
		}
		c.lines[i].Quantity++
		return true
	}

	if item.QuantityAvailable <= 0 {
		return false
	}

	c.lines = append(c.lines, Line{
		ItemID:      id,
		Name:        item.Name,
		SKU:         item.SKU,
		UnitPrice:   item.Price,
		Quantity:    1,
		MaxQuantity: item.QuantityAvailable,
	})
	return true
}

// SetQuantity replaces the quantity of an existing line, clamped to its
// ceiling. A quantity of zero or less removes the line. Unknown ids are
// ignored. It reports whether the cart changed.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(itemID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return false
	}

	quantity = min(quantity, c.lines[i].MaxQuantity)
	if quantity <= 0 {
		// zero-stock ceiling: nothing valid to keep
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return true
	}
	if c.lines[i].Quantity == quantity {
		return false
	}
	c.lines[i].Quantity = quantity
	return true
}

// Remove deletes the line for itemID if present and reports whether it was present
func (c *Cart) Remove(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for itemID
func (c *Cart) Line(itemID string) (Line, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// TotalItems returns the sum of quantities over all lines
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice returns the sum of unit price × quantity over all lines
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// TryBeginCheckout marks the cart as being submitted. It returns false if a
// checkout is already running for this cart.
func (c *Cart) TryBeginCheckout() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checkingOut {
		return false
	}
	c.checkingOut = true
	return true
}

// EndCheckout releases the mark set by TryBeginCheckout
func (c *Cart) EndCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checkingOut = false
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
