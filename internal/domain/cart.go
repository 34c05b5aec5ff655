package domain

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/uditmishra03/carthub/pkg/errors"
)

// Cart is the shopping cart aggregate for one customer. Items are unique by
// product ID and kept in insertion order.
type Cart struct {
	customerID string
	items      []CartItem
}

// NewCart returns an empty cart for the customer.
func NewCart(customerID string) *Cart {
	return &Cart{
		customerID: customerID,
		items:      []CartItem{},
	}
}

// CustomerID returns the owner of the cart.
func (c *Cart) CustomerID() string { return c.customerID }

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// AddItem merges item into the cart. For an existing product the quantities
// are summed and price and name are replaced by the incoming values;
// otherwise the item is appended. A merge that would push the quantity past
// MaxQuantity fails and leaves the cart unchanged.
func (c *Cart) AddItem(item CartItem) error {
	if i := c.indexOf(item.productID); i >= 0 {
		existing := &c.items[i]
		if existing.quantity > MaxQuantity-item.quantity {
			return newValidationError("quantity", MsgQuantityTooLarge)
		}
		existing.quantity += item.quantity
		existing.price = item.price
		existing.productName = item.productName
		return nil
	}
	c.items = append(c.items, item)
	return nil
}

// GetItemByProductID returns the line for productID, if any.
func (c *Cart) GetItemByProductID(productID string) (CartItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return CartItem{}, false
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op. It reports whether anything was removed.
func (c *Cart) RemoveItem(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// UpdateItemQuantity sets the quantity for productID. A quantity of zero or
// less removes the line.
func (c *Cart) UpdateItemQuantity(productID string, quantity int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return apperrors.NotFound("cart item", productID)
	}
	if quantity <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	return c.items[i].UpdateQuantity(quantity)
}

// Clear drops every item.
func (c *Cart) Clear() {
	c.items = []CartItem{}
}

// TotalItems returns the sum of all item quantities.
func (c *Cart) TotalItems() int {
	var n int
	for _, item := range c.items {
		n += item.quantity
	}
	return n
}

// Subtotal returns the sum of all item subtotals.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.items {
		if c.items[i].productID == productID {
			return i
		}
	}
	return -1
}

// CartSnapshot is the serialized form of a cart returned to callers.
type CartSnapshot struct {
	CustomerID string         `json:"customer_id"`
	TotalItems int            `json:"total_items"`
	Subtotal   string         `json:"subtotal"`
	Items      []ItemSnapshot `json:"items"`
}

// Snapshot renders the cart and its derived totals.
func (c *Cart) Snapshot() CartSnapshot {
	items := make([]ItemSnapshot, len(c.items))
	for i, item := range c.items {
		items[i] = item.Snapshot()
	}
	return CartSnapshot{
		CustomerID: c.customerID,
		TotalItems: c.TotalItems(),
		Subtotal:   FormatMoney(c.Subtotal()),
		Items:      items,
	}
}
