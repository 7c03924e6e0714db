package cart

import "errors"

// ErrInvalidQuantity is returned when adding a line with a non-positive quantity
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Line is one product entry in a cart. UnitPrice is snapshotted from the
// catalog when the line is first added and kept across quantity merges.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Notes     string `json:"notes"`
}

// Subtotal returns quantity x unit price for this line
func (l Line) Subtotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// Cart holds the ordered working set of lines for an order being composed.
// At most one line exists per product ID.
type Cart struct {
	lines []Line
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add appends a line for the product, or merges into the existing line:
// quantities accumulate, notes are overwritten with the latest value, and the
// original unit price snapshot is kept.
func (c *Cart) Add(productID string, quantity int, unitPrice int64, notes string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity += quantity
			c.lines[i].Notes = notes
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Notes:     notes,
	})
	return nil
}

// Remove deletes the line for the product if present; absent is a no-op
func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the quantity of an existing line. A non-positive
// quantity behaves exactly like Remove. An unknown product ID is a no-op and
// never creates a line.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart unconditionally
func (c *Cart) Clear() {
	c.lines = nil
}

// Total recomputes the cart total on every call. The total is never cached,
// so it cannot drift from the lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy of the current lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no lines
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}
