package domain

import "slices"

// Item is the catalog snapshot a line is built from. Price and stock are
// frozen at the time the item was added.
type Item struct {
	ProductID string
	Name      string
	Price     int64
	Stock     int
}

type Line struct {
	Item     Item
	Quantity int
}

func (l Line) Subtotal() int64 {
	return l.Item.Price * int64(l.Quantity)
}

// Cart holds at most one line per product, in insertion order. The zero value
// is an empty cart.
type Cart struct {
	AccountID string
	lines     []Line
}

func New(accountID string) *Cart {
	return &Cart{AccountID: accountID}
}

func (c *Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.Item.ProductID == productID })
}

// Add puts one more unit of item in the cart and reports whether it did. An
// item that is out of stock, or already at its stock cap, is not added.
//
// For an existing line the stock ceiling follows the fresher snapshot while
// name and price stay as first captured; if stock dropped below the line's
// quantity the line is clamped down to it.
func (c *Cart) Add(item Item) bool {
	idx := c.indexOf(item.ProductID)
	if idx < 0 {
		if item.Stock < 1 {
			return false
		}
		c.lines = append(c.lines, Line{Item: item, Quantity: 1})
		return true
	}

	line := &c.lines[idx]
	line.Item.Stock = item.Stock
	if line.Quantity >= item.Stock {
		c.SetQuantity(item.ProductID, item.Stock)
		return false
	}
	line.Quantity++
	return true
}

// SetQuantity removes the line when qty < 1 and otherwise clamps qty to the
// line's stock. Unknown products are ignored.
func (c *Cart) SetQuantity(productID string, qty int) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	if qty < 1 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
		return
	}
	c.lines[idx].Quantity = min(qty, c.lines[idx].Item.Stock)
	if c.lines[idx].Quantity < 1 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
	}
}

func (c *Cart) Remove(productID string) {
	if idx := c.indexOf(productID); idx >= 0 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Quantity(productID string) int {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.lines[idx].Quantity
	}
	return 0
}

func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Clone returns an independent copy.
func (c *Cart) Clone() *Cart {
	return &Cart{AccountID: c.AccountID, lines: slices.Clone(c.lines)}
}
