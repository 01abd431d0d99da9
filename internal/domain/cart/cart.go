package cart

import (
	"github.com/shopspring/decimal"

	domcatalog "example.com/storefront/internal/domain/catalog"
)

type Line struct {
	Item     domcatalog.Item
	Quantity int64
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Item.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart keeps at most one line per item id, in insertion order.
// Quantities stored in a line are always positive.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{lines: []Line{}}
}

func (c *Cart) Add(item domcatalog.Item, quantity int64) {
	if quantity <= 0 {
		return
	}
	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: quantity})
}

func (c *Cart) UpdateQuantity(itemID string, quantity int64) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	if i := c.indexOf(itemID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

func (c *Cart) Remove(itemID string) {
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Clear() {
	c.lines = []Line{}
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) TotalUnitCount() int64 {
	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(itemID string) (Line, bool) {
	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) indexOf(itemID string) int {
	for i, l := range c.lines {
		if l.Item.ID == itemID {
			return i
		}
	}
	return -1
}
