package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/vetdesk/posapi/pkg/errors"
)

// CartLine is one product variant held in an active, unsubmitted sale.
// UnitPrice and MaxStock are snapshots taken when the line was added; a
// catalog price change mid-session does not reprice the line.
type CartLine struct {
	VariantID   string
	ProductID   string
	ProductName string
	VariantName string
	Barcode     string
	UnitPrice   decimal.Decimal
	Quantity    int
	MaxStock    int
}

// LineTotal returns UnitPrice * Quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered set of lines for one register session. Lines are unique
// by variant ID and every line satisfies 1 <= Quantity <= MaxStock; operations
// that would break either bound are rejected without mutating the cart.
type Cart struct {
	lines    []CartLine
	currency currency.Unit
}

// NewCart creates an empty cart priced in the given currency
func NewCart(unit currency.Unit) *Cart {
	return &Cart{currency: unit}
}

// Add puts a variant into the cart. If a line for the variant already exists
// its quantity is incremented by one, subject to the line's stock ceiling.
// A new line requires the variant to have stock and starts at quantity one.
func (c *Cart) Add(v Variant) error {
	for i := range c.lines {
		if c.lines[i].VariantID != v.ID {
			continue
		}
		next := c.lines[i].Quantity + 1
		if next > c.lines[i].MaxStock {
			return &errors.ErrStockExceeded{
				VariantID: v.ID,
				Requested: next,
				MaxStock:  c.lines[i].MaxStock,
			}
		}
		c.lines[i].Quantity = next
		return nil
	}

	if v.Stock < 1 {
		return &errors.ErrNotInStock{VariantID: v.ID}
	}
	c.lines = append(c.lines, CartLine{
		VariantID:   v.ID,
		ProductID:   v.ProductID,
		ProductName: v.ProductName,
		VariantName: v.VariantName,
		Barcode:     v.Barcode,
		UnitPrice:   v.SellPrice,
		Quantity:    1,
		MaxStock:    v.Stock,
	})
	return nil
}

// UpdateQuantity adds delta to a line's quantity. A result of zero or less
// removes the line; a result above the stock ceiling is rejected and the
// line is left unchanged.
func (c *Cart) UpdateQuantity(variantID string, delta int) error {
	for i := range c.lines {
		if c.lines[i].VariantID != variantID {
			continue
		}
		next := c.lines[i].Quantity + delta
		if next <= 0 {
			c.removeAt(i)
			return nil
		}
		if next > c.lines[i].MaxStock {
			return &errors.ErrStockExceeded{
				VariantID: variantID,
				Requested: next,
				MaxStock:  c.lines[i].MaxStock,
			}
		}
		c.lines[i].Quantity = next
		return nil
	}
	return &errors.ErrNotFound{Resource: "cart line", ID: variantID}
}

// SetQuantity sets a line's quantity from a raw user entry. Unparseable or
// non-positive entries are rejected. Entries above the stock ceiling are
// clamped down to the ceiling and the stock-exceeded condition is returned
// alongside the (mutated) result so callers can warn the user.
// The returned quantity is the line's quantity after the call.
func (c *Cart) SetQuantity(variantID, raw string) (int, error) {
	for i := range c.lines {
		if c.lines[i].VariantID != variantID {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || qty <= 0 {
			return c.lines[i].Quantity, &errors.ErrInvalidQuantity{Raw: raw}
		}
		if qty > c.lines[i].MaxStock {
			c.lines[i].Quantity = c.lines[i].MaxStock
			return c.lines[i].Quantity, &errors.ErrStockExceeded{
				VariantID: variantID,
				Requested: qty,
				MaxStock:  c.lines[i].MaxStock,
			}
		}
		c.lines[i].Quantity = qty
		return qty, nil
	}
	return 0, &errors.ErrNotFound{Resource: "cart line", ID: variantID}
}

// Remove deletes a line. Removing an absent variant is a no-op.
func (c *Cart) Remove(variantID string) {
	for i := range c.lines {
		if c.lines[i].VariantID == variantID {
			c.removeAt(i)
			return
		}
	}
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Line returns a copy of the line for the variant, if present
func (c *Cart) Line(variantID string) (CartLine, bool) {
	for _, l := range c.lines {
		if l.VariantID == variantID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total returns the sum of UnitPrice * Quantity over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// ItemCount returns the sum of quantities over all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// Empty reports whether the cart has no lines
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Clear drops all lines, returning the cart to its session-start state
func (c *Cart) Clear() {
	c.lines = nil
}

// Currency returns the display currency the cart was opened with
func (c *Cart) Currency() currency.Unit {
	return c.currency
}
