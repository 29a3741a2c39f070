package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Cart rule violations surfaced to callers.
var (
	ErrStockExceeded   = errors.New("cart: requested quantity exceeds available stock")
	ErrInvalidQuantity = errors.New("cart: quantity must be positive")
)

// Fingerprint derives the identity of a cart line from the product and the
// canonicalized selection. Attribute order in the tuple never changes the
// result, so the same combination always lands on the same line.
func Fingerprint(productID string, sel ValueTuple) string {
	if len(sel) == 0 {
		return productID
	}
	keys := make([]string, 0, len(sel))
	for k := range sel {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(productID)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(sel[k])
	}
	return b.String()
}

// Ledger applies cart mutations against an in-memory line set while holding
// every line under the stock ceiling of its product snapshot. Hosts load a
// Cart, run operations, then persist the Snapshot.
type Ledger struct {
	lines []CartLine
	clock func() time.Time
}

// NewLedger seeds a ledger from a persisted cart. A nil clock falls back to
// time.Now in UTC.
func NewLedger(cart Cart, clock func() time.Time) *Ledger {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	lines := make([]CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	return &Ledger{lines: lines, clock: clock}
}

// Lines returns a copy of the current line set.
func (l *Ledger) Lines() []CartLine {
	out := make([]CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// Snapshot produces the persistable cart for the given user.
func (l *Ledger) Snapshot(userID string) Cart {
	return Cart{
		UserID:    userID,
		Lines:     l.Lines(),
		UpdatedAt: l.clock(),
	}
}

func (l *Ledger) find(fingerprint string) int {
	for i, line := range l.lines {
		if Fingerprint(line.ProductID, line.Selection) == fingerprint {
			return i
		}
	}
	return -1
}

// Add merges qty units of the product under the given selection into the
// cart. An existing line with the same fingerprint grows; otherwise a new
// line is appended with the current unit price snapshot. The resulting
// quantity may never exceed the stock the selection resolves to.
func (l *Ledger) Add(p Product, qty int, sel ValueTuple) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	ceiling := NewInventoryIndex(p).StockFor(sel)
	fp := Fingerprint(p.ID, sel)

	if i := l.find(fp); i >= 0 {
		if l.lines[i].Quantity+qty > ceiling {
			return ErrStockExceeded
		}
		l.lines[i].Quantity += qty
		return nil
	}

	if qty > ceiling {
		return ErrStockExceeded
	}

	unitPrice := p.BasePrice
	if v, ok := p.FindVariant(sel); ok {
		unitPrice = v.UnitPrice(p.BasePrice)
	}
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	l.lines = append(l.lines, CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		Selection:   sel.Clone(),
		Quantity:    qty,
		UnitPrice:   unitPrice,
		ImageURL:    image,
		AddedAt:     l.clock(),
	})
	return nil
}

// UpdateQuantity shifts an existing line's quantity by delta. A result at or
// below zero removes the line. An increment that would climb past the stock
// ceiling leaves the line unchanged. A missing line is a no-op.
func (l *Ledger) UpdateQuantity(p Product, delta int, sel ValueTuple) error {
	fp := Fingerprint(p.ID, sel)
	i := l.find(fp)
	if i < 0 {
		return nil
	}

	next := l.lines[i].Quantity + delta
	if next <= 0 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
		return nil
	}
	if delta > 0 {
		ceiling := NewInventoryIndex(p).StockFor(sel)
		if next > ceiling {
			return nil
		}
	}
	l.lines[i].Quantity = next
	return nil
}

// Remove drops the line matching the product and selection. Removing a line
// that is already gone does nothing, so a repeated remove is safe.
func (l *Ledger) Remove(productID string, sel ValueTuple) error {
	fp := Fingerprint(productID, sel)
	i := l.find(fp)
	if i < 0 {
		return nil
	}
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	return nil
}

// Clear empties the cart.
func (l *Ledger) Clear() {
	l.lines = nil
}

// Totals recomputes the derived cart figures. An empty cart ships for free,
// a subtotal at or above the policy threshold ships for free, everything
// else pays the flat rate.
func (l *Ledger) Totals(policy ShippingPolicy) CartTotals {
	var t CartTotals
	for _, line := range l.lines {
		t.Subtotal += int64(line.Quantity) * line.UnitPrice
		t.ItemCount += line.Quantity
	}
	switch {
	case t.ItemCount == 0:
		t.Shipping = 0
	case t.Subtotal >= policy.FreeThreshold:
		t.Shipping = 0
	default:
		t.Shipping = policy.FlatRate
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}
