package domain

// InventoryIndex answers stock and selectability questions for a single
// product snapshot. It performs no mutation; build a fresh index after the
// product changes.
type InventoryIndex struct {
	product Product
}

// NewInventoryIndex wraps a product snapshot for stock lookups.
func NewInventoryIndex(p Product) InventoryIndex {
	return InventoryIndex{product: p}
}

// StockFor resolves the purchasable stock for a selection. Simple products
// always answer with their base stock. Variant products answer with the
// matched variant's counter, or zero when the selection is incomplete or
// matches no variant: an undecided combination is not purchasable.
func (ix InventoryIndex) StockFor(sel ValueTuple) int {
	if !ix.product.HasVariants() {
		return ix.product.BaseStock
	}
	required := 0
	for _, a := range ix.product.Attributes {
		if a.Degenerate() {
			continue
		}
		required++
	}
	if len(sel) < required {
		return 0
	}
	v, ok := ix.product.FindVariant(sel)
	if !ok {
		return 0
	}
	return v.Stock
}

// IsSelectable reports whether choosing option for attribute, on top of the
// current partial selection, can still lead to an in-stock variant. With all
// other attributes already decided the exact variant is consulted. While the
// selection is still partial, any variant carrying the option with stock
// keeps it enabled, even if that variant conflicts with other current
// choices.
func (ix InventoryIndex) IsSelectable(attribute, option string, current ValueTuple) bool {
	if !ix.product.HasVariants() {
		return true
	}

	candidate := current.Clone()
	if candidate == nil {
		candidate = ValueTuple{}
	}
	candidate[attribute] = option

	complete := true
	for _, a := range ix.product.Attributes {
		if a.Degenerate() {
			continue
		}
		if _, ok := candidate[a.Name]; !ok {
			complete = false
			break
		}
	}
	if complete {
		v, ok := ix.product.FindVariant(candidate)
		return ok && v.Stock > 0
	}

	for _, v := range ix.product.Variants {
		if v.Values[attribute] == option && v.Stock > 0 {
			return true
		}
	}
	return false
}
