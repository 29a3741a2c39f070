package domain

import "testing"

func variantProduct() Product {
	return Product{
		ID:        "prod-1",
		Name:      "Tee",
		BasePrice: 12990,
		BaseStock: 99,
		Attributes: []Attribute{
			{Name: "Size", Options: []string{"S", "M"}},
			{Name: "Color", Options: []string{"Black", "White"}},
		},
		Variants: []Variant{
			{ID: "v1", Values: ValueTuple{"Size": "S", "Color": "Black"}, Stock: 4},
			{ID: "v2", Values: ValueTuple{"Size": "S", "Color": "White"}, Stock: 0},
			{ID: "v3", Values: ValueTuple{"Size": "M", "Color": "Black"}, Stock: 0},
			{ID: "v4", Values: ValueTuple{"Size": "M", "Color": "White"}, Stock: 2},
		},
	}
}

func TestStockForSimpleProduct(t *testing.T) {
	ix := NewInventoryIndex(Product{ID: "p", BaseStock: 12})
	if got := ix.StockFor(nil); got != 12 {
		t.Fatalf("expected base stock 12, got %d", got)
	}
	if got := ix.StockFor(ValueTuple{"Size": "S"}); got != 12 {
		t.Fatalf("expected base stock regardless of selection, got %d", got)
	}
}

func TestStockForVariantProduct(t *testing.T) {
	ix := NewInventoryIndex(variantProduct())

	if got := ix.StockFor(ValueTuple{"Size": "S", "Color": "Black"}); got != 4 {
		t.Fatalf("expected matched variant stock 4, got %d", got)
	}
	if got := ix.StockFor(ValueTuple{"Size": "S"}); got != 0 {
		t.Fatalf("expected partial selection to resolve to 0, got %d", got)
	}
	if got := ix.StockFor(nil); got != 0 {
		t.Fatalf("expected empty selection to resolve to 0, got %d", got)
	}
	if got := ix.StockFor(ValueTuple{"Size": "XL", "Color": "Black"}); got != 0 {
		t.Fatalf("expected unmatched selection to resolve to 0, got %d", got)
	}
}

func TestIsSelectableCompleteSelection(t *testing.T) {
	ix := NewInventoryIndex(variantProduct())

	if !ix.IsSelectable("Color", "Black", ValueTuple{"Size": "S"}) {
		t.Fatal("expected S/Black (stock 4) to be selectable")
	}
	if ix.IsSelectable("Color", "White", ValueTuple{"Size": "S"}) {
		t.Fatal("expected S/White (stock 0) to be disabled")
	}
	if ix.IsSelectable("Color", "Black", ValueTuple{"Size": "M"}) {
		t.Fatal("expected M/Black (stock 0) to be disabled")
	}
}

func TestIsSelectablePartialSelectionUsesExistence(t *testing.T) {
	ix := NewInventoryIndex(variantProduct())

	// Nothing else chosen yet: any variant carrying the option with stock
	// keeps the option enabled.
	if !ix.IsSelectable("Color", "White", nil) {
		t.Fatal("expected White to stay enabled while Size is undecided")
	}
	if !ix.IsSelectable("Size", "M", nil) {
		t.Fatal("expected M to stay enabled while Color is undecided")
	}
}

func TestIsSelectableSimpleProduct(t *testing.T) {
	ix := NewInventoryIndex(Product{ID: "p", BaseStock: 0})
	if !ix.IsSelectable("Size", "S", nil) {
		t.Fatal("expected non-variant products to leave every option enabled")
	}
}
