package domain

import (
	"errors"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestFingerprintCanonicalizesSelectionOrder(t *testing.T) {
	a := Fingerprint("prod-1", ValueTuple{"Size": "S", "Color": "Black"})
	b := Fingerprint("prod-1", ValueTuple{"Color": "Black", "Size": "S"})
	if a != b {
		t.Fatalf("expected order-insensitive fingerprints, got %q vs %q", a, b)
	}

	c := Fingerprint("prod-1", ValueTuple{"Size": "M", "Color": "Black"})
	if a == c {
		t.Fatal("expected different selections to fingerprint differently")
	}

	if got := Fingerprint("prod-1", nil); got != "prod-1" {
		t.Fatalf("expected bare product id for empty selection, got %q", got)
	}
}

func TestLedgerAddMergesEqualSelections(t *testing.T) {
	p := variantProduct()
	sel := ValueTuple{"Size": "S", "Color": "Black"}
	ledger := NewLedger(Cart{}, fixedClock())

	if err := ledger.Add(p, 1, sel); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := ledger.Add(p, 2, ValueTuple{"Color": "Black", "Size": "S"}); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	lines := ledger.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected equal selections to merge into one line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", lines[0].Quantity)
	}
}

func TestLedgerAddKeepsDistinctSelectionsApart(t *testing.T) {
	p := variantProduct()
	ledger := NewLedger(Cart{}, fixedClock())

	if err := ledger.Add(p, 1, ValueTuple{"Size": "S", "Color": "Black"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := ledger.Add(p, 1, ValueTuple{"Size": "M", "Color": "White"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if got := len(ledger.Lines()); got != 2 {
		t.Fatalf("expected distinct selections on separate lines, got %d", got)
	}
}

func TestLedgerAddEnforcesStockCeiling(t *testing.T) {
	p := variantProduct()
	sel := ValueTuple{"Size": "M", "Color": "White"} // stock 2
	ledger := NewLedger(Cart{}, fixedClock())

	if err := ledger.Add(p, 3, sel); !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}
	if err := ledger.Add(p, 2, sel); err != nil {
		t.Fatalf("add at ceiling failed: %v", err)
	}
	if err := ledger.Add(p, 1, sel); !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected merge past ceiling to fail, got %v", err)
	}
	if got := ledger.Lines()[0].Quantity; got != 2 {
		t.Fatalf("expected failed add to leave quantity untouched, got %d", got)
	}
}

func TestLedgerAddRejectsNonPositiveQuantity(t *testing.T) {
	ledger := NewLedger(Cart{}, fixedClock())
	if err := ledger.Add(variantProduct(), 0, ValueTuple{"Size": "S", "Color": "Black"}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestLedgerAddSnapshotsVariantPrice(t *testing.T) {
	override := int64(15990)
	p := variantProduct()
	p.Variants[0].Price = &override
	ledger := NewLedger(Cart{}, fixedClock())

	if err := ledger.Add(p, 1, ValueTuple{"Size": "S", "Color": "Black"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := ledger.Lines()[0].UnitPrice; got != override {
		t.Fatalf("expected variant price override %d, got %d", override, got)
	}
}

func TestLedgerUpdateQuantityDeltaSemantics(t *testing.T) {
	p := variantProduct()
	sel := ValueTuple{"Size": "S", "Color": "Black"} // stock 4
	ledger := NewLedger(Cart{}, fixedClock())
	if err := ledger.Add(p, 2, sel); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := ledger.UpdateQuantity(p, 1, sel); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if got := ledger.Lines()[0].Quantity; got != 3 {
		t.Fatalf("expected quantity 3 after increment, got %d", got)
	}

	// Increment past stock leaves the line unchanged.
	if err := ledger.UpdateQuantity(p, 5, sel); err != nil {
		t.Fatalf("over-increment returned error: %v", err)
	}
	if got := ledger.Lines()[0].Quantity; got != 3 {
		t.Fatalf("expected over-increment to be ignored, got %d", got)
	}

	if err := ledger.UpdateQuantity(p, -1, sel); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if got := ledger.Lines()[0].Quantity; got != 2 {
		t.Fatalf("expected quantity 2 after decrement, got %d", got)
	}

	// A delta driving the quantity to zero or below removes the line.
	if err := ledger.UpdateQuantity(p, -2, sel); err != nil {
		t.Fatalf("removal decrement failed: %v", err)
	}
	if got := len(ledger.Lines()); got != 0 {
		t.Fatalf("expected line removal at zero, got %d lines", got)
	}

	// Adjusting a line that is no longer present does nothing.
	if err := ledger.UpdateQuantity(p, 1, sel); err != nil {
		t.Fatalf("expected no-op on missing line, got %v", err)
	}
	if got := len(ledger.Lines()); got != 0 {
		t.Fatalf("expected cart to stay empty, got %d lines", got)
	}
}

func TestLedgerRemove(t *testing.T) {
	p := variantProduct()
	sel := ValueTuple{"Size": "S", "Color": "Black"}
	ledger := NewLedger(Cart{}, fixedClock())
	if err := ledger.Add(p, 1, sel); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := ledger.Remove(p.ID, ValueTuple{"Color": "Black", "Size": "S"}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got := len(ledger.Lines()); got != 0 {
		t.Fatalf("expected empty cart after remove, got %d lines", got)
	}
	// Removing again is a harmless no-op.
	if err := ledger.Remove(p.ID, sel); err != nil {
		t.Fatalf("expected repeated remove to succeed, got %v", err)
	}
}

func TestLedgerTotals(t *testing.T) {
	policy := ShippingPolicy{FreeThreshold: 50000, FlatRate: 3500}
	p := Product{ID: "p", Name: "Mug", BasePrice: 20000, BaseStock: 10}
	ledger := NewLedger(Cart{}, fixedClock())

	if got := ledger.Totals(policy); got.Shipping != 0 || got.Total != 0 || got.ItemCount != 0 {
		t.Fatalf("expected zeroed totals for empty cart, got %+v", got)
	}

	if err := ledger.Add(p, 2, nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	got := ledger.Totals(policy)
	if got.Subtotal != 40000 || got.Shipping != 3500 || got.Total != 43500 || got.ItemCount != 2 {
		t.Fatalf("expected flat-rate shipping below threshold, got %+v", got)
	}

	if err := ledger.UpdateQuantity(p, 1, nil); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	got = ledger.Totals(policy)
	if got.Subtotal != 60000 || got.Shipping != 0 || got.Total != 60000 || got.ItemCount != 3 {
		t.Fatalf("expected free shipping at threshold, got %+v", got)
	}
}

func TestLedgerSnapshotRoundTrip(t *testing.T) {
	p := variantProduct()
	clock := fixedClock()
	ledger := NewLedger(Cart{}, clock)
	if err := ledger.Add(p, 1, ValueTuple{"Size": "S", "Color": "Black"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	snap := ledger.Snapshot("user-1")
	if snap.UserID != "user-1" || len(snap.Lines) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.UpdatedAt.Equal(clock()) {
		t.Fatalf("expected snapshot timestamp from clock, got %v", snap.UpdatedAt)
	}

	reloaded := NewLedger(snap, clock)
	if got := len(reloaded.Lines()); got != 1 {
		t.Fatalf("expected reloaded ledger to carry the line, got %d", got)
	}
}
