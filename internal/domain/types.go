package domain

import (
	"time"
)

// Pagination defines standard cursor-based paging inputs for list operations.
type Pagination struct {
	PageSize  int
	PageToken string
}

// CursorPage carries one page of results plus the opaque token for the next
// page. An empty token means the listing is exhausted.
type CursorPage[T any] struct {
	Items         []T
	NextPageToken string
}

// Attribute is a named axis of product variation ("Size", "Color") with an
// ordered list of selectable option values.
type Attribute struct {
	Name    string
	Options []string
}

// Degenerate reports whether the attribute contributes no combinations,
// either because it has no name or because it has no options.
func (a Attribute) Degenerate() bool {
	return a.Name == "" || len(a.Options) == 0
}

// ValueTuple maps attribute names to the single option chosen for each.
// A nil or empty tuple represents "no selection".
type ValueTuple map[string]string

// Equal reports whether both tuples carry the same key set with identical
// values per key.
func (t ValueTuple) Equal(other ValueTuple) bool {
	if len(t) != len(other) {
		return false
	}
	for k, v := range t {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the tuple. Nil stays nil.
func (t ValueTuple) Clone() ValueTuple {
	if t == nil {
		return nil
	}
	dup := make(ValueTuple, len(t))
	for k, v := range t {
		dup[k] = v
	}
	return dup
}

// Variant is one persisted attribute combination with its own stock counter
// and an optional price override. A nil Price means the product base price
// applies.
type Variant struct {
	ID     string
	Values ValueTuple
	Stock  int
	Price  *int64
}

// UnitPrice resolves the effective unit price for the variant given the
// product base price.
func (v Variant) UnitPrice(basePrice int64) int64 {
	if v.Price != nil {
		return *v.Price
	}
	return basePrice
}

// Product is the catalog aggregate. Monetary amounts are minor currency
// units.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Images      []string
	BasePrice   int64
	BaseStock   int
	Attributes  []Attribute
	Variants    []Variant
	Rating      float64
	Reviews     int
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasVariants reports whether per-combination stock tracking is in effect.
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// AggregateStock returns the displayed stock figure: the base stock for a
// simple product, otherwise the sum over all variant counters.
func (p Product) AggregateStock() int {
	if !p.HasVariants() {
		return p.BaseStock
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// FindVariant locates the variant whose value tuple equals the selection.
func (p Product) FindVariant(sel ValueTuple) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Values.Equal(sel) {
			return v, true
		}
	}
	return Variant{}, false
}

// CartLine is one (product, selection) entry in a cart. UnitPrice is a
// snapshot taken when the line was created.
type CartLine struct {
	ProductID   string
	ProductName string
	Selection   ValueTuple
	Quantity    int
	UnitPrice   int64
	ImageURL    string
	AddedAt     time.Time
}

// Cart is the persisted shape of a user's cart. The Ledger owns all mutation
// of Lines; hosts only load and save.
type Cart struct {
	UserID    string
	Lines     []CartLine
	UpdatedAt time.Time
}

// CartTotals carries the derived figures recomputed on every read.
type CartTotals struct {
	Subtotal  int64
	Shipping  int64
	Total     int64
	ItemCount int
}

// ShippingPolicy is the threshold-based flat-rate-or-free shipping rule.
type ShippingPolicy struct {
	FreeThreshold int64
	FlatRate      int64
}

// Address is the shipping destination captured at checkout.
type Address struct {
	Street  string
	City    string
	ZipCode string
	Country string
}

// OrderStatus enumerates order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether the value is one of the known states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLineItem mirrors a cart line at the moment of submission.
type OrderLineItem struct {
	ProductID   string
	ProductName string
	Selection   ValueTuple
	Quantity    int
	UnitPrice   int64
}

// Order is the submitted purchase aggregate.
type Order struct {
	ID              string
	UserID          string
	Status          OrderStatus
	Items           []OrderLineItem
	Totals          CartTotals
	ShippingAddress Address
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FulfillmentLine identifies one stock decrement requested when an order is
// fulfilled.
type FulfillmentLine struct {
	ProductID string
	Selection ValueTuple
	Quantity  int
}

// StockEvent captures a stock adjustment for downstream analytics and audit.
type StockEvent struct {
	ProductID  string
	VariantID  string
	Selection  ValueTuple
	Delta      int
	Remaining  int
	OrderRef   string
	OccurredAt time.Time
}
