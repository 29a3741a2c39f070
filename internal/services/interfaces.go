package services

import (
	"context"
	"errors"
	"time"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/repositories"
)

// Type aliases expose domain models to the services package without reversing
// dependency direction.
type (
	Pagination         = domain.Pagination
	Attribute          = domain.Attribute
	ValueTuple         = domain.ValueTuple
	Variant            = domain.Variant
	Product            = domain.Product
	Cart               = domain.Cart
	CartLine           = domain.CartLine
	CartTotals         = domain.CartTotals
	ShippingPolicy     = domain.ShippingPolicy
	Address            = domain.Address
	Order              = domain.Order
	OrderStatus        = domain.OrderStatus
	OrderLineItem      = domain.OrderLineItem
	FulfillmentLine    = domain.FulfillmentLine
	StockEvent         = domain.StockEvent
	SystemHealthReport = domain.SystemHealthReport
)

// CatalogService manages products and their variant matrices for storefront
// and admin operations.
type CatalogService interface {
	ListProducts(ctx context.Context, filter ProductListFilter) (domain.CursorPage[Product], error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	CreateProduct(ctx context.Context, cmd SaveProductCommand) (Product, error)
	UpdateProduct(ctx context.Context, productID string, cmd SaveProductCommand) (Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	PreviewVariants(ctx context.Context, cmd PreviewVariantsCommand) ([]Variant, error)
}

// CartService manages per-user cart state while enforcing stock ceilings.
type CartService interface {
	GetCart(ctx context.Context, userID string) (CartView, error)
	AddItem(ctx context.Context, cmd AddCartItemCommand) (CartView, error)
	UpdateItemQuantity(ctx context.Context, cmd UpdateCartItemCommand) (CartView, error)
	RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (CartView, error)
	ClearCart(ctx context.Context, userID string) error
}

// CheckoutService turns a cart into an order, decrements stock, and clears
// the cart.
type CheckoutService interface {
	SubmitOrder(ctx context.Context, cmd SubmitOrderCommand) (Order, error)
}

// OrderService encapsulates order read and status transition flows.
type OrderService interface {
	GetOrder(ctx context.Context, orderID string) (Order, error)
	ListOrders(ctx context.Context, filter OrderListFilter) (domain.CursorPage[Order], error)
	TransitionStatus(ctx context.Context, cmd OrderStatusCommand) (Order, error)
	CancelOrder(ctx context.Context, orderID string) (Order, error)
}

// InventoryService applies stock decrements when orders are fulfilled and
// answers availability questions for a product snapshot.
type InventoryService interface {
	ApplyFulfillment(ctx context.Context, cmd FulfillmentCommand) ([]StockEvent, error)
	Availability(ctx context.Context, productID string, selection ValueTuple) (AvailabilityReport, error)
}

// SystemService aggregates utility endpoints such as health checks.
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}

// StockEventMessage is the wire payload published after a stock adjustment.
type StockEventMessage struct {
	ProductID  string            `json:"productId"`
	VariantID  string            `json:"variantId,omitempty"`
	Selection  map[string]string `json:"selection,omitempty"`
	Delta      int               `json:"delta"`
	Remaining  int               `json:"remaining"`
	OrderRef   string            `json:"orderRef,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// StockEventPublisher accepts stock change notifications for downstream
// processing.
type StockEventPublisher interface {
	PublishStockEvent(ctx context.Context, message StockEventMessage) (string, error)
}

// Command and DTO definitions ------------------------------------------------

// ProductListFilter narrows product listings.
type ProductListFilter struct {
	Category   string
	Featured   *bool
	Pagination Pagination
}

// SaveProductCommand carries the writable product fields for create/update.
type SaveProductCommand struct {
	Name        string
	Description string
	Category    string
	Images      []string
	BasePrice   int64
	BaseStock   int
	Attributes  []Attribute
	Variants    []Variant
	Featured    bool
}

// PreviewVariantsCommand asks for the variant matrix a set of attributes
// would produce, reconciled against an optional existing product.
type PreviewVariantsCommand struct {
	ProductID  string
	Attributes []Attribute
}

// CartView couples the persisted cart lines with derived totals.
type CartView struct {
	Cart   Cart
	Totals CartTotals
}

// AddCartItemCommand adds quantity units of a product selection to a cart.
type AddCartItemCommand struct {
	UserID    string
	ProductID string
	Quantity  int
	Selection ValueTuple
}

// UpdateCartItemCommand shifts an existing line quantity by Delta.
type UpdateCartItemCommand struct {
	UserID    string
	ProductID string
	Delta     int
	Selection ValueTuple
}

// RemoveCartItemCommand drops the line matching the product and selection.
type RemoveCartItemCommand struct {
	UserID    string
	ProductID string
	Selection ValueTuple
}

// SubmitOrderCommand captures the checkout submission.
type SubmitOrderCommand struct {
	UserID          string
	ShippingAddress Address
}

// OrderListFilter narrows order listings.
type OrderListFilter struct {
	UserID     string
	Status     []OrderStatus
	Pagination Pagination
}

// OrderStatusCommand requests an order status transition.
type OrderStatusCommand struct {
	OrderID string
	Status  OrderStatus
}

// FulfillmentCommand decrements stock for the given lines.
type FulfillmentCommand struct {
	OrderRef string
	Lines    []FulfillmentLine
}

// AvailabilityReport answers stock and selectability for one selection.
type AvailabilityReport struct {
	ProductID string
	Selection ValueTuple
	Stock     int
	InStock   bool
}

func isRepoNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}

func isRepoConflict(err error) bool {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsConflict()
	}
	return false
}
