package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/repositories"
)

var (
	errCheckoutCartsRequired     = errors.New("checkout service: cart repository is required")
	errCheckoutOrdersRequired    = errors.New("checkout service: order repository is required")
	errCheckoutInventoryRequired = errors.New("checkout service: inventory service is required")
	errCheckoutClockRequired     = errors.New("checkout service: clock is required")
)

// ErrCheckoutInvalidInput indicates the caller supplied invalid input.
var ErrCheckoutInvalidInput = errors.New("checkout service: invalid input")

// ErrCheckoutEmptyCart indicates the user has nothing to submit.
var ErrCheckoutEmptyCart = errors.New("checkout service: cart is empty")

// ErrCheckoutUnavailable indicates the checkout backend cannot fulfil the request.
var ErrCheckoutUnavailable = errors.New("checkout service: unavailable")

// CheckoutServiceDeps wires the repositories and services the checkout flow
// spans.
type CheckoutServiceDeps struct {
	Carts       repositories.CartRepository
	Orders      repositories.OrderRepository
	Inventory   InventoryService
	Shipping    ShippingPolicy
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

type checkoutService struct {
	carts     repositories.CartRepository
	orders    repositories.OrderRepository
	inventory InventoryService
	shipping  ShippingPolicy
	now       func() time.Time
	newID     func() string
	logger    func(context.Context, string, map[string]any)
}

var _ CheckoutService = (*checkoutService)(nil)

// NewCheckoutService constructs a CheckoutService enforcing dependency validation.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Carts == nil {
		return nil, errCheckoutCartsRequired
	}
	if deps.Orders == nil {
		return nil, errCheckoutOrdersRequired
	}
	if deps.Inventory == nil {
		return nil, errCheckoutInventoryRequired
	}
	if deps.Clock == nil {
		return nil, errCheckoutClockRequired
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &checkoutService{
		carts:     deps.Carts,
		orders:    deps.Orders,
		inventory: deps.Inventory,
		shipping:  deps.Shipping,
		now:       func() time.Time { return deps.Clock().UTC() },
		newID:     idGen,
		logger:    logger,
	}, nil
}

// SubmitOrder snapshots the cart into a pending order, decrements stock, and
// clears the cart. When the decrement fails the freshly created order is
// cancelled so no phantom pending orders survive.
func (s *checkoutService) SubmitOrder(ctx context.Context, cmd SubmitOrderCommand) (Order, error) {
	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return Order{}, ErrCheckoutInvalidInput
	}
	address, err := normalizeAddress(cmd.ShippingAddress)
	if err != nil {
		return Order{}, err
	}

	cart, err := s.carts.Get(ctx, uid)
	if err != nil {
		if isRepoNotFound(err) {
			return Order{}, ErrCheckoutEmptyCart
		}
		return Order{}, ErrCheckoutUnavailable
	}
	if len(cart.Lines) == 0 {
		return Order{}, ErrCheckoutEmptyCart
	}

	now := s.now()
	ledger := domain.NewLedger(cart, s.now)
	order := Order{
		ID:              s.newID(),
		UserID:          uid,
		Status:          domain.OrderStatusPending,
		Items:           orderItems(cart.Lines),
		Totals:          ledger.Totals(s.shipping),
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return Order{}, ErrCheckoutUnavailable
	}

	fulfillment := FulfillmentCommand{
		OrderRef: order.ID,
		Lines:    fulfillmentLines(cart.Lines),
	}
	if _, err := s.inventory.ApplyFulfillment(ctx, fulfillment); err != nil {
		s.logger(ctx, "checkout.fulfillment_failed", map[string]any{
			"orderID": order.ID,
			"error":   err.Error(),
		})
		if _, cancelErr := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled, s.now()); cancelErr != nil {
			s.logger(ctx, "checkout.compensation_failed", map[string]any{
				"orderID": order.ID,
				"error":   cancelErr.Error(),
			})
		}
		return Order{}, ErrCheckoutUnavailable
	}

	if err := s.carts.Delete(ctx, uid); err != nil && !isRepoNotFound(err) {
		s.logger(ctx, "checkout.cart_clear_failed", map[string]any{
			"orderID": order.ID,
			"userID":  uid,
		})
	}

	s.logger(ctx, "checkout.order_submitted", map[string]any{
		"orderID": order.ID,
		"userID":  uid,
		"total":   order.Totals.Total,
	})
	return order, nil
}

func normalizeAddress(addr Address) (Address, error) {
	addr.Street = strings.TrimSpace(addr.Street)
	addr.City = strings.TrimSpace(addr.City)
	addr.ZipCode = strings.TrimSpace(addr.ZipCode)
	addr.Country = strings.TrimSpace(addr.Country)
	if addr.Street == "" || addr.City == "" || addr.ZipCode == "" || addr.Country == "" {
		return Address{}, fmt.Errorf("%w: shipping address is incomplete", ErrCheckoutInvalidInput)
	}
	return addr, nil
}

func orderItems(lines []CartLine) []OrderLineItem {
	items := make([]OrderLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderLineItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Selection:   line.Selection.Clone(),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}
	return items
}

func fulfillmentLines(lines []CartLine) []FulfillmentLine {
	out := make([]FulfillmentLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, FulfillmentLine{
			ProductID: line.ProductID,
			Selection: line.Selection.Clone(),
			Quantity:  line.Quantity,
		})
	}
	return out
}
