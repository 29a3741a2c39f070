package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/platform/textutil"
	"github.com/vitrina-store/api/internal/repositories"
)

var (
	errCartRepositoryRequired    = errors.New("cart service: cart repository is required")
	errCartProductsRequired      = errors.New("cart service: product repository is required")
	errCartClockRequired         = errors.New("cart service: clock is required")
	errCartShippingPolicyInvalid = errors.New("cart service: shipping policy must be non-negative")
)

// ErrCartInvalidInput indicates the caller supplied invalid input.
var ErrCartInvalidInput = errors.New("cart service: invalid input")

// ErrCartProductNotFound indicates the referenced product does not exist.
var ErrCartProductNotFound = errors.New("cart service: product not found")

// ErrCartStockExceeded indicates the requested quantity exceeds available stock.
var ErrCartStockExceeded = errors.New("cart service: stock exceeded")

// ErrCartUnavailable indicates the cart backend cannot fulfil the request.
var ErrCartUnavailable = errors.New("cart service: unavailable")

// CartServiceDeps wires repositories and policy for cart operations.
type CartServiceDeps struct {
	Carts    repositories.CartRepository
	Products repositories.ProductRepository
	Shipping ShippingPolicy
	Clock    func() time.Time
	Logger   func(context.Context, string, map[string]any)
}

type cartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	shipping ShippingPolicy
	now      func() time.Time
	logger   func(context.Context, string, map[string]any)
}

var _ CartService = (*cartService)(nil)

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Carts == nil {
		return nil, errCartRepositoryRequired
	}
	if deps.Products == nil {
		return nil, errCartProductsRequired
	}
	if deps.Clock == nil {
		return nil, errCartClockRequired
	}
	if deps.Shipping.FreeThreshold < 0 || deps.Shipping.FlatRate < 0 {
		return nil, errCartShippingPolicyInvalid
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &cartService{
		carts:    deps.Carts,
		products: deps.Products,
		shipping: deps.Shipping,
		now:      func() time.Time { return deps.Clock().UTC() },
		logger:   logger,
	}, nil
}

func (s *cartService) GetCart(ctx context.Context, userID string) (CartView, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	ledger, err := s.loadLedger(ctx, uid)
	if err != nil {
		return CartView{}, err
	}
	return s.view(uid, ledger), nil
}

func (s *cartService) AddItem(ctx context.Context, cmd AddCartItemCommand) (CartView, error) {
	uid := strings.TrimSpace(cmd.UserID)
	pid := strings.TrimSpace(cmd.ProductID)
	if uid == "" || pid == "" {
		return CartView{}, ErrCartInvalidInput
	}
	if cmd.Quantity <= 0 {
		return CartView{}, fmt.Errorf("%w: quantity must be positive", ErrCartInvalidInput)
	}

	product, err := s.loadProduct(ctx, pid)
	if err != nil {
		return CartView{}, err
	}

	ledger, err := s.loadLedger(ctx, uid)
	if err != nil {
		return CartView{}, err
	}

	selection := normalizeSelection(cmd.Selection)
	if err := ledger.Add(product, cmd.Quantity, selection); err != nil {
		return CartView{}, translateLedgerError(err)
	}

	if err := s.persist(ctx, uid, ledger); err != nil {
		return CartView{}, err
	}

	s.logger(ctx, "cart.item_added", map[string]any{
		"userID":    uid,
		"productID": pid,
		"quantity":  cmd.Quantity,
	})
	return s.view(uid, ledger), nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, cmd UpdateCartItemCommand) (CartView, error) {
	uid := strings.TrimSpace(cmd.UserID)
	pid := strings.TrimSpace(cmd.ProductID)
	if uid == "" || pid == "" {
		return CartView{}, ErrCartInvalidInput
	}
	if cmd.Delta == 0 {
		return CartView{}, fmt.Errorf("%w: delta must be non-zero", ErrCartInvalidInput)
	}

	product, err := s.loadProduct(ctx, pid)
	if err != nil {
		return CartView{}, err
	}

	ledger, err := s.loadLedger(ctx, uid)
	if err != nil {
		return CartView{}, err
	}

	selection := normalizeSelection(cmd.Selection)
	if err := ledger.UpdateQuantity(product, cmd.Delta, selection); err != nil {
		return CartView{}, translateLedgerError(err)
	}

	if err := s.persist(ctx, uid, ledger); err != nil {
		return CartView{}, err
	}
	return s.view(uid, ledger), nil
}

func (s *cartService) RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (CartView, error) {
	uid := strings.TrimSpace(cmd.UserID)
	pid := strings.TrimSpace(cmd.ProductID)
	if uid == "" || pid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	ledger, err := s.loadLedger(ctx, uid)
	if err != nil {
		return CartView{}, err
	}

	selection := normalizeSelection(cmd.Selection)
	if err := ledger.Remove(pid, selection); err != nil {
		return CartView{}, translateLedgerError(err)
	}

	if err := s.persist(ctx, uid, ledger); err != nil {
		return CartView{}, err
	}
	return s.view(uid, ledger), nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ErrCartInvalidInput
	}
	if err := s.carts.Delete(ctx, uid); err != nil && !isRepoNotFound(err) {
		return ErrCartUnavailable
	}
	s.logger(ctx, "cart.cleared", map[string]any{"userID": uid})
	return nil
}

// loadLedger materializes the stored cart into a mutable ledger. A missing
// cart document yields an empty ledger rather than an error.
func (s *cartService) loadLedger(ctx context.Context, userID string) (*domain.Ledger, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if isRepoNotFound(err) {
			cart = Cart{UserID: userID}
		} else {
			return nil, ErrCartUnavailable
		}
	}
	return domain.NewLedger(cart, s.now), nil
}

func (s *cartService) loadProduct(ctx context.Context, productID string) (Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if isRepoNotFound(err) {
			return Product{}, ErrCartProductNotFound
		}
		return Product{}, ErrCartUnavailable
	}
	return product, nil
}

func (s *cartService) persist(ctx context.Context, userID string, ledger *domain.Ledger) error {
	snapshot := ledger.Snapshot(userID)
	if len(snapshot.Lines) == 0 {
		if err := s.carts.Delete(ctx, userID); err != nil && !isRepoNotFound(err) {
			return ErrCartUnavailable
		}
		return nil
	}
	if _, err := s.carts.Save(ctx, snapshot); err != nil {
		return ErrCartUnavailable
	}
	return nil
}

func (s *cartService) view(userID string, ledger *domain.Ledger) CartView {
	cart := ledger.Snapshot(userID)
	return CartView{
		Cart:   cart,
		Totals: ledger.Totals(s.shipping),
	}
}

// normalizeSelection trims whitespace from selection keys and values so
// equivalent selections fingerprint identically.
func normalizeSelection(selection ValueTuple) ValueTuple {
	if len(selection) == 0 {
		return nil
	}
	normalized := textutil.NormalizeStringMap(map[string]string(selection))
	if len(normalized) == 0 {
		return nil
	}
	return ValueTuple(normalized)
}

func translateLedgerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrStockExceeded):
		return ErrCartStockExceeded
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fmt.Errorf("%w: %s", ErrCartInvalidInput, err)
	default:
		return ErrCartUnavailable
	}
}
