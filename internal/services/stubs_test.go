package services

import (
	"context"
	"time"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/repositories"
)

type repositoryErrorStub struct {
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *repositoryErrorStub) Error() string {
	return "repository error"
}

func (e *repositoryErrorStub) IsNotFound() bool {
	return e.notFound
}

func (e *repositoryErrorStub) IsConflict() bool {
	return e.conflict
}

func (e *repositoryErrorStub) IsUnavailable() bool {
	return e.unavailable
}

type stubProductRepository struct {
	insertFunc             func(ctx context.Context, product domain.Product) error
	updateFunc             func(ctx context.Context, product domain.Product) error
	deleteFunc             func(ctx context.Context, productID string) error
	findFunc               func(ctx context.Context, productID string) (domain.Product, error)
	listFunc               func(ctx context.Context, filter repositories.ProductListFilter) (domain.CursorPage[domain.Product], error)
	updateVariantStockFunc func(ctx context.Context, productID string, baseStock int, variants []domain.Variant, updatedAt time.Time) (domain.Product, error)
}

func (s *stubProductRepository) Insert(ctx context.Context, product domain.Product) error {
	if s.insertFunc != nil {
		return s.insertFunc(ctx, product)
	}
	return nil
}

func (s *stubProductRepository) Update(ctx context.Context, product domain.Product) error {
	if s.updateFunc != nil {
		return s.updateFunc(ctx, product)
	}
	return nil
}

func (s *stubProductRepository) Delete(ctx context.Context, productID string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, productID)
	}
	return nil
}

func (s *stubProductRepository) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if s.findFunc != nil {
		return s.findFunc(ctx, productID)
	}
	return domain.Product{}, &repositoryErrorStub{notFound: true}
}

func (s *stubProductRepository) List(ctx context.Context, filter repositories.ProductListFilter) (domain.CursorPage[domain.Product], error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, filter)
	}
	return domain.CursorPage[domain.Product]{}, nil
}

func (s *stubProductRepository) UpdateVariantStock(ctx context.Context, productID string, baseStock int, variants []domain.Variant, updatedAt time.Time) (domain.Product, error) {
	if s.updateVariantStockFunc != nil {
		return s.updateVariantStockFunc(ctx, productID, baseStock, variants, updatedAt)
	}
	return domain.Product{}, nil
}

type stubCartRepository struct {
	getFunc    func(ctx context.Context, userID string) (domain.Cart, error)
	saveFunc   func(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	deleteFunc func(ctx context.Context, userID string) error
}

func (s *stubCartRepository) Get(ctx context.Context, userID string) (domain.Cart, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, userID)
	}
	return domain.Cart{}, &repositoryErrorStub{notFound: true}
}

func (s *stubCartRepository) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if s.saveFunc != nil {
		return s.saveFunc(ctx, cart)
	}
	return cart, nil
}

func (s *stubCartRepository) Delete(ctx context.Context, userID string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, userID)
	}
	return nil
}

type stubOrderRepository struct {
	insertFunc       func(ctx context.Context, order domain.Order) error
	findFunc         func(ctx context.Context, orderID string) (domain.Order, error)
	updateStatusFunc func(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) (domain.Order, error)
	listFunc         func(ctx context.Context, filter repositories.OrderListFilter) (domain.CursorPage[domain.Order], error)
}

func (s *stubOrderRepository) Insert(ctx context.Context, order domain.Order) error {
	if s.insertFunc != nil {
		return s.insertFunc(ctx, order)
	}
	return nil
}

func (s *stubOrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	if s.findFunc != nil {
		return s.findFunc(ctx, orderID)
	}
	return domain.Order{}, &repositoryErrorStub{notFound: true}
}

func (s *stubOrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
	if s.updateStatusFunc != nil {
		return s.updateStatusFunc(ctx, orderID, status, updatedAt)
	}
	return domain.Order{ID: orderID, Status: status, UpdatedAt: updatedAt}, nil
}

func (s *stubOrderRepository) List(ctx context.Context, filter repositories.OrderListFilter) (domain.CursorPage[domain.Order], error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, filter)
	}
	return domain.CursorPage[domain.Order]{}, nil
}

type stubInventoryService struct {
	applyFunc        func(ctx context.Context, cmd FulfillmentCommand) ([]StockEvent, error)
	availabilityFunc func(ctx context.Context, productID string, selection ValueTuple) (AvailabilityReport, error)
}

func (s *stubInventoryService) ApplyFulfillment(ctx context.Context, cmd FulfillmentCommand) ([]StockEvent, error) {
	if s.applyFunc != nil {
		return s.applyFunc(ctx, cmd)
	}
	return nil, nil
}

func (s *stubInventoryService) Availability(ctx context.Context, productID string, selection ValueTuple) (AvailabilityReport, error) {
	if s.availabilityFunc != nil {
		return s.availabilityFunc(ctx, productID, selection)
	}
	return AvailabilityReport{}, nil
}

type capturePublisher struct {
	messages []StockEventMessage
	err      error
}

func (p *capturePublisher) PublishStockEvent(ctx context.Context, message StockEventMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, message)
	return "msg-1", nil
}
