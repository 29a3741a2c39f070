package handlers

import (
	"context"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/services"
)

type stubCatalogService struct {
	listFunc    func(context.Context, services.ProductListFilter) (domain.CursorPage[domain.Product], error)
	getFunc     func(context.Context, string) (domain.Product, error)
	createFunc  func(context.Context, services.SaveProductCommand) (domain.Product, error)
	updateFunc  func(context.Context, string, services.SaveProductCommand) (domain.Product, error)
	deleteFunc  func(context.Context, string) error
	previewFunc func(context.Context, services.PreviewVariantsCommand) ([]domain.Variant, error)
}

func (s *stubCatalogService) ListProducts(ctx context.Context, filter services.ProductListFilter) (domain.CursorPage[domain.Product], error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, filter)
	}
	return domain.CursorPage[domain.Product]{}, nil
}

func (s *stubCatalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, productID)
	}
	return domain.Product{}, services.ErrCatalogNotFound
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, cmd services.SaveProductCommand) (domain.Product, error) {
	if s.createFunc != nil {
		return s.createFunc(ctx, cmd)
	}
	return domain.Product{}, nil
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, productID string, cmd services.SaveProductCommand) (domain.Product, error) {
	if s.updateFunc != nil {
		return s.updateFunc(ctx, productID, cmd)
	}
	return domain.Product{}, nil
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, productID string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, productID)
	}
	return nil
}

func (s *stubCatalogService) PreviewVariants(ctx context.Context, cmd services.PreviewVariantsCommand) ([]domain.Variant, error) {
	if s.previewFunc != nil {
		return s.previewFunc(ctx, cmd)
	}
	return nil, nil
}

type stubCartService struct {
	getFunc    func(context.Context, string) (services.CartView, error)
	addFunc    func(context.Context, services.AddCartItemCommand) (services.CartView, error)
	updateFunc func(context.Context, services.UpdateCartItemCommand) (services.CartView, error)
	removeFunc func(context.Context, services.RemoveCartItemCommand) (services.CartView, error)
	clearFunc  func(context.Context, string) error
}

func (s *stubCartService) GetCart(ctx context.Context, userID string) (services.CartView, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, userID)
	}
	return services.CartView{Cart: domain.Cart{UserID: userID}}, nil
}

func (s *stubCartService) AddItem(ctx context.Context, cmd services.AddCartItemCommand) (services.CartView, error) {
	if s.addFunc != nil {
		return s.addFunc(ctx, cmd)
	}
	return services.CartView{}, nil
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, cmd services.UpdateCartItemCommand) (services.CartView, error) {
	if s.updateFunc != nil {
		return s.updateFunc(ctx, cmd)
	}
	return services.CartView{}, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, cmd services.RemoveCartItemCommand) (services.CartView, error) {
	if s.removeFunc != nil {
		return s.removeFunc(ctx, cmd)
	}
	return services.CartView{}, nil
}

func (s *stubCartService) ClearCart(ctx context.Context, userID string) error {
	if s.clearFunc != nil {
		return s.clearFunc(ctx, userID)
	}
	return nil
}

type stubCheckoutService struct {
	submitFunc func(context.Context, services.SubmitOrderCommand) (domain.Order, error)
}

func (s *stubCheckoutService) SubmitOrder(ctx context.Context, cmd services.SubmitOrderCommand) (domain.Order, error) {
	if s.submitFunc != nil {
		return s.submitFunc(ctx, cmd)
	}
	return domain.Order{}, nil
}

type stubOrderService struct {
	getFunc        func(context.Context, string) (domain.Order, error)
	listFunc       func(context.Context, services.OrderListFilter) (domain.CursorPage[domain.Order], error)
	transitionFunc func(context.Context, services.OrderStatusCommand) (domain.Order, error)
	cancelFunc     func(context.Context, string) (domain.Order, error)
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, orderID)
	}
	return domain.Order{}, services.ErrOrderNotFound
}

func (s *stubOrderService) ListOrders(ctx context.Context, filter services.OrderListFilter) (domain.CursorPage[domain.Order], error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, filter)
	}
	return domain.CursorPage[domain.Order]{}, nil
}

func (s *stubOrderService) TransitionStatus(ctx context.Context, cmd services.OrderStatusCommand) (domain.Order, error) {
	if s.transitionFunc != nil {
		return s.transitionFunc(ctx, cmd)
	}
	return domain.Order{}, nil
}

func (s *stubOrderService) CancelOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if s.cancelFunc != nil {
		return s.cancelFunc(ctx, orderID)
	}
	return domain.Order{}, nil
}

type stubInventoryService struct {
	applyFunc        func(context.Context, services.FulfillmentCommand) ([]domain.StockEvent, error)
	availabilityFunc func(context.Context, string, domain.ValueTuple) (services.AvailabilityReport, error)
}

func (s *stubInventoryService) ApplyFulfillment(ctx context.Context, cmd services.FulfillmentCommand) ([]domain.StockEvent, error) {
	if s.applyFunc != nil {
		return s.applyFunc(ctx, cmd)
	}
	return nil, nil
}

func (s *stubInventoryService) Availability(ctx context.Context, productID string, selection domain.ValueTuple) (services.AvailabilityReport, error) {
	if s.availabilityFunc != nil {
		return s.availabilityFunc(ctx, productID, selection)
	}
	return services.AvailabilityReport{}, nil
}

type stubSystemService struct {
	report services.SystemHealthReport
	err    error
}

func (s *stubSystemService) HealthReport(context.Context) (services.SystemHealthReport, error) {
	return s.report, s.err
}
