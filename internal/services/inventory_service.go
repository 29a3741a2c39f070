package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/repositories"
)

var (
	errInventoryRepositoryRequired = errors.New("inventory service: product repository is required")
	errInventoryClockRequired      = errors.New("inventory service: clock is required")
)

// ErrInventoryInvalidInput indicates the caller supplied invalid input.
var ErrInventoryInvalidInput = errors.New("inventory service: invalid input")

// ErrInventoryNotFound indicates the referenced product does not exist.
var ErrInventoryNotFound = errors.New("inventory service: product not found")

// ErrInventoryUnavailable indicates the inventory backend cannot fulfil the request.
var ErrInventoryUnavailable = errors.New("inventory service: unavailable")

// InventoryServiceDeps wires the product repository and the optional event
// publisher for stock adjustments.
type InventoryServiceDeps struct {
	Products  repositories.ProductRepository
	Publisher StockEventPublisher
	Clock     func() time.Time
	Logger    func(context.Context, string, map[string]any)
}

type inventoryService struct {
	products  repositories.ProductRepository
	publisher StockEventPublisher
	now       func() time.Time
	logger    func(context.Context, string, map[string]any)
}

var _ InventoryService = (*inventoryService)(nil)

// NewInventoryService constructs an InventoryService enforcing dependency
// validation. A nil publisher disables stock event emission.
func NewInventoryService(deps InventoryServiceDeps) (InventoryService, error) {
	if deps.Products == nil {
		return nil, errInventoryRepositoryRequired
	}
	if deps.Clock == nil {
		return nil, errInventoryClockRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &inventoryService{
		products:  deps.Products,
		publisher: deps.Publisher,
		now:       func() time.Time { return deps.Clock().UTC() },
		logger:    logger,
	}, nil
}

// ApplyFulfillment decrements stock for every fulfillment line, flooring at
// zero. Variant products decrement the matched variant only; simple products
// decrement the base stock. Lines whose selection matches no variant are
// skipped rather than failing the whole fulfillment.
func (s *inventoryService) ApplyFulfillment(ctx context.Context, cmd FulfillmentCommand) ([]StockEvent, error) {
	if len(cmd.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines", ErrInventoryInvalidInput)
	}
	for _, line := range cmd.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, fmt.Errorf("%w: line missing product id", ErrInventoryInvalidInput)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", ErrInventoryInvalidInput)
		}
	}

	now := s.now()
	events := make([]StockEvent, 0, len(cmd.Lines))

	for _, line := range cmd.Lines {
		event, err := s.applyLine(ctx, line, cmd.OrderRef, now)
		if err != nil {
			return events, err
		}
		if event == nil {
			continue
		}
		events = append(events, *event)
	}

	s.publishEvents(ctx, events)
	return events, nil
}

func (s *inventoryService) applyLine(ctx context.Context, line FulfillmentLine, orderRef string, now time.Time) (*StockEvent, error) {
	product, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrInventoryNotFound, line.ProductID)
		}
		return nil, ErrInventoryUnavailable
	}

	var event StockEvent
	if product.HasVariants() {
		matched := -1
		for i := range product.Variants {
			if product.Variants[i].Values.Equal(line.Selection) {
				matched = i
				break
			}
		}
		if matched < 0 {
			s.logger(ctx, "inventory.unmatched_selection", map[string]any{
				"productID": product.ID,
				"orderRef":  orderRef,
			})
			return nil, nil
		}
		variant := &product.Variants[matched]
		applied := min(line.Quantity, variant.Stock)
		variant.Stock -= applied
		event = StockEvent{
			ProductID:  product.ID,
			VariantID:  variant.ID,
			Selection:  variant.Values.Clone(),
			Delta:      -applied,
			Remaining:  variant.Stock,
			OrderRef:   orderRef,
			OccurredAt: now,
		}
	} else {
		applied := min(line.Quantity, product.BaseStock)
		product.BaseStock -= applied
		event = StockEvent{
			ProductID:  product.ID,
			Delta:      -applied,
			Remaining:  product.BaseStock,
			OrderRef:   orderRef,
			OccurredAt: now,
		}
	}

	if _, err := s.products.UpdateVariantStock(ctx, product.ID, product.BaseStock, product.Variants, now); err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrInventoryNotFound, product.ID)
		}
		return nil, ErrInventoryUnavailable
	}
	return &event, nil
}

// publishEvents is best effort. A publish failure is logged and never fails
// the fulfillment that already persisted.
func (s *inventoryService) publishEvents(ctx context.Context, events []StockEvent) {
	if s.publisher == nil {
		return
	}
	for _, event := range events {
		msg := StockEventMessage{
			ProductID:  event.ProductID,
			VariantID:  event.VariantID,
			Selection:  map[string]string(event.Selection),
			Delta:      event.Delta,
			Remaining:  event.Remaining,
			OrderRef:   event.OrderRef,
			OccurredAt: event.OccurredAt,
		}
		if _, err := s.publisher.PublishStockEvent(ctx, msg); err != nil {
			s.logger(ctx, "inventory.publish_failed", map[string]any{
				"productID": event.ProductID,
				"error":     err.Error(),
			})
		}
	}
}

func (s *inventoryService) Availability(ctx context.Context, productID string, selection ValueTuple) (AvailabilityReport, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return AvailabilityReport{}, ErrInventoryInvalidInput
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return AvailabilityReport{}, fmt.Errorf("%w: %s", ErrInventoryNotFound, id)
		}
		return AvailabilityReport{}, ErrInventoryUnavailable
	}

	normalized := normalizeSelection(selection)
	var stock int
	switch {
	case !product.HasVariants():
		stock = product.BaseStock
	case len(normalized) == 0:
		stock = product.AggregateStock()
	default:
		stock = domain.NewInventoryIndex(product).StockFor(normalized)
	}

	return AvailabilityReport{
		ProductID: product.ID,
		Selection: normalized,
		Stock:     stock,
		InStock:   stock > 0,
	}, nil
}
