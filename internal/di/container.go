package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitrina-store/api/internal/platform/config"
	"github.com/vitrina-store/api/internal/repositories"
	"github.com/vitrina-store/api/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon.
// Concrete implementations are assembled via dependency injection in
// NewContainer.
type Services struct {
	Catalog   services.CatalogService
	Cart      services.CartService
	Checkout  services.CheckoutService
	Orders    services.OrderService
	Inventory services.InventoryService
	System    services.SystemService
}

// Container wires repositories and services for runtime use.
type Container struct {
	Config       config.Config
	Repositories repositories.Registry
	Services     Services
}

// ContainerOption customises container construction.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	publisher services.StockEventPublisher
	build     services.BuildInfo
	clock     func() time.Time
	logger    func(context.Context, string, map[string]any)
}

// WithStockEventPublisher injects the publisher used to emit stock change
// events. Leaving it unset disables emission.
func WithStockEventPublisher(publisher services.StockEventPublisher) ContainerOption {
	return func(cfg *containerConfig) {
		cfg.publisher = publisher
	}
}

// WithBuildInfo records the build metadata surfaced by the system service.
func WithBuildInfo(build services.BuildInfo) ContainerOption {
	return func(cfg *containerConfig) {
		cfg.build = build
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) ContainerOption {
	return func(cfg *containerConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithServiceLogger injects the structured event logger shared by the
// services.
func WithServiceLogger(logger func(context.Context, string, map[string]any)) ContainerOption {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// NewContainer constructs the runtime dependencies. Production wiring
// provides the Firestore-backed registry, while tests can supply in-memory
// fakes.
func NewContainer(ctx context.Context, cfg config.Config, reg repositories.Registry, opts ...ContainerOption) (*Container, error) {
	if reg == nil {
		return nil, errors.New("repositories registry is required")
	}

	options := containerConfig{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.build.StartedAt.IsZero() {
		options.build.StartedAt = options.clock().UTC()
	}

	svc, err := buildServices(reg, cfg, options)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Repositories: reg,
		Services:     svc,
	}, nil
}

// Close releases resources such as repository clients.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Repositories == nil {
		return nil
	}
	return c.Repositories.Close(ctx)
}

func buildServices(reg repositories.Registry, cfg config.Config, options containerConfig) (Services, error) {
	var svc Services

	shipping := services.ShippingPolicy{
		FreeThreshold: cfg.Shipping.FreeThreshold,
		FlatRate:      cfg.Shipping.FlatRate,
	}

	catalogSvc, err := services.NewCatalogService(services.CatalogServiceDeps{
		Repository: reg.Products(),
		Clock:      options.clock,
		Logger:     options.logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build catalog service: %w", err)
	}
	svc.Catalog = catalogSvc

	var publisher services.StockEventPublisher
	if cfg.Features.EnableStockEvents {
		publisher = options.publisher
	}
	inventorySvc, err := services.NewInventoryService(services.InventoryServiceDeps{
		Products:  reg.Products(),
		Publisher: publisher,
		Clock:     options.clock,
		Logger:    options.logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build inventory service: %w", err)
	}
	svc.Inventory = inventorySvc

	cartSvc, err := services.NewCartService(services.CartServiceDeps{
		Carts:    reg.Carts(),
		Products: reg.Products(),
		Shipping: shipping,
		Clock:    options.clock,
		Logger:   options.logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build cart service: %w", err)
	}
	svc.Cart = cartSvc

	orderSvc, err := services.NewOrderService(services.OrderServiceDeps{
		Orders: reg.Orders(),
		Clock:  options.clock,
		Logger: options.logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build order service: %w", err)
	}
	svc.Orders = orderSvc

	checkoutSvc, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Carts:     reg.Carts(),
		Orders:    reg.Orders(),
		Inventory: svc.Inventory,
		Shipping:  shipping,
		Clock:     options.clock,
		Logger:    options.logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build checkout service: %w", err)
	}
	svc.Checkout = checkoutSvc

	if healthRepo := reg.Health(); healthRepo != nil {
		systemSvc, err := services.NewSystemService(services.SystemServiceDeps{
			HealthRepository: healthRepo,
			Clock:            options.clock,
			Build:            options.build,
		})
		if err != nil {
			return Services{}, fmt.Errorf("build system service: %w", err)
		}
		svc.System = systemSvc
	}

	return svc, nil
}
