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
	errCatalogRepositoryRequired = errors.New("catalog service: repository is required")
	errCatalogClockRequired      = errors.New("catalog service: clock is required")
)

// ErrCatalogInvalidInput indicates the caller supplied invalid input.
var ErrCatalogInvalidInput = errors.New("catalog service: invalid input")

// ErrCatalogNotFound indicates the requested product does not exist.
var ErrCatalogNotFound = errors.New("catalog service: not found")

// ErrCatalogConflict indicates a concurrent write clashed with this one.
var ErrCatalogConflict = errors.New("catalog service: conflict")

// ErrCatalogUnavailable indicates the catalog backend cannot fulfil the request.
var ErrCatalogUnavailable = errors.New("catalog service: unavailable")

// ErrIncompleteVariantConfig indicates an attribute was named but given no
// options, so the variant matrix cannot be built.
var ErrIncompleteVariantConfig = errors.New("catalog service: attribute has no options")

// CatalogServiceDeps wires the repository and ambient dependencies for
// catalog operations.
type CatalogServiceDeps struct {
	Repository  repositories.ProductRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

type catalogService struct {
	repo   repositories.ProductRepository
	now    func() time.Time
	newID  func() string
	logger func(context.Context, string, map[string]any)
}

var _ CatalogService = (*catalogService)(nil)

// NewCatalogService constructs a CatalogService enforcing dependency validation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Repository == nil {
		return nil, errCatalogRepositoryRequired
	}
	if deps.Clock == nil {
		return nil, errCatalogClockRequired
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &catalogService{
		repo:   deps.Repository,
		now:    func() time.Time { return deps.Clock().UTC() },
		newID:  idGen,
		logger: logger,
	}, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter ProductListFilter) (domain.CursorPage[Product], error) {
	page, err := s.repo.List(ctx, repositories.ProductListFilter{
		Category:   strings.TrimSpace(filter.Category),
		Featured:   filter.Featured,
		Pagination: filter.Pagination,
	})
	if err != nil {
		return domain.CursorPage[Product]{}, s.translateRepoError(err)
	}
	return page, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (Product, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return Product{}, ErrCatalogInvalidInput
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Product{}, s.translateRepoError(err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, cmd SaveProductCommand) (Product, error) {
	normalized, err := s.normalizeCommand(cmd)
	if err != nil {
		return Product{}, err
	}

	now := s.now()
	product := Product{
		ID:          s.newID(),
		Name:        normalized.Name,
		Description: normalized.Description,
		Category:    normalized.Category,
		Images:      normalized.Images,
		BasePrice:   normalized.BasePrice,
		BaseStock:   normalized.BaseStock,
		Attributes:  normalized.Attributes,
		Featured:    normalized.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.Variants = s.buildVariants(normalized.Attributes, normalized.Variants)

	if err := s.repo.Insert(ctx, product); err != nil {
		return Product{}, s.translateRepoError(err)
	}

	s.logger(ctx, "catalog.product_created", map[string]any{
		"productID": product.ID,
		"variants":  len(product.Variants),
	})
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, productID string, cmd SaveProductCommand) (Product, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return Product{}, ErrCatalogInvalidInput
	}

	normalized, err := s.normalizeCommand(cmd)
	if err != nil {
		return Product{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Product{}, s.translateRepoError(err)
	}

	product := existing
	product.Name = normalized.Name
	product.Description = normalized.Description
	product.Category = normalized.Category
	product.Images = normalized.Images
	product.BasePrice = normalized.BasePrice
	product.BaseStock = normalized.BaseStock
	product.Attributes = normalized.Attributes
	product.Featured = normalized.Featured
	// Submitted variants carry the operator's stock and price edits. A
	// command without them falls back to the stored matrix.
	previous := normalized.Variants
	if len(previous) == 0 {
		previous = existing.Variants
	}
	product.Variants = s.buildVariants(normalized.Attributes, previous)
	product.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, s.translateRepoError(err)
	}

	s.logger(ctx, "catalog.product_updated", map[string]any{
		"productID": product.ID,
		"variants":  len(product.Variants),
	})
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID string) error {
	id := strings.TrimSpace(productID)
	if id == "" {
		return ErrCatalogInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err)
	}
	s.logger(ctx, "catalog.product_deleted", map[string]any{"productID": id})
	return nil
}

// PreviewVariants answers what the variant matrix would look like for the
// given attributes, reconciled against the stored product when an ID is
// supplied. Nothing is persisted.
func (s *catalogService) PreviewVariants(ctx context.Context, cmd PreviewVariantsCommand) ([]Variant, error) {
	attrs, err := normalizeAttributes(cmd.Attributes)
	if err != nil {
		return nil, err
	}

	var previous []Variant
	if id := strings.TrimSpace(cmd.ProductID); id != "" {
		existing, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, s.translateRepoError(err)
		}
		previous = existing.Variants
	}

	return s.buildVariants(attrs, previous), nil
}

func (s *catalogService) buildVariants(attrs []Attribute, previous []Variant) []Variant {
	tuples := domain.GenerateCombinations(attrs)
	if len(tuples) == 0 {
		return nil
	}
	return domain.ReconcileVariants(tuples, previous, s.newID)
}

func (s *catalogService) normalizeCommand(cmd SaveProductCommand) (SaveProductCommand, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return SaveProductCommand{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}
	if cmd.BasePrice < 0 {
		return SaveProductCommand{}, fmt.Errorf("%w: base_price must be non-negative", ErrCatalogInvalidInput)
	}
	if cmd.BaseStock < 0 {
		return SaveProductCommand{}, fmt.Errorf("%w: base_stock must be non-negative", ErrCatalogInvalidInput)
	}

	cmd.Description = strings.TrimSpace(cmd.Description)
	cmd.Category = strings.TrimSpace(cmd.Category)

	images := make([]string, 0, len(cmd.Images))
	for _, img := range cmd.Images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			images = append(images, trimmed)
		}
	}
	cmd.Images = images

	attrs, err := normalizeAttributes(cmd.Attributes)
	if err != nil {
		return SaveProductCommand{}, err
	}
	cmd.Attributes = attrs

	return cmd, nil
}

// normalizeAttributes trims attribute names and options, rejects an
// attribute that is named but ends up with no options, and rejects a name
// used twice so every generated tuple stays unique. Fully empty entries
// are dropped so a simple product can submit a blank attribute row.
func normalizeAttributes(attrs []Attribute) ([]Attribute, error) {
	out := make([]Attribute, 0, len(attrs))
	seenNames := make(map[string]struct{}, len(attrs))
	for _, attr := range attrs {
		name := strings.TrimSpace(attr.Name)
		options := make([]string, 0, len(attr.Options))
		seen := make(map[string]struct{}, len(attr.Options))
		for _, opt := range attr.Options {
			trimmed := strings.TrimSpace(opt)
			if trimmed == "" {
				continue
			}
			if _, dup := seen[trimmed]; dup {
				continue
			}
			seen[trimmed] = struct{}{}
			options = append(options, trimmed)
		}

		if name == "" && len(options) == 0 {
			continue
		}
		if name != "" && len(options) == 0 {
			return nil, fmt.Errorf("%w: attribute %q", ErrIncompleteVariantConfig, name)
		}
		if name == "" {
			continue
		}
		if _, dup := seenNames[name]; dup {
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrCatalogInvalidInput, name)
		}
		seenNames[name] = struct{}{}
		out = append(out, Attribute{Name: name, Options: options})
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (s *catalogService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isRepoNotFound(err):
		return ErrCatalogNotFound
	case isRepoConflict(err):
		return ErrCatalogConflict
	}
	return ErrCatalogUnavailable
}
