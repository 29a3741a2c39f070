package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/platform/httpx"
	"github.com/vitrina-store/api/internal/platform/pagination"
	"github.com/vitrina-store/api/internal/services"
)

// ProductHandlers exposes the public catalog read endpoints.
type ProductHandlers struct {
	catalog   services.CatalogService
	inventory services.InventoryService
}

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

// NewProductHandlers constructs handlers serving catalog listings and
// per-selection availability lookups.
func NewProductHandlers(catalog services.CatalogService, inventory services.InventoryService) *ProductHandlers {
	return &ProductHandlers{
		catalog:   catalog,
		inventory: inventory,
	}
}

// Routes wires the /products endpoints onto the provided router.
func (h *ProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listProducts)
	r.Get("/{productID}", h.getProduct)
	r.Get("/{productID}/availability", h.getAvailability)
}

func (h *ProductHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	params, err := pagination.FromRequest(r, pagination.Options{
		DefaultPageSize: defaultProductPageSize,
		MaxPageSize:     maxProductPageSize,
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	filter := services.ProductListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Pagination: services.Pagination{
			PageSize:  params.PageSize,
			PageToken: params.PageToken,
		},
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
		featured, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "featured must be a boolean", http.StatusBadRequest))
			return
		}
		filter.Featured = &featured
	}

	page, err := h.catalog.ListProducts(ctx, filter)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	payload := productListResponse{
		Products:      make([]productPayload, 0, len(page.Items)),
		NextPageToken: page.NextPageToken,
	}
	for _, product := range page.Items {
		payload.Products = append(payload.Products, buildProductPayload(product))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *ProductHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	if productID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, productResponse{Product: buildProductPayload(product)})
}

func (h *ProductHandlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.inventory == nil {
		httpx.WriteError(ctx, w, httpx.NewError("inventory_service_unavailable", "inventory service is unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	if productID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}

	report, err := h.inventory.Availability(ctx, productID, selectionFromQuery(r))
	if err != nil {
		h.writeInventoryError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, availabilityPayload{
		ProductID: report.ProductID,
		Selection: selectionMap(report.Selection),
		Stock:     report.Stock,
		InStock:   report.InStock,
	})
}

func (h *ProductHandlers) writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCatalogNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("catalog_error", "failed to read catalog", http.StatusInternalServerError))
	}
}

func (h *ProductHandlers) writeInventoryError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrInventoryInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrInventoryNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrInventoryUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("inventory_service_unavailable", "inventory service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("inventory_error", "failed to read availability", http.StatusInternalServerError))
	}
}

func buildProductPayload(product services.Product) productPayload {
	payload := productPayload{
		ID:          strings.TrimSpace(product.ID),
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Images:      append([]string{}, product.Images...),
		BasePrice:   product.BasePrice,
		BaseStock:   product.BaseStock,
		Stock:       product.AggregateStock(),
		Rating:      product.Rating,
		Reviews:     product.Reviews,
		Featured:    product.Featured,
		Attributes:  buildAttributePayloads(product.Attributes),
		Variants:    buildVariantPayloads(product.Variants),
		CreatedAt:   formatTime(product.CreatedAt),
		UpdatedAt:   formatTime(product.UpdatedAt),
	}
	return payload
}

func buildAttributePayloads(attrs []domain.Attribute) []attributePayload {
	if len(attrs) == 0 {
		return []attributePayload{}
	}
	payload := make([]attributePayload, 0, len(attrs))
	for _, attr := range attrs {
		payload = append(payload, attributePayload{
			Name:    attr.Name,
			Options: append([]string{}, attr.Options...),
		})
	}
	return payload
}

func buildVariantPayloads(variants []domain.Variant) []variantPayload {
	if len(variants) == 0 {
		return []variantPayload{}
	}
	payload := make([]variantPayload, 0, len(variants))
	for _, variant := range variants {
		payload = append(payload, variantPayload{
			ID:     variant.ID,
			Values: selectionMap(variant.Values),
			Stock:  variant.Stock,
			Price:  variant.Price,
		})
	}
	return payload
}

func selectionMap(selection domain.ValueTuple) map[string]string {
	if len(selection) == 0 {
		return nil
	}
	return map[string]string(selection.Clone())
}

type productListResponse struct {
	Products      []productPayload `json:"products"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

type productResponse struct {
	Product productPayload `json:"product"`
}

type productPayload struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Images      []string           `json:"images"`
	BasePrice   int64              `json:"basePrice"`
	BaseStock   int                `json:"baseStock"`
	Stock       int                `json:"stock"`
	Rating      float64            `json:"rating,omitempty"`
	Reviews     int                `json:"reviews,omitempty"`
	Featured    bool               `json:"featured"`
	Attributes  []attributePayload `json:"attributes"`
	Variants    []variantPayload   `json:"variants"`
	CreatedAt   string             `json:"createdAt,omitempty"`
	UpdatedAt   string             `json:"updatedAt,omitempty"`
}

type attributePayload struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type variantPayload struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values"`
	Stock  int               `json:"stock"`
	Price  *int64            `json:"price,omitempty"`
}

type availabilityPayload struct {
	ProductID string            `json:"productId"`
	Selection map[string]string `json:"selection,omitempty"`
	Stock     int               `json:"stock"`
	InStock   bool              `json:"inStock"`
}
