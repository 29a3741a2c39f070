package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/platform/httpx"
	"github.com/vitrina-store/api/internal/platform/pagination"
	"github.com/vitrina-store/api/internal/services"
)

// AdminHandlers exposes the back-office endpoints for catalog maintenance and
// order management.
type AdminHandlers struct {
	catalog services.CatalogService
	orders  services.OrderService
}

const maxAdminBodySize = 256 * 1024

// NewAdminHandlers constructs the admin endpoints.
func NewAdminHandlers(catalog services.CatalogService, orders services.OrderService) *AdminHandlers {
	return &AdminHandlers{
		catalog: catalog,
		orders:  orders,
	}
}

// Routes wires the /admin endpoints onto the provided router.
func (h *AdminHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/products", h.createProduct)
	r.Put("/products/{productID}", h.updateProduct)
	r.Delete("/products/{productID}", h.deleteProduct)
	r.Post("/products/variants/preview", h.previewVariants)
	r.Get("/orders", h.listOrders)
	r.Patch("/orders/{orderID}/status", h.updateOrderStatus)
}

func (h *AdminHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cmd, ok := h.decodeProductCommand(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.CreateProduct(ctx, cmd)
	if err != nil {
		h.writeAdminCatalogError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, productResponse{Product: buildProductPayload(product)})
}

func (h *AdminHandlers) updateProduct(w http.ResponseWriter, r *http.Request) {
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

	cmd, ok := h.decodeProductCommand(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.UpdateProduct(ctx, productID, cmd)
	if err != nil {
		h.writeAdminCatalogError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, productResponse{Product: buildProductPayload(product)})
}

func (h *AdminHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
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

	if err := h.catalog.DeleteProduct(ctx, productID); err != nil {
		h.writeAdminCatalogError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) previewVariants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxAdminBodySize)
	if err != nil {
		writeBodyError(w, r, err)
		return
	}

	var req previewVariantsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	variants, err := h.catalog.PreviewVariants(ctx, services.PreviewVariantsCommand{
		ProductID:  strings.TrimSpace(req.ProductID),
		Attributes: attributesFromRequest(req.Attributes),
	})
	if err != nil {
		h.writeAdminCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, previewVariantsResponse{
		Variants: buildVariantPayloads(variants),
	})
}

func (h *AdminHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order_service_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return
	}

	params, err := pagination.FromRequest(r, pagination.Options{
		DefaultPageSize: defaultOrderPageSize,
		MaxPageSize:     maxOrderPageSize,
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	filter := services.OrderListFilter{
		UserID: strings.TrimSpace(r.URL.Query().Get("userId")),
		Pagination: services.Pagination{
			PageSize:  params.PageSize,
			PageToken: params.PageToken,
		},
	}
	for _, raw := range r.URL.Query()["status"] {
		status := domain.OrderStatus(strings.TrimSpace(raw))
		if status == "" {
			continue
		}
		filter.Status = append(filter.Status, status)
	}

	page, err := h.orders.ListOrders(ctx, filter)
	if err != nil {
		writeOrderServiceError(ctx, w, err)
		return
	}

	payload := orderListResponse{
		Orders:        make([]orderPayload, 0, len(page.Items)),
		NextPageToken: page.NextPageToken,
	}
	for _, order := range page.Items {
		payload.Orders = append(payload.Orders, buildOrderPayload(order))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *AdminHandlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order_service_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return
	}

	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if orderID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order id is required", http.StatusBadRequest))
		return
	}

	body, err := readLimitedBody(r, maxAdminBodySize)
	if err != nil {
		writeBodyError(w, r, err)
		return
	}

	var req orderStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	order, err := h.orders.TransitionStatus(ctx, services.OrderStatusCommand{
		OrderID: orderID,
		Status:  domain.OrderStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		writeOrderServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, orderResponse{Order: buildOrderPayload(order)})
}

func (h *AdminHandlers) decodeProductCommand(w http.ResponseWriter, r *http.Request) (services.SaveProductCommand, bool) {
	ctx := r.Context()
	body, err := readLimitedBody(r, maxAdminBodySize)
	if err != nil {
		writeBodyError(w, r, err)
		return services.SaveProductCommand{}, false
	}

	var req saveProductRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return services.SaveProductCommand{}, false
	}

	cmd := services.SaveProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Images:      req.Images,
		BasePrice:   req.BasePrice,
		BaseStock:   req.BaseStock,
		Attributes:  attributesFromRequest(req.Attributes),
		Featured:    req.Featured,
	}
	for _, variant := range req.Variants {
		cmd.Variants = append(cmd.Variants, domain.Variant{
			ID:     strings.TrimSpace(variant.ID),
			Values: domain.ValueTuple(variant.Values),
			Stock:  variant.Stock,
			Price:  variant.Price,
		})
	}
	return cmd, true
}

func (h *AdminHandlers) writeAdminCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrIncompleteVariantConfig):
		httpx.WriteError(ctx, w, httpx.NewError("incomplete_variant_config", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCatalogNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCatalogConflict):
		httpx.WriteError(ctx, w, httpx.NewError("product_conflict", "product has been modified; retry", http.StatusConflict))
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("catalog_error", "failed to update catalog", http.StatusInternalServerError))
	}
}

func attributesFromRequest(attrs []attributeRequest) []domain.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]domain.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, domain.Attribute{
			Name:    attr.Name,
			Options: attr.Options,
		})
	}
	return out
}

type saveProductRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Images      []string           `json:"images"`
	BasePrice   int64              `json:"basePrice"`
	BaseStock   int                `json:"baseStock"`
	Attributes  []attributeRequest `json:"attributes"`
	Variants    []variantRequest   `json:"variants"`
	Featured    bool               `json:"featured"`
}

type attributeRequest struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type variantRequest struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values"`
	Stock  int               `json:"stock"`
	Price  *int64            `json:"price"`
}

type previewVariantsRequest struct {
	ProductID  string             `json:"productId"`
	Attributes []attributeRequest `json:"attributes"`
}

type previewVariantsResponse struct {
	Variants []variantPayload `json:"variants"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}
