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
	"github.com/vitrina-store/api/internal/services"
)

// CartHandlers exposes the per-user cart endpoints. The acting user is taken
// from the gateway-set identity header.
type CartHandlers struct {
	carts services.CartService
}

const maxCartBodySize = 16 * 1024

// NewCartHandlers constructs handlers over the cart service.
func NewCartHandlers(carts services.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addItem)
	r.Patch("/items", h.updateItem)
	r.Delete("/items", h.removeItem)
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	uid, ok := requireRequester(w, r)
	if !ok {
		return
	}

	view, err := h.carts.GetCart(ctx, uid)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartResponse(view))
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	uid, ok := requireRequester(w, r)
	if !ok {
		return
	}

	if err := h.carts.ClearCart(ctx, uid); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	uid, ok := requireRequester(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		writeBodyError(w, r, err)
		return
	}

	var req cartItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	view, err := h.carts.AddItem(ctx, services.AddCartItemCommand{
		UserID:    uid,
		ProductID: strings.TrimSpace(req.ProductID),
		Quantity:  req.Quantity,
		Selection: domain.ValueTuple(req.Selection),
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartResponse(view))
}

func (h *CartHandlers) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	uid, ok := requireRequester(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		writeBodyError(w, r, err)
		return
	}

	var req cartItemDeltaRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	view, err := h.carts.UpdateItemQuantity(ctx, services.UpdateCartItemCommand{
		UserID:    uid,
		ProductID: strings.TrimSpace(req.ProductID),
		Delta:     req.Delta,
		Selection: domain.ValueTuple(req.Selection),
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartResponse(view))
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	uid, ok := requireRequester(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		writeBodyError(w, r, err)
		return
	}

	var req cartItemSelectorRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	view, err := h.carts.RemoveItem(ctx, services.RemoveCartItemCommand{
		UserID:    uid,
		ProductID: strings.TrimSpace(req.ProductID),
		Selection: domain.ValueTuple(req.Selection),
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartResponse(view))
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCartProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCartStockExceeded):
		httpx.WriteError(ctx, w, httpx.NewError("stock_exceeded", "requested quantity exceeds available stock", http.StatusConflict))
	case errors.Is(err, services.ErrCartUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("cart_error", "failed to update cart", http.StatusInternalServerError))
	}
}

func buildCartResponse(view services.CartView) cartResponse {
	payload := cartResponse{
		UserID: view.Cart.UserID,
		Lines:  make([]cartLinePayload, 0, len(view.Cart.Lines)),
		Totals: cartTotalsPayload{
			Subtotal:  view.Totals.Subtotal,
			Shipping:  view.Totals.Shipping,
			Total:     view.Totals.Total,
			ItemCount: view.Totals.ItemCount,
		},
	}
	for _, line := range view.Cart.Lines {
		payload.Lines = append(payload.Lines, cartLinePayload{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Selection:   selectionMap(line.Selection),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.UnitPrice * int64(line.Quantity),
			ImageURL:    line.ImageURL,
			AddedAt:     formatTime(line.AddedAt),
		})
	}
	if !view.Cart.UpdatedAt.IsZero() {
		payload.UpdatedAt = formatTime(view.Cart.UpdatedAt)
	}
	return payload
}

type cartResponse struct {
	UserID    string            `json:"userId"`
	Lines     []cartLinePayload `json:"lines"`
	Totals    cartTotalsPayload `json:"totals"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

type cartLinePayload struct {
	ProductID   string            `json:"productId"`
	ProductName string            `json:"productName"`
	Selection   map[string]string `json:"selection,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   int64             `json:"unitPrice"`
	LineTotal   int64             `json:"lineTotal"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	AddedAt     string            `json:"addedAt,omitempty"`
}

type cartTotalsPayload struct {
	Subtotal  int64 `json:"subtotal"`
	Shipping  int64 `json:"shipping"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"itemCount"`
}

type cartItemRequest struct {
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Selection map[string]string `json:"selection"`
}

type cartItemDeltaRequest struct {
	ProductID string            `json:"productId"`
	Delta     int               `json:"delta"`
	Selection map[string]string `json:"selection"`
}

type cartItemSelectorRequest struct {
	ProductID string            `json:"productId"`
	Selection map[string]string `json:"selection"`
}
