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

// InternalHandlers exposes service-to-service endpoints. The router mounts
// them behind network-level access controls.
type InternalHandlers struct {
	inventory services.InventoryService
}

const maxInternalBodySize = 64 * 1024

// NewInternalHandlers constructs the internal endpoints.
func NewInternalHandlers(inventory services.InventoryService) *InternalHandlers {
	return &InternalHandlers{inventory: inventory}
}

// Routes wires the /internal endpoints onto the provided router.
func (h *InternalHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/fulfillments", h.applyFulfillment)
}

func (h *InternalHandlers) applyFulfillment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.inventory == nil {
		httpx.WriteError(ctx, w, httpx.NewError("inventory_service_unavailable", "inventory service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxInternalBodySize)
	if err != nil {
		writeBodyError(w, r, err)
		return
	}

	var req fulfillmentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	cmd := services.FulfillmentCommand{OrderRef: strings.TrimSpace(req.OrderRef)}
	for _, line := range req.Lines {
		cmd.Lines = append(cmd.Lines, domain.FulfillmentLine{
			ProductID: strings.TrimSpace(line.ProductID),
			Selection: domain.ValueTuple(line.Selection),
			Quantity:  line.Quantity,
		})
	}

	events, err := h.inventory.ApplyFulfillment(ctx, cmd)
	if err != nil {
		h.writeFulfillmentError(ctx, w, err)
		return
	}

	payload := fulfillmentResponse{Events: make([]stockEventPayload, 0, len(events))}
	for _, event := range events {
		payload.Events = append(payload.Events, stockEventPayload{
			ProductID:  event.ProductID,
			VariantID:  event.VariantID,
			Selection:  selectionMap(event.Selection),
			Delta:      event.Delta,
			Remaining:  event.Remaining,
			OrderRef:   event.OrderRef,
			OccurredAt: formatTime(event.OccurredAt),
		})
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *InternalHandlers) writeFulfillmentError(ctx context.Context, w http.ResponseWriter, err error) {
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
		httpx.WriteError(ctx, w, httpx.NewError("inventory_error", "failed to apply fulfillment", http.StatusInternalServerError))
	}
}

type fulfillmentRequest struct {
	OrderRef string                   `json:"orderRef"`
	Lines    []fulfillmentLineRequest `json:"lines"`
}

type fulfillmentLineRequest struct {
	ProductID string            `json:"productId"`
	Selection map[string]string `json:"selection"`
	Quantity  int               `json:"quantity"`
}

type fulfillmentResponse struct {
	Events []stockEventPayload `json:"events"`
}

type stockEventPayload struct {
	ProductID  string            `json:"productId"`
	VariantID  string            `json:"variantId,omitempty"`
	Selection  map[string]string `json:"selection,omitempty"`
	Delta      int               `json:"delta"`
	Remaining  int               `json:"remaining"`
	OrderRef   string            `json:"orderRef,omitempty"`
	OccurredAt string            `json:"occurredAt,omitempty"`
}
