package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/services"
)

func checkoutRouter(h *CheckoutHandlers) chi.Router {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func submitPayload() string {
	return `{"shippingAddress":{"street":"1 Main St","city":"Lisbon","zipCode":"1000-001","country":"PT"}}`
}

func TestCheckoutHandlersSubmitOrder(t *testing.T) {
	var captured services.SubmitOrderCommand
	checkout := &stubCheckoutService{
		submitFunc: func(_ context.Context, cmd services.SubmitOrderCommand) (domain.Order, error) {
			captured = cmd
			return domain.Order{
				ID:     "order-1",
				UserID: cmd.UserID,
				Status: domain.OrderStatusPending,
				Totals: domain.CartTotals{Subtotal: 8400, Shipping: 3500, Total: 11900, ItemCount: 2},
				ShippingAddress: domain.Address{
					Street: "1 Main St", City: "Lisbon", ZipCode: "1000-001", Country: "PT",
				},
				CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	router := checkoutRouter(NewCheckoutHandlers(checkout, WithCheckoutRateLimiter(nil)))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(submitPayload()))
	req.Header.Set("X-User-ID", "user-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", captured.UserID)
	}
	if captured.ShippingAddress.City != "Lisbon" {
		t.Fatalf("unexpected address: %+v", captured.ShippingAddress)
	}

	var body struct {
		Order struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Totals struct {
				Total int64 `json:"total"`
			} `json:"totals"`
		} `json:"order"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Order.ID != "order-1" || body.Order.Status != "pending" {
		t.Fatalf("unexpected order payload: %+v", body.Order)
	}
	if body.Order.Totals.Total != 11900 {
		t.Fatalf("expected total 11900, got %d", body.Order.Totals.Total)
	}
}

func TestCheckoutHandlersRequireUserHeader(t *testing.T) {
	router := checkoutRouter(NewCheckoutHandlers(&stubCheckoutService{}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(submitPayload()))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestCheckoutHandlersEmptyCart(t *testing.T) {
	checkout := &stubCheckoutService{
		submitFunc: func(context.Context, services.SubmitOrderCommand) (domain.Order, error) {
			return domain.Order{}, services.ErrCheckoutEmptyCart
		},
	}
	router := checkoutRouter(NewCheckoutHandlers(checkout, WithCheckoutRateLimiter(nil)))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(submitPayload()))
	req.Header.Set("X-User-ID", "user-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
}

func TestCheckoutHandlersRateLimited(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	limiter := newSimpleRateLimiter(1, time.Minute, func() time.Time { return now })
	checkout := &stubCheckoutService{
		submitFunc: func(context.Context, services.SubmitOrderCommand) (domain.Order, error) {
			return domain.Order{ID: "order-1"}, nil
		},
	}
	router := checkoutRouter(NewCheckoutHandlers(checkout, WithCheckoutRateLimiter(limiter)))

	first := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(submitPayload()))
	first.Header.Set("X-User-ID", "user-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, first)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected first submit to pass, got %d", rr.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(submitPayload()))
	second.Header.Set("X-User-ID", "user-1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, second)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rr.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(submitPayload()))
	other.Header.Set("X-User-ID", "user-2")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, other)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected other user to pass, got %d", rr.Code)
	}
}

func TestCheckoutHandlersInvalidAddress(t *testing.T) {
	checkout := &stubCheckoutService{
		submitFunc: func(context.Context, services.SubmitOrderCommand) (domain.Order, error) {
			return domain.Order{}, services.ErrCheckoutInvalidInput
		},
	}
	router := checkoutRouter(NewCheckoutHandlers(checkout, WithCheckoutRateLimiter(nil)))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"shippingAddress":{"street":"1 Main St"}}`))
	req.Header.Set("X-User-ID", "user-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
