package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/vitrina-store/api/internal/domain"
	"github.com/vitrina-store/api/internal/platform/httpx"
)

const requesterHeader = "X-User-ID"

var (
	errEmptyBody    = errors.New("request body is required")
	errBodyTooLarge = errors.New("request body too large")
)

// requesterID extracts the acting user from the trusted gateway header.
func requesterID(r *http.Request) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(requesterHeader))
}

func requireRequester(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := requesterID(r)
	if uid == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("unauthenticated", "user identification required", http.StatusUnauthorized))
		return "", false
	}
	return uid, true
}

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, errBodyTooLarge):
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// selectionFromQuery collects sel.<attribute>=<option> query parameters into
// a value tuple.
func selectionFromQuery(r *http.Request) domain.ValueTuple {
	values := r.URL.Query()
	var selection domain.ValueTuple
	for key, vals := range values {
		if !strings.HasPrefix(key, "sel.") || len(vals) == 0 {
			continue
		}
		attr := strings.TrimSpace(strings.TrimPrefix(key, "sel."))
		if attr == "" {
			continue
		}
		if selection == nil {
			selection = domain.ValueTuple{}
		}
		selection[attr] = strings.TrimSpace(vals[0])
	}
	return selection
}
