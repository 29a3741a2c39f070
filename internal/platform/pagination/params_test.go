package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	params, err := Parse(url.Values{}, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.PageSize != DefaultPageSize {
		t.Fatalf("page size = %d, want %d", params.PageSize, DefaultPageSize)
	}
	if params.PageToken != "" || len(params.Cursor.StartAfter) != 0 {
		t.Fatalf("expected empty token and cursor, got %q %#v", params.PageToken, params.Cursor)
	}
	if params.Orders != nil || params.Filters != nil {
		t.Fatalf("expected nil orders and filters, got %#v %#v", params.Orders, params.Filters)
	}
}

func TestParsePageSize(t *testing.T) {
	opts := Options{DefaultPageSize: 10, MaxPageSize: 25}
	cases := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"8", 8},
		{"25", 25},
		{"9000", 25},
	}
	for _, tc := range cases {
		values := url.Values{}
		if tc.raw != "" {
			values.Set("pageSize", tc.raw)
		}
		params, err := Parse(values, opts)
		if err != nil {
			t.Fatalf("Parse(pageSize=%q): %v", tc.raw, err)
		}
		if params.PageSize != tc.want {
			t.Fatalf("pageSize=%q: got %d, want %d", tc.raw, params.PageSize, tc.want)
		}
	}

	for _, raw := range []string{"abc", "0", "-3"} {
		values := url.Values{}
		values.Set("pageSize", raw)
		if _, err := Parse(values, opts); !errors.Is(err, ErrInvalidPageSize) {
			t.Fatalf("pageSize=%q: got %v, want ErrInvalidPageSize", raw, err)
		}
	}
}

func TestParsePageToken(t *testing.T) {
	token, err := EncodeToken(Cursor{StartAfter: []any{"prod-3", 42}})
	if err != nil {
		t.Fatalf("EncodeToken: %v", err)
	}

	values := url.Values{}
	values.Set("pageToken", token)
	params, err := Parse(values, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.PageToken != token {
		t.Fatalf("token = %q, want %q", params.PageToken, token)
	}
	if s, ok := params.Cursor.StartAfter[0].(string); !ok || s != "prod-3" {
		t.Fatalf("first cursor value = %#v, want prod-3", params.Cursor.StartAfter[0])
	}
	if fmt.Sprint(params.Cursor.StartAfter[1]) != "42" {
		t.Fatalf("second cursor value = %#v, want 42", params.Cursor.StartAfter[1])
	}

	values.Set("pageToken", "***garbage***")
	if _, err := Parse(values, Options{}); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("got %v, want ErrInvalidPageToken", err)
	}
}

func TestParseOrderBy(t *testing.T) {
	values := url.Values{}
	values.Add("orderBy", "createdAt desc")
	values.Add("orderBy", "name asc,basePrice desc")

	opts := Options{AllowedOrderFields: []string{"createdAt", "name", "basePrice"}}
	params, err := Parse(values, opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Order{
		{Field: "createdAt", Desc: true},
		{Field: "name"},
		{Field: "basePrice", Desc: true},
	}
	if !reflect.DeepEqual(params.Orders, want) {
		t.Fatalf("orders = %#v, want %#v", params.Orders, want)
	}
}

func TestParseOrderByRejections(t *testing.T) {
	opts := Options{AllowedOrderFields: []string{"createdAt"}}
	cases := []struct {
		name    string
		clause  string
		options Options
	}{
		{"ordering disabled", "createdAt desc", Options{}},
		{"bad direction", "createdAt sideways", opts},
		{"unknown field", "secret desc", opts},
		{"too many parts", "createdAt desc extra", opts},
	}
	for _, tc := range cases {
		values := url.Values{}
		values.Add("orderBy", tc.clause)
		if _, err := Parse(values, tc.options); !errors.Is(err, ErrInvalidOrderBy) {
			t.Fatalf("%s: got %v, want ErrInvalidOrderBy", tc.name, err)
		}
	}
}

func TestParseFilters(t *testing.T) {
	values := url.Values{}
	values.Add("filter", "category == bags")
	values.Add("filter", "basePrice >= 1000")
	values.Add("filter", "tags array-contains featured")

	opts := Options{AllowedFilterFields: map[string][]Operator{
		"category":  {OperatorEqual},
		"basePrice": {OperatorGreaterEqual},
		"tags":      {OperatorArrayContains},
	}}
	params, err := Parse(values, opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Filter{
		{Field: "category", Op: OperatorEqual, Value: "bags"},
		{Field: "basePrice", Op: OperatorGreaterEqual, Value: "1000"},
		{Field: "tags", Op: OperatorArrayContains, Value: "featured"},
	}
	if !reflect.DeepEqual(params.Filters, want) {
		t.Fatalf("filters = %#v, want %#v", params.Filters, want)
	}
}

func TestParseFiltersRejections(t *testing.T) {
	opts := Options{AllowedFilterFields: map[string][]Operator{"category": {OperatorEqual}}}
	cases := []struct {
		name    string
		clause  string
		options Options
	}{
		{"filtering disabled", "category == bags", Options{}},
		{"operator not allowed", "category >= bags", opts},
		{"unknown field", "secret == x", opts},
		{"missing operator", "category bags", opts},
	}
	for _, tc := range cases {
		values := url.Values{}
		values.Add("filter", tc.clause)
		if _, err := Parse(values, tc.options); !errors.Is(err, ErrInvalidFilter) {
			t.Fatalf("%s: got %v, want ErrInvalidFilter", tc.name, err)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cursor := Cursor{StartAfter: []any{"ord-9"}, StartAt: []any{7}}
	token, err := EncodeToken(cursor)
	if err != nil {
		t.Fatalf("EncodeToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	decoded, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken: %v", err)
	}
	if s, ok := decoded.StartAfter[0].(string); !ok || s != "ord-9" {
		t.Fatalf("startAfter = %#v, want ord-9", decoded.StartAfter[0])
	}
	if fmt.Sprint(decoded.StartAt[0]) != "7" {
		t.Fatalf("startAt = %#v, want 7", decoded.StartAt[0])
	}

	empty, err := EncodeToken(Cursor{})
	if err != nil {
		t.Fatalf("EncodeToken empty cursor: %v", err)
	}
	if empty != "" {
		t.Fatalf("empty cursor token = %q, want empty", empty)
	}

	if _, err := DecodeToken("not/base64!"); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("got %v, want ErrInvalidPageToken", err)
	}
}

func TestContextHelpers(t *testing.T) {
	params := Params{PageSize: 12}
	ctx := WithParams(nil, params)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected params in context")
	}
	if !reflect.DeepEqual(got, params) {
		t.Fatalf("params = %#v, want %#v", got, params)
	}

	fallback := FromContextOrDefault(context.Background())
	if fallback.PageSize != DefaultPageSize {
		t.Fatalf("fallback page size = %d, want %d", fallback.PageSize, DefaultPageSize)
	}
}

func TestFromRequest(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/?pageSize=20", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	params, err := FromRequest(req, Options{})
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if params.PageSize != 20 {
		t.Fatalf("page size = %d, want 20", params.PageSize)
	}
}

func TestMust(t *testing.T) {
	if got := Must(Params{}).PageSize; got != DefaultPageSize {
		t.Fatalf("page size = %d, want %d", got, DefaultPageSize)
	}
	if got := Must(Params{PageSize: 15}).PageSize; got != 15 {
		t.Fatalf("page size = %d, want 15", got)
	}
}
