package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when the client omits pageSize.
	DefaultPageSize = 50
	// DefaultMaxPageSize caps pageSize so a single request cannot ask for
	// an unbounded result set.
	DefaultMaxPageSize = 100

	maxFilterValueLength = 512
)

// Operator enumerates the filter comparisons accepted on the query string.
type Operator string

const (
	OperatorEqual         Operator = "=="
	OperatorGreaterThan   Operator = ">"
	OperatorLessThan      Operator = "<"
	OperatorGreaterEqual  Operator = ">="
	OperatorLessEqual     Operator = "<="
	OperatorArrayContains Operator = "array-contains"
)

// operatorScanOrder lists operators longest-first so ">=" wins over ">".
var operatorScanOrder = []Operator{
	OperatorArrayContains,
	OperatorGreaterEqual,
	OperatorLessEqual,
	OperatorEqual,
	OperatorGreaterThan,
	OperatorLessThan,
}

func operatorSupported(op Operator) bool {
	for _, known := range operatorScanOrder {
		if op == known {
			return true
		}
	}
	return false
}

// Order is a single order-by clause.
type Order struct {
	Field string
	Desc  bool
}

// Filter is one parsed filter predicate.
type Filter struct {
	Field string
	Op    Operator
	Value string
}

// Cursor carries the Firestore resume position encoded inside a page token.
type Cursor struct {
	StartAfter []any `json:"startAfter,omitempty"`
	StartAt    []any `json:"startAt,omitempty"`
}

// Params is the normalised pagination state extracted from a request.
type Params struct {
	PageSize  int
	PageToken string
	Cursor    Cursor
	Orders    []Order
	Filters   []Filter
}

// Options declare what a handler allows: page size bounds, sortable fields,
// and filterable fields with their permitted operators. A field mapped to an
// empty operator slice accepts every supported operator.
type Options struct {
	DefaultPageSize     int
	MaxPageSize         int
	AllowedOrderFields  []string
	AllowedFilterFields map[string][]Operator
}

var (
	ErrInvalidPageSize  = errors.New("pagination: invalid pageSize")
	ErrInvalidOrderBy   = errors.New("pagination: invalid orderBy")
	ErrInvalidFilter    = errors.New("pagination: invalid filter")
	ErrInvalidPageToken = errors.New("pagination: invalid pageToken")
)

// FromRequest reads the pagination query parameters off the request.
func FromRequest(r *http.Request, opts Options) (Params, error) {
	if r == nil {
		return Params{}, errors.New("pagination: nil request")
	}
	return Parse(r.URL.Query(), opts)
}

// Parse validates the supplied query values against opts and returns the
// resulting Params. It fails on the first invalid parameter.
func Parse(values url.Values, opts Options) (Params, error) {
	if values == nil {
		values = url.Values{}
	}

	size, err := resolvePageSize(values.Get("pageSize"), opts)
	if err != nil {
		return Params{}, err
	}
	params := Params{PageSize: size}

	if token := strings.TrimSpace(values.Get("pageToken")); token != "" {
		cursor, err := DecodeToken(token)
		if err != nil {
			return Params{}, err
		}
		params.PageToken = token
		params.Cursor = cursor
	}

	if params.Orders, err = parseOrders(values["orderBy"], opts.AllowedOrderFields); err != nil {
		return Params{}, err
	}
	if params.Filters, err = parseFilters(values["filter"], opts.AllowedFilterFields); err != nil {
		return Params{}, err
	}
	return params, nil
}

func resolvePageSize(raw string, opts Options) (int, error) {
	ceiling := opts.MaxPageSize
	if ceiling <= 0 {
		ceiling = DefaultMaxPageSize
	}
	fallback := opts.DefaultPageSize
	if fallback <= 0 {
		fallback = DefaultPageSize
	}
	if fallback > ceiling {
		fallback = ceiling
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: must be an integer", ErrInvalidPageSize)
	}
	if size <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidPageSize)
	}
	if size > ceiling {
		size = ceiling
	}
	return size, nil
}

func parseOrders(values []string, allowed []string) ([]Order, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: ordering not supported", ErrInvalidOrderBy)
	}

	permitted := make(map[string]struct{}, len(allowed))
	for _, field := range allowed {
		if field != "" {
			permitted[field] = struct{}{}
		}
	}

	var orders []Order
	seen := make(map[Order]struct{})
	for _, raw := range values {
		for _, clause := range strings.Split(raw, ",") {
			clause = strings.TrimSpace(clause)
			if clause == "" {
				continue
			}
			order, err := parseOrderClause(clause)
			if err != nil {
				return nil, err
			}
			if _, ok := permitted[order.Field]; !ok {
				return nil, fmt.Errorf("%w: field %q is not allowed", ErrInvalidOrderBy, order.Field)
			}
			if _, dup := seen[order]; dup {
				continue
			}
			seen[order] = struct{}{}
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func parseOrderClause(clause string) (Order, error) {
	// Accept both "field desc" and "field:desc" spellings.
	if strings.Contains(clause, ":") && !strings.Contains(clause, " ") {
		clause = strings.ReplaceAll(clause, ":", " ")
	}

	parts := strings.Fields(clause)
	switch {
	case len(parts) == 0:
		return Order{}, fmt.Errorf("%w: empty orderBy value", ErrInvalidOrderBy)
	case len(parts) > 2:
		return Order{}, fmt.Errorf("%w: invalid orderBy format %q", ErrInvalidOrderBy, clause)
	}

	order := Order{Field: parts[0]}
	if !validFieldName(order.Field) {
		return Order{}, fmt.Errorf("%w: invalid field %q", ErrInvalidOrderBy, order.Field)
	}
	if len(parts) == 2 {
		switch strings.ToLower(parts[1]) {
		case "asc":
		case "desc":
			order.Desc = true
		default:
			return Order{}, fmt.Errorf("%w: invalid direction %q", ErrInvalidOrderBy, parts[1])
		}
	}
	return order, nil
}

func parseFilters(values []string, allowed map[string][]Operator) ([]Filter, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: filtering not supported", ErrInvalidFilter)
	}

	permitted := make(map[string]map[Operator]struct{}, len(allowed))
	for field, ops := range allowed {
		if !validFieldName(field) {
			continue
		}
		set := make(map[Operator]struct{}, len(ops))
		for _, op := range ops {
			if operatorSupported(op) {
				set[op] = struct{}{}
			}
		}
		if len(set) == 0 {
			for _, op := range operatorScanOrder {
				set[op] = struct{}{}
			}
		}
		permitted[field] = set
	}
	if len(permitted) == 0 {
		return nil, fmt.Errorf("%w: filtering not supported", ErrInvalidFilter)
	}

	filters := make([]Filter, 0, len(values))
	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		filter, err := parseFilterClause(raw)
		if err != nil {
			return nil, err
		}
		ops, ok := permitted[filter.Field]
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not allowed", ErrInvalidFilter, filter.Field)
		}
		if _, ok := ops[filter.Op]; !ok {
			return nil, fmt.Errorf("%w: operator %q is not allowed for field %q", ErrInvalidFilter, filter.Op, filter.Field)
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

func parseFilterClause(raw string) (Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Filter{}, fmt.Errorf("%w: empty filter value", ErrInvalidFilter)
	}

	for _, op := range operatorScanOrder {
		idx := strings.Index(raw, string(op))
		if idx <= 0 {
			continue
		}
		field := strings.TrimSpace(raw[:idx])
		value := strings.TrimSpace(raw[idx+len(op):])
		if field == "" || value == "" {
			continue
		}
		if !validFieldName(field) {
			return Filter{}, fmt.Errorf("%w: invalid field %q", ErrInvalidFilter, field)
		}
		value = cleanFilterValue(value)
		if value == "" {
			return Filter{}, fmt.Errorf("%w: empty value for field %q", ErrInvalidFilter, field)
		}
		return Filter{Field: field, Op: op, Value: value}, nil
	}
	return Filter{}, fmt.Errorf("%w: missing operator in %q", ErrInvalidFilter, raw)
}

func cleanFilterValue(value string) string {
	value = strings.Trim(strings.TrimSpace(value), "\"'")
	value = strings.NewReplacer("\n", " ", "\r", " ").Replace(value)
	value = strings.TrimSpace(value)
	if len(value) > maxFilterValueLength {
		value = value[:maxFilterValueLength]
	}
	return value
}

func validFieldName(field string) bool {
	if field == "" {
		return false
	}
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// Must guarantees a usable PageSize for callers that construct Params by hand.
func Must(params Params) Params {
	if params.PageSize <= 0 {
		params.PageSize = DefaultPageSize
	}
	return params
}
