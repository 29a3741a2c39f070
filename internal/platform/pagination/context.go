package pagination

import "context"

type contextKey string

const paramsContextKey contextKey = "github.com/vitrina-store/api/internal/platform/pagination/params"

// WithParams attaches parsed pagination state to the context.
func WithParams(ctx context.Context, params Params) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, paramsContextKey, params)
}

// FromContext returns the params stored by WithParams, if any.
func FromContext(ctx context.Context) (Params, bool) {
	if ctx == nil {
		return Params{}, false
	}
	params, ok := ctx.Value(paramsContextKey).(Params)
	return params, ok
}

// FromContextOrDefault returns stored params, or defaults with a usable
// page size when none are present.
func FromContextOrDefault(ctx context.Context) Params {
	params, ok := FromContext(ctx)
	if !ok {
		return Params{PageSize: DefaultPageSize}
	}
	return Must(params)
}
