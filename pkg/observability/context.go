package observability

import (
	"context"

	"github.com/google/uuid"
)

// Log attribute names for the ids carried in a context.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
)

// idKey distinguishes the ids stored in a context.
type idKey int

const (
	correlationIDKey idKey = iota
	requestIDKey
)

func withID(ctx context.Context, key idKey, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, key, id)
}

func idFrom(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}

// WithCorrelationID stores the id that ties an HTTP request, a CLI run or an MCP
// call to the TasksPrioritized events it publishes. An empty id gets a new UUID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withID(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDKey)
}

// WithRequestID stores the id of a single request. An empty id gets a new UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withID(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDKey)
}

// NewRequestContext gives ctx a fresh request id and keeps the caller's
// correlation id when there is one.
func NewRequestContext(ctx context.Context, correlationID string) context.Context {
	return WithCorrelationID(WithRequestID(ctx, ""), correlationID)
}
