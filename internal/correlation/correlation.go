// Package correlation carries the per-request correlation id through
// context so outbound collaborator calls and log records can echo it.
package correlation

import (
	"context"
	"net/http"
)

// Header is the wire name of the correlation id on inbound and outbound requests.
const Header = "X-Correlation-ID"

type ctxKey struct{}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id, or "" when none was assigned.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// SetHeader copies the context's correlation id onto an outbound request.
func SetHeader(ctx context.Context, req *http.Request) {
	if id := FromContext(ctx); id != "" {
		req.Header.Set(Header, id)
	}
}
