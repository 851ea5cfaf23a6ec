package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/correlation"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/telemetry"
)

// CorrelationMiddleware assigns the correlation id at request entry, before
// routing and any handler logic, echoing an inbound header when present.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlation.Header)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := correlation.WithID(r.Context(), id)
		w.Header().Set(correlation.Header, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statsNotifier and logPublisher are what the pipeline needs from telemetry
type statsNotifier interface {
	Notify(method, route string)
}

type logPublisher interface {
	Publish(ctx context.Context, rec telemetry.LogRecord)
}

// Telemetry is the fire-and-forget fan-out around every request: a usage-stats
// notification and a structured log record, both dispatched on their own
// goroutines once the handler has produced the response. Neither can delay or
// fail the client-facing path; delivery is at-most-once with no ordering
// relative to response transmission.
type Telemetry struct {
	Stats       statsNotifier
	Logs        logPublisher
	ServiceName string
}

func (t *Telemetry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		if t.Stats != nil {
			go t.Stats.Notify(r.Method, route)
		}

		if t.Logs != nil {
			rec := telemetry.NewLogRecord(
				correlation.FromContext(r.Context()),
				requestURL(r),
				fmt.Sprintf("%s %s responded %d", r.Method, r.URL.Path, status),
				t.ServiceName,
				status,
			)
			go t.Logs.Publish(context.Background(), rec)
		}
	})
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI())
}
