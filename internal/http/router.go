package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the cart API behind the request pipeline. Middleware order
// matters: the correlation id exists before anything else runs, the telemetry
// fan-out observes the final status, and the recoverer keeps panics inside it
// so they surface as plain 500s.
func NewRouter(h *CartHandler, t *Telemetry) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CorrelationMiddleware)
	if t != nil {
		r.Use(t.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", h.Health)

	r.Route("/carts/{cartId}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.DeleteCart)
		r.Post("/products/{productId}", h.AddProduct)
		r.Put("/products/{productId}", h.SetQuantity)
		r.Put("/delete/products/{productId}", h.RemoveProduct)
		r.Put("/remove/products/{productId}", h.DecrementProduct)
		r.Put("/clear", h.ClearCart)
	})

	return r
}
