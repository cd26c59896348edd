/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind proxies
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for dashboard frontends

ROUTE GROUPS:
  /api/setup, /api/health     Lifecycle
  /api/suppliers/*            Supplier queries
  /api/batches/*              Batch queries
  /api/orders/*               Order queries
  /api/traceability/*         Multi-hop trace queries
  /api/metrics/*              KPI reducers
  /api/production             Raw rollup view

SECURITY NOTE:
  No authentication middleware. This serves demo data; put it behind a
  gateway before exposing anything real.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/setup", h.Setup)
		r.Get("/health", h.Health)
		r.Get("/production", h.Production)

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Get("/{id}", h.GetSupplier)
			r.Get("/{id}/impact", h.SupplierImpact)
			r.Get("/{id}/scorecard", h.SupplierScorecard)
		})

		r.Route("/batches", func(r chi.Router) {
			r.Get("/", h.ListBatches)
			r.Get("/{id}", h.GetBatch)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Get("/{id}/batches", h.OrderBatches)
		})

		r.Route("/traceability", func(r chi.Router) {
			r.Get("/backward/{batchID}", h.BackwardTrace)
			r.Get("/forward/{supplierID}", h.ForwardTrace)
			r.Get("/lot/{lotNumber}", h.LotTrace)
			r.Get("/serial/{serial}", h.SerialTrace)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/oee", h.OEE)
			r.Get("/scrap", h.ScrapMetrics)
			r.Get("/quality-issues", h.QualityIssues)
			r.Get("/downtime", h.DowntimeAnalysis)
		})
	})

	return r
}
