package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tenantrag/internal/handlers"
	"tenantrag/internal/rag"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine  rag.Engine
	Tenants handlers.TenantLister
	// Health maps dependency names to connectivity checks.
	Health map[string]handlers.Pinger
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORS)

	queryHandler := handlers.NewQueryHandler(deps.Engine)
	tenantsHandler := handlers.NewTenantsHandler(deps.Tenants)
	healthHandler := handlers.NewHealthHandler(deps.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodGet, "/tenants", tenantsHandler)
	})
	r.Method(http.MethodGet, "/api/health", healthHandler)

	return r
}
