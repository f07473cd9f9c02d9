package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"tenantrag/internal/contextutil"
	"tenantrag/internal/storage"
)

// TenantLister lists configured tenants.
type TenantLister interface {
	ListAll(ctx context.Context) ([]storage.Tenant, error)
}

// TenantsHandler handles HTTP requests for the tenant listing.
type TenantsHandler struct {
	tenants TenantLister
}

// NewTenantsHandler creates a new TenantsHandler.
func NewTenantsHandler(tenants TenantLister) *TenantsHandler {
	return &TenantsHandler{tenants: tenants}
}

// TenantSummary is one tenant in the listing. Pipeline tunables are included
// so operators can see effective settings without reading the database.
type TenantSummary struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	TopK                int     `json:"top_k"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	HyDEEnabled         bool    `json:"hyde_enabled"`
	KeywordsEnabled     bool    `json:"keywords_enabled"`
	TwoPassEnabled      bool    `json:"two_pass_enabled"`
	SummariesEnabled    bool    `json:"summaries_enabled"`
}

// TenantsResponse represents the tenant listing response.
type TenantsResponse struct {
	Tenants []TenantSummary `json:"tenants"`
}

// ServeHTTP handles GET requests for the tenant listing.
func (h *TenantsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tenants, err := h.tenants.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list tenants", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to list tenants"})
		return
	}

	resp := TenantsResponse{Tenants: make([]TenantSummary, 0, len(tenants))}
	for _, t := range tenants {
		resp.Tenants = append(resp.Tenants, TenantSummary{
			ID:                  t.ID,
			Name:                t.Name,
			TopK:                t.TopK,
			ConfidenceThreshold: t.ConfidenceThreshold,
			HyDEEnabled:         t.HyDEEnabled,
			KeywordsEnabled:     t.KeywordsEnabled,
			TwoPassEnabled:      t.TwoPassEnabled,
			SummariesEnabled:    t.SummariesEnabled,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode tenants response", "error", err)
	}
}
