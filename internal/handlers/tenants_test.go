package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tenantrag/internal/storage"
)

type stubTenantLister struct {
	tenants []storage.Tenant
	err     error
}

func (s *stubTenantLister) ListAll(ctx context.Context) ([]storage.Tenant, error) {
	return s.tenants, s.err
}

func TestTenantsHandler_ServeHTTP(t *testing.T) {
	lister := &stubTenantLister{
		tenants: []storage.Tenant{
			{ID: "acme", Name: "Acme Corp", TopK: 8, ConfidenceThreshold: 0.3, HyDEEnabled: true},
			{ID: "globex", Name: "Globex", TopK: 12, ConfidenceThreshold: 0.5},
		},
	}
	handler := NewTenantsHandler(lister)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp TenantsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Tenants) != 2 {
		t.Fatalf("tenants = %d, want 2", len(resp.Tenants))
	}
	if resp.Tenants[0].ID != "acme" || !resp.Tenants[0].HyDEEnabled {
		t.Errorf("unexpected first tenant: %+v", resp.Tenants[0])
	}
	if resp.Tenants[1].TopK != 12 {
		t.Errorf("second tenant top_k = %d, want 12", resp.Tenants[1].TopK)
	}
}

func TestTenantsHandler_ListError(t *testing.T) {
	handler := NewTenantsHandler(&stubTenantLister{err: errors.New("db closed")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestTenantsHandler_MethodNotAllowed(t *testing.T) {
	handler := NewTenantsHandler(&stubTenantLister{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tenants", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
