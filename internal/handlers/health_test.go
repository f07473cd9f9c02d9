package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantState  string
	}{
		{
			name: "all dependencies healthy",
			checks: map[string]Pinger{
				"database": PingerFunc(func(ctx context.Context) error { return nil }),
				"cache":    PingerFunc(func(ctx context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name: "one dependency down",
			checks: map[string]Pinger{
				"database": PingerFunc(func(ctx context.Context) error { return nil }),
				"cache":    PingerFunc(func(ctx context.Context) error { return errors.New("refused") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("status field = %q, want %q", resp.Status, tt.wantState)
			}
			if len(resp.Checks) != len(tt.checks) {
				t.Errorf("checks = %d, want %d", len(resp.Checks), len(tt.checks))
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
