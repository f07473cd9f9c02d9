package storage

import (
	"context"
	"errors"
	"testing"
)

func TestTenantRepo_GetByID(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	tdb.seedTenant(t, "acme")

	tenant, err := tdb.tenants.GetByID(ctx, "acme")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if tenant.ID != "acme" || tenant.TopK != 8 {
		t.Errorf("unexpected tenant: %+v", tenant)
	}

	_, err = tdb.tenants.GetByID(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestTenantRepo_ListAll(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	tdb.seedTenant(t, "globex")
	tdb.seedTenant(t, "acme")

	tenants, err := tdb.tenants.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(tenants) != 2 {
		t.Fatalf("ListAll() returned %d tenants, want 2", len(tenants))
	}
	if tenants[0].Name != "acme" || tenants[1].Name != "globex" {
		t.Errorf("ListAll() not ordered by name: %s, %s", tenants[0].Name, tenants[1].Name)
	}
}

func TestTenantRepo_GetTenantConfig(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	err := tdb.tenants.Insert(ctx, &Tenant{
		ID: "zero", Name: "Zero Defaults",
		// TopK and threshold left zero; config defaults must fill them.
		HyDEEnabled: true,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	cfg, err := tdb.tenants.GetTenantConfig(ctx, "zero")
	if err != nil {
		t.Fatalf("GetTenantConfig() error = %v", err)
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d, want defaulted 8", cfg.TopK)
	}
	if cfg.ConfidenceThreshold != 0.3 {
		t.Errorf("ConfidenceThreshold = %v, want defaulted 0.3", cfg.ConfidenceThreshold)
	}
	if !cfg.HyDEEnabled {
		t.Error("HyDEEnabled flag lost in mapping")
	}

	_, err = tdb.tenants.GetTenantConfig(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTenantConfig(missing) error = %v, want ErrNotFound", err)
	}
}

func TestTenantRepo_TopKCapped(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	err := tdb.tenants.Insert(ctx, &Tenant{ID: "big", Name: "Big", TopK: 100})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	cfg, err := tdb.tenants.GetTenantConfig(ctx, "big")
	if err != nil {
		t.Fatalf("GetTenantConfig() error = %v", err)
	}
	if cfg.TopK != 20 {
		t.Errorf("TopK = %d, want capped at 20", cfg.TopK)
	}
}
