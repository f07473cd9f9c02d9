package storage

import (
	"context"
	"database/sql"
	"fmt"

	"tenantrag/internal/rag"
)

// TenantRepo provides tenant row operations and serves as the pipeline's
// tenant-configuration source.
type TenantRepo struct {
	db *sql.DB
}

// NewTenantRepo creates a new TenantRepo.
func NewTenantRepo(db *sql.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

// GetByID gets a tenant by id. Returns ErrNotFound if not found.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*Tenant, error) {
	var t Tenant
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, top_k, confidence_threshold, chunk_size, chunk_overlap,
		        hyde_enabled, keywords_enabled, two_pass_enabled, debug_enabled, summaries_enabled, created_at
		 FROM tenants WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.TopK, &t.ConfidenceThreshold, &t.ChunkSize, &t.ChunkOverlap,
		&t.HyDEEnabled, &t.KeywordsEnabled, &t.TwoPassEnabled, &t.DebugEnabled, &t.SummariesEnabled, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant: %w", err)
	}
	return &t, nil
}

// ListAll returns all tenants ordered by name.
func (r *TenantRepo) ListAll(ctx context.Context) ([]Tenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, top_k, confidence_threshold, chunk_size, chunk_overlap,
		        hyde_enabled, keywords_enabled, two_pass_enabled, debug_enabled, summaries_enabled, created_at
		 FROM tenants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.TopK, &t.ConfidenceThreshold, &t.ChunkSize, &t.ChunkOverlap,
			&t.HyDEEnabled, &t.KeywordsEnabled, &t.TwoPassEnabled, &t.DebugEnabled, &t.SummariesEnabled, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tenants, nil
}

// Insert inserts a tenant row.
func (r *TenantRepo) Insert(ctx context.Context, t *Tenant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (id, name, top_k, confidence_threshold, chunk_size, chunk_overlap,
		                      hyde_enabled, keywords_enabled, two_pass_enabled, debug_enabled, summaries_enabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.TopK, t.ConfidenceThreshold, t.ChunkSize, t.ChunkOverlap,
		t.HyDEEnabled, t.KeywordsEnabled, t.TwoPassEnabled, t.DebugEnabled, t.SummariesEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}
	return nil
}

// GetTenantConfig implements rag.TenantConfigSource: it maps the tenant row to
// the pipeline's read-only tunables.
func (r *TenantRepo) GetTenantConfig(ctx context.Context, tenantID string) (rag.TenantConfig, error) {
	t, err := r.GetByID(ctx, tenantID)
	if err != nil {
		return rag.TenantConfig{}, err
	}
	cfg := rag.TenantConfig{
		TopK:                t.TopK,
		ConfidenceThreshold: t.ConfidenceThreshold,
		ChunkSize:           t.ChunkSize,
		ChunkOverlap:        t.ChunkOverlap,
		HyDEEnabled:         t.HyDEEnabled,
		KeywordsEnabled:     t.KeywordsEnabled,
		TwoPassEnabled:      t.TwoPassEnabled,
		DebugEnabled:        t.DebugEnabled,
		SummariesEnabled:    t.SummariesEnabled,
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
