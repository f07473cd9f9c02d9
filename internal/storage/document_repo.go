package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DocumentRepo provides document row operations.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts a document row.
func (r *DocumentRepo) Insert(ctx context.Context, doc *Document) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (id, tenant_id, title) VALUES (?, ?, ?)",
		doc.ID, doc.TenantID, doc.Title,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID gets a document by id. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := r.db.QueryRowContext(ctx,
		"SELECT id, tenant_id, title, created_at FROM documents WHERE id = ?", id,
	).Scan(&doc.ID, &doc.TenantID, &doc.Title, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return &doc, nil
}

// TitlesByIDs returns a map of document id to title for the given ids.
// Missing ids are simply absent from the map.
func (r *DocumentRepo) TitlesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title FROM documents WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query document titles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	titles := make(map[string]string, len(ids))
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("failed to scan document title: %w", err)
		}
		titles[id] = title
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return titles, nil
}

// ListByTenant returns a tenant's documents ordered by creation time.
func (r *DocumentRepo) ListByTenant(ctx context.Context, tenantID string) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, tenant_id, title, created_at FROM documents WHERE tenant_id = ? ORDER BY created_at", tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.TenantID, &doc.Title, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

// Delete removes a document row. Chunks are removed separately so the caller
// can also clear the vector store.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
