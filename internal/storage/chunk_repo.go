package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ChunkRepo provides chunk row operations.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert inserts a single chunk. chunk.ID must be set (UUID, shared with the
// vector store point) before calling.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *ChunkRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chunks (id, tenant_id, document_id, chunk_index, start_char, end_char, token_count, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		chunk.ID, chunk.TenantID, chunk.DocumentID, chunk.ChunkIndex,
		chunk.StartChar, chunk.EndChar, chunk.TokenCount, chunk.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// GetByID gets a chunk by its id. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	var chunk ChunkRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, document_id, chunk_index, start_char, end_char, token_count, text
		 FROM chunks WHERE id = ?`, id,
	).Scan(&chunk.ID, &chunk.TenantID, &chunk.DocumentID, &chunk.ChunkIndex,
		&chunk.StartChar, &chunk.EndChar, &chunk.TokenCount, &chunk.Text)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}
	return &chunk, nil
}

// GetByIDs fetches chunk rows for the given ids, scoped to one tenant.
// Missing ids are silently absent from the result, not an error.
func (r *ChunkRepo) GetByIDs(ctx context.Context, tenantID string, ids []string) ([]ChunkRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids)+1)
	args = append(args, tenantID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, document_id, chunk_index, start_char, end_char, token_count, text
		 FROM chunks WHERE tenant_id = ? AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		if err := rows.Scan(&chunk.ID, &chunk.TenantID, &chunk.DocumentID, &chunk.ChunkIndex,
			&chunk.StartChar, &chunk.EndChar, &chunk.TokenCount, &chunk.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}

// ListByTenantMatching returns the tenant's chunks whose text contains at least
// one of the keywords (case-insensitive). Used as the candidate pool for
// lexical scoring; ranking happens in the corpus adapter.
func (r *ChunkRepo) ListByTenantMatching(ctx context.Context, tenantID string, keywords []string, limit int) ([]ChunkRecord, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords)+2)
	args = append(args, tenantID)
	for _, kw := range keywords {
		conditions = append(conditions, "lower(text) LIKE ?")
		args = append(args, "%"+strings.ToLower(kw)+"%")
	}
	args = append(args, limit)

	query := `SELECT id, tenant_id, document_id, chunk_index, start_char, end_char, token_count, text
		 FROM chunks WHERE tenant_id = ? AND (` + strings.Join(conditions, " OR ") + `)
		 ORDER BY document_id, chunk_index LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		if err := rows.Scan(&chunk.ID, &chunk.TenantID, &chunk.DocumentID, &chunk.ChunkIndex,
			&chunk.StartChar, &chunk.EndChar, &chunk.TokenCount, &chunk.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}

// ListByDocument returns all chunks of one document ordered by chunk_index.
func (r *ChunkRepo) ListByDocument(ctx context.Context, documentID string) ([]ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, document_id, chunk_index, start_char, end_char, token_count, text
		 FROM chunks WHERE document_id = ? ORDER BY chunk_index`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query document chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		if err := rows.Scan(&chunk.ID, &chunk.TenantID, &chunk.DocumentID, &chunk.ChunkIndex,
			&chunk.StartChar, &chunk.EndChar, &chunk.TokenCount, &chunk.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}

// DeleteByDocument deletes all chunks for a given document id.
func (r *ChunkRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by document: %w", err)
	}
	return nil
}

// CountByTenant returns the number of chunks in one tenant's corpus.
func (r *ChunkRepo) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE tenant_id = ?", tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
