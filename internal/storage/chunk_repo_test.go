package storage

import (
	"context"
	"errors"
	"testing"
)

func TestChunkRepo_GetByIDs(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	tdb.seedTenant(t, "acme")
	tdb.seedTenant(t, "globex")
	tdb.seedDocument(t, "acme", "doc-1", "Q3 Report", "revenue text", "margin text")
	tdb.seedDocument(t, "globex", "doc-2", "Other Report", "other text")

	t.Run("returns tenant's chunks", func(t *testing.T) {
		chunks, err := tdb.chunks.GetByIDs(ctx, "acme", []string{"doc-1-c0", "doc-1-c1"})
		if err != nil {
			t.Fatalf("GetByIDs() error = %v", err)
		}
		if len(chunks) != 2 {
			t.Errorf("GetByIDs() returned %d chunks, want 2", len(chunks))
		}
	})

	t.Run("tenant isolation", func(t *testing.T) {
		// Another tenant's chunk id yields nothing, not an error.
		chunks, err := tdb.chunks.GetByIDs(ctx, "acme", []string{"doc-2-c0"})
		if err != nil {
			t.Fatalf("GetByIDs() error = %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("GetByIDs() leaked %d chunks across tenants", len(chunks))
		}
	})

	t.Run("missing ids silently absent", func(t *testing.T) {
		chunks, err := tdb.chunks.GetByIDs(ctx, "acme", []string{"doc-1-c0", "nope"})
		if err != nil {
			t.Fatalf("GetByIDs() error = %v", err)
		}
		if len(chunks) != 1 {
			t.Errorf("GetByIDs() returned %d chunks, want 1", len(chunks))
		}
	})

	t.Run("empty ids", func(t *testing.T) {
		chunks, err := tdb.chunks.GetByIDs(ctx, "acme", nil)
		if err != nil {
			t.Fatalf("GetByIDs() error = %v", err)
		}
		if chunks != nil {
			t.Errorf("GetByIDs(nil) = %v, want nil", chunks)
		}
	})
}

func TestChunkRepo_GetByID_NotFound(t *testing.T) {
	tdb := newTestDB(t)

	_, err := tdb.chunks.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestChunkRepo_ListByTenantMatching(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	tdb.seedTenant(t, "acme")
	tdb.seedDocument(t, "acme", "doc-1", "Q3 Report",
		"Total revenue for Q3 was $150 million.",
		"Operating margins improved.",
		"Headcount grew to 1200 employees.")

	t.Run("matches any keyword case-insensitively", func(t *testing.T) {
		chunks, err := tdb.chunks.ListByTenantMatching(ctx, "acme", []string{"REVENUE", "margins"}, 10)
		if err != nil {
			t.Fatalf("ListByTenantMatching() error = %v", err)
		}
		if len(chunks) != 2 {
			t.Errorf("ListByTenantMatching() returned %d chunks, want 2", len(chunks))
		}
	})

	t.Run("no keywords yields nothing", func(t *testing.T) {
		chunks, err := tdb.chunks.ListByTenantMatching(ctx, "acme", nil, 10)
		if err != nil {
			t.Fatalf("ListByTenantMatching() error = %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("ListByTenantMatching() returned %d chunks, want 0", len(chunks))
		}
	})

	t.Run("limit honored", func(t *testing.T) {
		chunks, err := tdb.chunks.ListByTenantMatching(ctx, "acme", []string{"e"}, 2)
		if err != nil {
			t.Fatalf("ListByTenantMatching() error = %v", err)
		}
		if len(chunks) != 2 {
			t.Errorf("ListByTenantMatching() returned %d chunks, want 2", len(chunks))
		}
	})
}

func TestChunkRepo_ListByDocument_Ordered(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	tdb.seedTenant(t, "acme")
	tdb.seedDocument(t, "acme", "doc-1", "Report", "first", "second", "third")

	chunks, err := tdb.chunks.ListByDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("ListByDocument() returned %d chunks, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.ChunkIndex != i {
			t.Errorf("chunk %d has index %d, out of order", i, chunk.ChunkIndex)
		}
	}
}

func TestChunkRepo_DeleteByDocument(t *testing.T) {
	tdb := newTestDB(t)
	ctx := context.Background()

	tdb.seedTenant(t, "acme")
	tdb.seedDocument(t, "acme", "doc-1", "Report", "a", "b")

	if err := tdb.chunks.DeleteByDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("DeleteByDocument() error = %v", err)
	}

	count, err := tdb.chunks.CountByTenant(ctx, "acme")
	if err != nil {
		t.Fatalf("CountByTenant() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountByTenant() = %d after delete, want 0", count)
	}
}
