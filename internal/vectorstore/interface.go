package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks tenantrag/internal/vectorstore VectorStore

import "context"

// Point is one embedded chunk to store. Payload carries chunk metadata and
// must include a "tenant_id" entry so searches can be tenant-scoped.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// SearchResult is one similarity-search hit.
type SearchResult struct {
	PointID string
	Score   float32
	Payload map[string]any
}

// VectorStore abstracts the vector database. Every search is filtered to a
// single tenant through the filters argument; callers must never receive
// points belonging to another tenant's documents.
type VectorStore interface {
	Upsert(ctx context.Context, collection string, points []Point) error
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)
	Delete(ctx context.Context, collection string, ids []string) error
}
