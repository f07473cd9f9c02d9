package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_providers.go -package=mocks tenantrag/internal/rag EmbeddingProvider,CompletionProvider,ChunkStore,AnswerCache,TenantConfigSource

import (
	"context"
	"time"
)

// Message is a single message in a completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompleteOptions holds parameters for completion requests.
type CompleteOptions struct {
	// MaxTokens caps the generated length. 0 means no limit.
	MaxTokens int
	// Temperature controls output randomness.
	Temperature float32
}

// Completion is the result of a non-streaming completion call.
type Completion struct {
	Text             string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

// EmbeddingProvider converts text to fixed-length vectors.
// These interfaces are defined from the pipeline's perspective (consumer-first);
// concrete vendor clients live in internal/llm.
type EmbeddingProvider interface {
	// Embed returns the embedding vector for one text and the tokens consumed.
	Embed(ctx context.Context, text string) ([]float32, int, error)
	// EmbedBatch returns one vector per input text and the total tokens consumed.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, int, error)
}

// CompletionProvider generates text from a message sequence.
type CompletionProvider interface {
	// Complete performs a non-streaming completion.
	Complete(ctx context.Context, messages []Message, opts CompleteOptions) (Completion, error)
	// StreamComplete performs a streaming completion, invoking onChunk for each
	// generated text fragment, and returns the final completion (full text plus usage).
	// A non-nil error from onChunk cancels the stream.
	StreamComplete(ctx context.Context, messages []Message, opts CompleteOptions, onChunk func(chunk string) error) (Completion, error)
}

// ScoredChunkRef is a chunk id with a retrieval score, as returned by one ranked list.
type ScoredChunkRef struct {
	ChunkID string
	Score   float64
}

// ChunkStore is the read-only view of a tenant's chunk corpus.
type ChunkStore interface {
	// VectorSearch returns chunk ids ranked by cosine similarity to the embedding.
	VectorSearch(ctx context.Context, tenantID string, embedding []float32, limit int) ([]ScoredChunkRef, error)
	// KeywordSearch returns chunk ids ranked by lexical overlap with the keywords.
	KeywordSearch(ctx context.Context, tenantID string, keywords []string, limit int) ([]ScoredChunkRef, error)
	// GetChunksByIDs fetches full chunk records for the given ids.
	GetChunksByIDs(ctx context.Context, tenantID string, ids []string) ([]Chunk, error)
	// GetDocumentFullText returns the concatenated text of one document.
	GetDocumentFullText(ctx context.Context, tenantID, documentID string) (string, error)
}

// AnswerCache stores finished responses keyed by (tenant, normalized question).
// Reads and writes are best-effort: a failing cache must never fail a request.
type AnswerCache interface {
	// Get returns the cached response for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (*QueryResponse, error)
	// Set stores resp under key with the given TTL. Last write wins.
	Set(ctx context.Context, key string, resp *QueryResponse, ttl time.Duration) error
}

// TenantConfigSource supplies per-tenant tunables at the start of each request.
type TenantConfigSource interface {
	// GetTenantConfig returns the tenant's pipeline configuration.
	GetTenantConfig(ctx context.Context, tenantID string) (TenantConfig, error)
}
