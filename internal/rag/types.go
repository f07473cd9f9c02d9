package rag

// Chunk is an immutable unit of retrievable text, produced at ingestion time.
// The pipeline reads chunks, it never creates or mutates them.
type Chunk struct {
	// ID is the stable chunk identifier (UUID, same as the vector store point ID).
	ID string `json:"id"`
	// DocumentID is the owning document identifier.
	DocumentID string `json:"document_id"`
	// DocumentTitle is the owning document title.
	DocumentTitle string `json:"document_title"`
	// Text is the raw chunk text content.
	Text string `json:"text"`
	// Index is the zero-based position of this chunk within its document.
	Index int `json:"index"`
	// StartChar and EndChar are the optional character-offset span within the document.
	StartChar int `json:"start_char,omitempty"`
	EndChar   int `json:"end_char,omitempty"`
	// TokenCount is the optional ingestion-time token count.
	TokenCount int `json:"token_count,omitempty"`
}

// Candidate is a chunk plus transient per-query scoring state.
// Candidates are created fresh per query and never persisted.
type Candidate struct {
	Chunk Chunk `json:"chunk"`
	// VectorScore is the cosine similarity from vector search (0 if absent from that list).
	VectorScore float64 `json:"vector_score"`
	// KeywordScore is the lexical match score (0 if absent from that list).
	KeywordScore float64 `json:"keyword_score"`
	// KeywordRank is the 1-based rank in the keyword list, 0 when absent.
	KeywordRank int `json:"keyword_rank,omitempty"`
	// FusedScore is the reciprocal-rank-fusion score plus any keyword boost.
	FusedScore float64 `json:"fused_score"`
	// FusedRank is the 1-based rank after fusion and diversity selection.
	FusedRank int `json:"fused_rank"`
	// Confidence is the per-candidate confidence derived after fusion.
	Confidence float64 `json:"confidence"`
}

// QueryRequest is the input to one pipeline execution. Immutable for its duration.
type QueryRequest struct {
	// Question is the user's natural-language question.
	Question string `json:"question"`
	// TenantID selects the tenant corpus to search.
	TenantID string `json:"tenant_id"`
	// SessionID optionally correlates requests from one conversation.
	SessionID string `json:"session_id,omitempty"`
	// Debug requests detailed retrieval diagnostics (gated by the tenant flag).
	Debug bool `json:"debug,omitempty"`
}

// Citation is a structured reference resolved from an inline marker in the answer.
type Citation struct {
	// ID is the sequential display id (1-based, order of first appearance in the answer).
	ID int `json:"id"`
	// ChunkID is the source chunk identifier. Empty for summary-level citations.
	ChunkID string `json:"chunk_id,omitempty"`
	// DocumentID and DocumentTitle identify the source document.
	DocumentID    string `json:"document_id"`
	DocumentTitle string `json:"document_title"`
	// Snippet is a bounded excerpt of the cited text.
	Snippet string `json:"snippet"`
	// Confidence is copied from the originating candidate.
	Confidence float64 `json:"confidence"`
	// Source distinguishes chunk-level citations from document-summary citations.
	Source CitationSource `json:"source"`
}

// CitationSource discriminates where a citation's context item came from.
type CitationSource string

const (
	CitationSourceChunk   CitationSource = "chunk"
	CitationSourceSummary CitationSource = "summary"
)

// TokenUsage is the per-request token breakdown.
type TokenUsage struct {
	EmbeddingTokens  int `json:"embedding_tokens"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Timings is the per-request latency breakdown in milliseconds.
type Timings struct {
	ExpandMs    int64 `json:"expand_ms"`
	EmbedMs     int64 `json:"embed_ms"`
	RetrieveMs  int64 `json:"retrieve_ms"`
	SummarizeMs int64 `json:"summarize_ms,omitempty"`
	GenerateMs  int64 `json:"generate_ms"`
	TotalMs     int64 `json:"total_ms"`
}

// QueryResponse is the output of one pipeline execution.
//
// Citation display ids form a contiguous 1-based sequence in order of first
// appearance in Answer. Confidence is always in [0,1].
type QueryResponse struct {
	Answer string `json:"answer"`
	// Citations are ordered by display id.
	Citations []Citation `json:"citations"`
	// Confidence is the overall answer confidence in [0,1].
	Confidence float64 `json:"confidence"`
	// ConfidenceLabel is the qualitative bucket: "high", "medium" or "low".
	ConfidenceLabel string `json:"confidence_label"`
	// ChunksRetrieved counts the candidates that survived retrieval.
	ChunksRetrieved int        `json:"chunks_retrieved"`
	Usage           TokenUsage `json:"usage"`
	Timings         Timings    `json:"timings"`
	// Cached reports whether this response was served from the answer cache.
	Cached bool `json:"cached,omitempty"`
	// Debug contains retrieval diagnostics when debug mode is enabled.
	Debug *DebugInfo `json:"debug,omitempty"`
}

// DebugInfo contains detailed retrieval information for debugging and evaluation.
type DebugInfo struct {
	// Candidates holds all retrieval candidates with scores and ranks.
	Candidates []DebugCandidate `json:"candidates"`
	// HypotheticalPassage is the HyDE expansion used for embedding, if any.
	HypotheticalPassage string `json:"hypothetical_passage,omitempty"`
	// Keywords are the extracted lexical-search terms.
	Keywords []string `json:"keywords,omitempty"`
	// Broad reports whether the question took the document-summary path.
	Broad bool `json:"broad,omitempty"`
}

// DebugCandidate is one retrieval candidate's scoring breakdown.
type DebugCandidate struct {
	ChunkID       string  `json:"chunk_id"`
	DocumentID    string  `json:"document_id"`
	DocumentTitle string  `json:"document_title"`
	ScoreVector   float64 `json:"score_vector"`
	ScoreKeyword  float64 `json:"score_keyword,omitempty"`
	ScoreFused    float64 `json:"score_fused"`
	Rank          int     `json:"rank"`
	Text          string  `json:"text"`
}

// TenantConfig holds the per-tenant tunables consumed, not owned, by the pipeline.
// It is supplied by the tenant-configuration collaborator at the start of each
// request and treated as read-only.
type TenantConfig struct {
	// TopK is the candidate count requested from retrieval.
	TopK int `json:"top_k"`
	// ConfidenceThreshold is the minimum acceptable fused confidence.
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	// ChunkSize and ChunkOverlap are ingestion-time settings, informational only here.
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`
	// Feature flags.
	HyDEEnabled      bool `json:"hyde_enabled"`
	KeywordsEnabled  bool `json:"keywords_enabled"`
	TwoPassEnabled   bool `json:"two_pass_enabled"`
	DebugEnabled     bool `json:"debug_enabled"`
	SummariesEnabled bool `json:"summaries_enabled"`
}

// ApplyDefaults fills zero-valued tunables with defaults and enforces bounds.
func (c *TenantConfig) ApplyDefaults() {
	if c.TopK <= 0 {
		c.TopK = 8
	}
	if c.TopK > 20 {
		c.TopK = 20
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = 0.3
	}
}

// ContextItem is one unit of grounded context handed to the answer generator.
// Items are numbered 1..n in presentation order; inline citation markers in the
// generated answer reference them by that position.
type ContextItem struct {
	// Candidate backs chunk-level items; nil for document-summary items.
	Candidate *Candidate
	// Summary backs summary-level items; nil for chunk items.
	Summary *DocumentSummary
	// Text is the context text placed in the prompt.
	Text string
	// DocumentID and DocumentTitle identify the source document.
	DocumentID    string
	DocumentTitle string
	// Confidence is carried into citations resolved against this item.
	Confidence float64
	// Source tags the citation kind produced from this item.
	Source CitationSource
}
