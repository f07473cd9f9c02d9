package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks tenantrag/internal/rag Engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"tenantrag/internal/contextutil"
)

// Engine sequences the full retrieval-and-answer pipeline for one request:
// cache check, query expansion, embedding, hybrid retrieval, optional document
// summarization, grounded generation, citation parsing and cache population.
type Engine interface {
	// Query answers a question and returns the complete response.
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
	// QueryStream answers a question, emitting token chunks as they are
	// generated, then citations, then the completion event. Event ordering is
	// chunk* -> citations -> complete, or an error at any point, terminal.
	QueryStream(ctx context.Context, req QueryRequest, handler StreamHandler) error
}

// StreamHandler receives the events of one streaming query.
// Nil callbacks are skipped.
type StreamHandler struct {
	OnChunk     func(chunk string) error
	OnCitations func(citations []Citation) error
	OnComplete  func(resp QueryResponse) error
}

// Config holds process-wide pipeline settings (per-tenant tunables live in
// TenantConfig).
type Config struct {
	Retriever RetrieverConfig
	// SummaryWorkers bounds concurrent per-document summarization calls.
	SummaryWorkers int64
	// CacheTTL is how long finished answers stay cached.
	CacheTTL time.Duration
}

// noContextAnswer is returned when retrieval finds nothing to ground an answer in.
const noContextAnswer = "I couldn't find any relevant information in this tenant's documents to answer that question."

type engine struct {
	embedder   EmbeddingProvider
	expander   *QueryExpander
	keywords   *KeywordExtractor
	retriever  *Retriever
	scorer     *ConfidenceScorer
	summarizer *Summarizer
	generator  *Generator
	cache      AnswerCache
	tenants    TenantConfigSource
	cacheTTL   time.Duration
}

// NewEngine constructs the pipeline. All collaborators are injected so tests
// can build isolated instances; there is no ambient singleton state.
func NewEngine(
	embedder EmbeddingProvider,
	completions CompletionProvider,
	store ChunkStore,
	cache AnswerCache,
	tenants TenantConfigSource,
	cfg Config,
) Engine {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	return &engine{
		embedder:   embedder,
		expander:   NewQueryExpander(completions),
		keywords:   NewKeywordExtractor(completions),
		retriever:  NewRetriever(store, cfg.Retriever),
		scorer:     NewConfidenceScorer(),
		summarizer: NewSummarizer(store, completions, cfg.SummaryWorkers),
		generator:  NewGenerator(completions),
		cache:      cache,
		tenants:    tenants,
		cacheTTL:   cfg.CacheTTL,
	}
}

// Query answers a question using the full pipeline.
func (e *engine) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	return e.run(ctx, req, StreamHandler{})
}

// QueryStream answers a question, streaming generation through the handler.
func (e *engine) QueryStream(ctx context.Context, req QueryRequest, handler StreamHandler) error {
	_, err := e.run(ctx, req, handler)
	return err
}

// run executes the pipeline. A zero-valued handler means non-streaming.
func (e *engine) run(ctx context.Context, req QueryRequest, handler StreamHandler) (QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()
	streaming := handler.OnChunk != nil

	if err := ValidateQuestion(req.Question); err != nil {
		return QueryResponse{}, err
	}
	if req.TenantID == "" {
		return QueryResponse{}, &ValidationError{Field: "tenant_id", Message: "cannot be empty"}
	}

	logger.InfoContext(ctx, "rag query started",
		"tenant_id", req.TenantID, "session_id", req.SessionID, "streaming", streaming)

	// Conversational fast-path: greetings and help requests are answered
	// directly, with no retrieval and no citations.
	if IsConversational(req.Question) {
		return e.conversational(ctx, req, handler, started)
	}

	tenant, err := e.tenants.GetTenantConfig(ctx, req.TenantID)
	if err != nil {
		return QueryResponse{}, WrapError(err, "failed to load tenant config")
	}
	tenant.ApplyDefaults()
	debug := req.Debug && tenant.DebugEnabled

	// Cache check runs before any provider call; a hit skips the whole pipeline.
	cacheKey := CacheKey(req.TenantID, req.Question)
	if cached := e.cacheGet(ctx, cacheKey); cached != nil {
		logger.InfoContext(ctx, "cache hit", "tenant_id", req.TenantID)
		cached.Cached = true
		cached.Timings.TotalMs = time.Since(started).Milliseconds()
		if err := e.emitWhole(handler, *cached); err != nil {
			return QueryResponse{}, err
		}
		return *cached, nil
	}

	question := SanitizeQuestion(ctx, req.Question)
	var usage TokenUsage
	var timings Timings

	// Query expansion (HyDE). Degrades to the raw question on failure.
	embedText := question
	var hypothetical string
	if tenant.HyDEEnabled {
		expandStart := time.Now()
		passage, tokens := e.expander.Expand(ctx, question)
		timings.ExpandMs = time.Since(expandStart).Milliseconds()
		usage.CompletionTokens += tokens
		if passage != question {
			hypothetical = passage
		}
		embedText = passage
	}

	// Keyword extraction for the lexical half of hybrid search.
	var keywords []string
	if tenant.KeywordsEnabled {
		keywords = e.keywords.Extract(ctx, question, true)
	}

	embedStart := time.Now()
	embedding, embedTokens, err := e.embedder.Embed(ctx, embedText)
	timings.EmbedMs = time.Since(embedStart).Milliseconds()
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return QueryResponse{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	usage.EmbeddingTokens += embedTokens

	retrieveStart := time.Now()
	candidates, err := e.retriever.Retrieve(ctx, req.TenantID, embedding, keywords, tenant)
	timings.RetrieveMs = time.Since(retrieveStart).Milliseconds()
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return QueryResponse{}, fmt.Errorf("%w: %w", ErrVectorStore, err)
	}

	if len(candidates) == 0 {
		resp := QueryResponse{
			Answer:          noContextAnswer,
			Citations:       []Citation{},
			Confidence:      0,
			ConfidenceLabel: "low",
			Usage:           usage,
			Timings:         withTotal(timings, started),
		}
		if err := e.emitWhole(handler, resp); err != nil {
			return QueryResponse{}, err
		}
		return resp, nil
	}

	for i := range candidates {
		candidates[i].Confidence = e.scorer.ScoreCandidate(candidates[i])
	}

	// Broad questions additionally get document-level summaries as context.
	var summaries []DocumentSummary
	broad := tenant.SummariesEnabled && IsBroadQuestion(question)
	if broad {
		summarizeStart := time.Now()
		var summaryTokens int
		summaries, summaryTokens = e.summarizer.Summarize(ctx, req.TenantID, question, candidates)
		timings.SummarizeMs = time.Since(summarizeStart).Milliseconds()
		usage.CompletionTokens += summaryTokens
	}

	items := BuildContextItems(candidates, summaries)

	generateStart := time.Now()
	var completion Completion
	if streaming {
		completion, err = e.generator.GenerateStream(ctx, question, items, handler.OnChunk)
	} else {
		completion, err = e.generator.Generate(ctx, question, items)
	}
	timings.GenerateMs = time.Since(generateStart).Milliseconds()
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "error", err)
		return QueryResponse{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	usage.PromptTokens += completion.PromptTokens
	usage.CompletionTokens += completion.CompletionTokens

	// Generation succeeded; everything past this point is best-effort and must
	// not surface as a request failure.
	citations, answer := ParseCitations(ctx, completion.Text, items)

	confidence, label := e.scorer.Score(candidates)
	resp := QueryResponse{
		Answer:          answer,
		Citations:       citations,
		Confidence:      confidence,
		ConfidenceLabel: label,
		ChunksRetrieved: len(candidates),
		Usage:           usage,
		Timings:         withTotal(timings, started),
	}
	if debug {
		resp.Debug = buildDebugInfo(candidates, hypothetical, keywords, broad)
	}

	// Cache population is idempotent: the value is a pure function of
	// (tenant, normalized question). Debug responses are not cached.
	if !debug {
		e.cacheSet(ctx, cacheKey, resp)
	}

	if err := e.emitTail(handler, resp); err != nil {
		return QueryResponse{}, err
	}

	logger.InfoContext(ctx, "rag query completed",
		"tenant_id", req.TenantID,
		"chunks", len(candidates),
		"citations", len(citations),
		"confidence", confidence,
		"total_ms", resp.Timings.TotalMs,
	)
	return resp, nil
}

func (e *engine) conversational(ctx context.Context, req QueryRequest, handler StreamHandler, started time.Time) (QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "conversational fast-path", "tenant_id", req.TenantID)

	completion, err := e.generator.ConversationalReply(ctx, req.Question)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	resp := QueryResponse{
		Answer:          completion.Text,
		Citations:       []Citation{},
		Confidence:      1,
		ConfidenceLabel: "high",
		Usage: TokenUsage{
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
		},
		Timings: withTotal(Timings{}, started),
	}
	if err := e.emitWhole(handler, resp); err != nil {
		return QueryResponse{}, err
	}
	return resp, nil
}

// emitWhole delivers a response that was not produced by streaming generation
// (cache hits, fast-path and no-context answers) through the handler as a
// single chunk followed by the tail events.
func (e *engine) emitWhole(handler StreamHandler, resp QueryResponse) error {
	if handler.OnChunk != nil && resp.Answer != "" {
		if err := handler.OnChunk(resp.Answer); err != nil {
			return err
		}
	}
	return e.emitTail(handler, resp)
}

// emitTail delivers the citations and completion events.
func (e *engine) emitTail(handler StreamHandler, resp QueryResponse) error {
	if handler.OnCitations != nil {
		if err := handler.OnCitations(resp.Citations); err != nil {
			return err
		}
	}
	if handler.OnComplete != nil {
		return handler.OnComplete(resp)
	}
	return nil
}

func (e *engine) cacheGet(ctx context.Context, key string) *QueryResponse {
	if e.cache == nil {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)
	resp, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			// Best-effort: a failing cache only skips the optimization.
			logger.WarnContext(ctx, "cache read failed", "error", err)
		}
		return nil
	}
	return resp
}

func (e *engine) cacheSet(ctx context.Context, key string, resp QueryResponse) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, &resp, e.cacheTTL); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "cache write failed", "error", err)
	}
}

func withTotal(t Timings, started time.Time) Timings {
	t.TotalMs = time.Since(started).Milliseconds()
	return t
}

func buildDebugInfo(candidates []Candidate, hypothetical string, keywords []string, broad bool) *DebugInfo {
	debugCandidates := make([]DebugCandidate, 0, len(candidates))
	for _, c := range candidates {
		debugCandidates = append(debugCandidates, DebugCandidate{
			ChunkID:       c.Chunk.ID,
			DocumentID:    c.Chunk.DocumentID,
			DocumentTitle: c.Chunk.DocumentTitle,
			ScoreVector:   c.VectorScore,
			ScoreKeyword:  c.KeywordScore,
			ScoreFused:    c.FusedScore,
			Rank:          c.FusedRank,
			Text:          c.Chunk.Text,
		})
	}
	return &DebugInfo{
		Candidates:          debugCandidates,
		HypotheticalPassage: hypothetical,
		Keywords:            keywords,
		Broad:               broad,
	}
}

// CacheKey derives the tenant-prefixed cache key from the normalized question,
// so near-duplicate questions (case, punctuation, spacing) still hit.
func CacheKey(tenantID, question string) string {
	normalized := normalizeQuestion(question)
	sum := sha256.Sum256([]byte(normalized))
	return "rag:" + tenantID + ":" + hex.EncodeToString(sum[:])
}

// normalizeQuestion case-folds, strips punctuation and collapses whitespace.
func normalizeQuestion(question string) string {
	tokens := tokenize(question)
	if len(tokens) == 0 {
		return ""
	}
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}
