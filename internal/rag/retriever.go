package rag

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"tenantrag/internal/contextutil"
)

const (
	// defaultRRFK is the reciprocal-rank-fusion smoothing constant.
	defaultRRFK = 60.0
	// defaultCandidatePool is the minimum size of the pass-1 candidate pool.
	defaultCandidatePool = 50
	// defaultMaxPerDocument caps how many chunks one document may contribute
	// when two-pass diversity selection is enabled.
	defaultMaxPerDocument = 3

	// Keyword boost tiers, applied on top of the fused score before confidence
	// scoring. Chunks near the top of the keyword list get the larger boost.
	keywordBoostTopRank  = 3
	keywordBoostTop      = 0.05
	keywordBoostBandRank = 10
	keywordBoostBand     = 0.02
)

// RetrieverConfig holds the retrieval tunables shared across tenants.
type RetrieverConfig struct {
	// RRFK is the fusion smoothing constant (default 60).
	RRFK float64
	// CandidatePool is the minimum pass-1 pool size; the effective pool is
	// max(topK*4, CandidatePool).
	CandidatePool int
	// MaxPerDocument caps chunks per source document in the diversity pass.
	MaxPerDocument int
}

// ApplyDefaults fills zero-valued tunables.
func (c *RetrieverConfig) ApplyDefaults() {
	if c.RRFK <= 0 {
		c.RRFK = defaultRRFK
	}
	if c.CandidatePool <= 0 {
		c.CandidatePool = defaultCandidatePool
	}
	if c.MaxPerDocument <= 0 {
		c.MaxPerDocument = defaultMaxPerDocument
	}
}

// Retriever performs hybrid (vector + lexical) search over a tenant's corpus and
// fuses the two ranked lists via reciprocal rank fusion. When two-pass selection
// is enabled it re-selects from the fused pool to guarantee source-document
// diversity instead of taking the raw top-K.
type Retriever struct {
	store ChunkStore
	cfg   RetrieverConfig
}

// NewRetriever creates a Retriever over the given chunk store.
func NewRetriever(store ChunkStore, cfg RetrieverConfig) *Retriever {
	cfg.ApplyDefaults()
	return &Retriever{store: store, cfg: cfg}
}

// Retrieve returns the tenant's best candidates for the query, ordered by fused
// rank. An empty keyword list degrades fusion to vector-only ranking. A tenant
// with zero chunks yields an empty slice, not an error.
//
// Ordering is deterministic for identical inputs: fused score descending, ties
// broken by vector score descending, then by document id and chunk index.
func (r *Retriever) Retrieve(ctx context.Context, tenantID string, embedding []float32, keywords []string, tenant TenantConfig) ([]Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pool := tenant.TopK * 4
	if pool < r.cfg.CandidatePool {
		pool = r.cfg.CandidatePool
	}

	// Pass 1: the two searches are independent reads and run concurrently.
	var vectorRefs, keywordRefs []ScoredChunkRef
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := r.store.VectorSearch(gctx, tenantID, embedding, pool)
		if err != nil {
			return WrapError(err, "vector search failed")
		}
		vectorRefs = refs
		return nil
	})
	if len(keywords) > 0 {
		g.Go(func() error {
			refs, err := r.store.KeywordSearch(gctx, tenantID, keywords, pool)
			if err != nil {
				return WrapError(err, "keyword search failed")
			}
			keywordRefs = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(vectorRefs) == 0 && len(keywordRefs) == 0 {
		logger.InfoContext(ctx, "retrieval found no candidates", "tenant_id", tenantID)
		return nil, nil
	}

	fused := fuse(vectorRefs, keywordRefs, r.cfg.RRFK)

	// Pass 2: enforce per-document caps so one dominant document cannot crowd
	// out the rest. Needs document ids, so chunk records are fetched first.
	ids := make([]string, len(fused))
	for i, f := range fused {
		ids[i] = f.chunkID
	}
	chunks, err := r.store.GetChunksByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, WrapError(err, "failed to fetch chunks")
	}
	byID := make(map[string]Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}

	candidates := make([]Candidate, 0, len(fused))
	for _, f := range fused {
		chunk, ok := byID[f.chunkID]
		if !ok {
			// Stale vector point with no backing chunk record.
			logger.WarnContext(ctx, "chunk missing from store, skipping", "chunk_id", f.chunkID)
			continue
		}
		candidates = append(candidates, Candidate{
			Chunk:        chunk,
			VectorScore:  f.vectorScore,
			KeywordScore: f.keywordScore,
			KeywordRank:  f.keywordRank,
			FusedScore:   f.fusedScore,
		})
	}

	// Deterministic ordering: fused score, then vector score, then position.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].FusedScore != candidates[j].FusedScore {
			return candidates[i].FusedScore > candidates[j].FusedScore
		}
		if candidates[i].VectorScore != candidates[j].VectorScore {
			return candidates[i].VectorScore > candidates[j].VectorScore
		}
		if candidates[i].Chunk.DocumentID != candidates[j].Chunk.DocumentID {
			return candidates[i].Chunk.DocumentID < candidates[j].Chunk.DocumentID
		}
		return candidates[i].Chunk.Index < candidates[j].Chunk.Index
	})

	if tenant.TwoPassEnabled {
		candidates = selectDiverse(candidates, tenant.TopK, r.cfg.MaxPerDocument)
	} else if len(candidates) > tenant.TopK {
		candidates = candidates[:tenant.TopK]
	}

	for i := range candidates {
		candidates[i].FusedRank = i + 1
	}

	logger.InfoContext(ctx, "retrieval completed",
		"tenant_id", tenantID,
		"pool", pool,
		"vector_hits", len(vectorRefs),
		"keyword_hits", len(keywordRefs),
		"selected", len(candidates),
	)
	return candidates, nil
}

// fusedRef carries per-chunk fusion state before chunk records are attached.
type fusedRef struct {
	chunkID      string
	vectorScore  float64
	keywordScore float64
	keywordRank  int
	fusedScore   float64
}

// fuse combines the two ranked lists via reciprocal rank fusion:
// score = sum over lists of 1/(k + rank), rank 1-based. Chunks missing from a
// list contribute nothing from it. The keyword boost is layered on afterwards.
func fuse(vectorRefs, keywordRefs []ScoredChunkRef, rrfK float64) []fusedRef {
	merged := make(map[string]*fusedRef, len(vectorRefs)+len(keywordRefs))

	for i, ref := range vectorRefs {
		merged[ref.ChunkID] = &fusedRef{
			chunkID:     ref.ChunkID,
			vectorScore: ref.Score,
			fusedScore:  1.0 / (rrfK + float64(i+1)),
		}
	}
	for i, ref := range keywordRefs {
		f, ok := merged[ref.ChunkID]
		if !ok {
			f = &fusedRef{chunkID: ref.ChunkID}
			merged[ref.ChunkID] = f
		}
		f.keywordScore = ref.Score
		f.keywordRank = i + 1
		f.fusedScore += 1.0 / (rrfK + float64(i+1))
	}

	out := make([]fusedRef, 0, len(merged))
	for _, f := range merged {
		switch {
		case f.keywordRank > 0 && f.keywordRank <= keywordBoostTopRank:
			f.fusedScore += keywordBoostTop
		case f.keywordRank > 0 && f.keywordRank <= keywordBoostBandRank:
			f.fusedScore += keywordBoostBand
		}
		out = append(out, *f)
	}
	return out
}

// selectDiverse walks the fused ranking taking at most maxPerDoc chunks from any
// single document. If the cap leaves slots unfilled once every document is
// exhausted, the remaining slots are filled from the skipped chunks in fused
// order, so topK is always honored when enough candidates exist.
func selectDiverse(candidates []Candidate, topK, maxPerDoc int) []Candidate {
	if len(candidates) <= topK {
		return candidates
	}

	selected := make([]Candidate, 0, topK)
	skipped := make([]Candidate, 0, len(candidates))
	perDoc := make(map[string]int)

	for _, c := range candidates {
		if len(selected) == topK {
			break
		}
		if perDoc[c.Chunk.DocumentID] >= maxPerDoc {
			skipped = append(skipped, c)
			continue
		}
		perDoc[c.Chunk.DocumentID]++
		selected = append(selected, c)
	}

	for _, c := range skipped {
		if len(selected) == topK {
			break
		}
		selected = append(selected, c)
	}
	return selected
}
