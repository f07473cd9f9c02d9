package rag_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"tenantrag/internal/rag"
	"tenantrag/internal/rag/mocks"
)

func candidateIDs(candidates []rag.Candidate) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.Chunk.ID
	}
	return ids
}

func TestRetriever_FusionPrefersBothLists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{})
	ctx := context.Background()
	tenant := rag.TenantConfig{TopK: 8}

	// Chunk B appears in both ranked lists; A is vector-only, C keyword-only.
	store.EXPECT().
		VectorSearch(gomock.Any(), "acme", gomock.Any(), 50).
		Return([]rag.ScoredChunkRef{
			{ChunkID: "a", Score: 0.9},
			{ChunkID: "b", Score: 0.8},
		}, nil)
	store.EXPECT().
		KeywordSearch(gomock.Any(), "acme", []string{"revenue"}, 50).
		Return([]rag.ScoredChunkRef{
			{ChunkID: "b", Score: 1.0},
			{ChunkID: "c", Score: 0.5},
		}, nil)
	store.EXPECT().
		GetChunksByIDs(gomock.Any(), "acme", gomock.Any()).
		Return([]rag.Chunk{
			{ID: "a", DocumentID: "d1", Index: 0},
			{ID: "b", DocumentID: "d1", Index: 1},
			{ID: "c", DocumentID: "d2", Index: 0},
		}, nil)

	candidates, err := retriever.Retrieve(ctx, "acme", []float32{0.1}, []string{"revenue"}, tenant)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("Retrieve() returned %d candidates, want 3", len(candidates))
	}
	if candidates[0].Chunk.ID != "b" {
		t.Errorf("top candidate = %q, want %q (present in both lists)", candidates[0].Chunk.ID, "b")
	}
	for i, c := range candidates {
		if c.FusedRank != i+1 {
			t.Errorf("candidate %d fused rank = %d, want %d", i, c.FusedRank, i+1)
		}
	}
	if candidates[0].VectorScore != 0.8 || candidates[0].KeywordRank != 1 {
		t.Errorf("top candidate signals not carried: %+v", candidates[0])
	}
}

func TestRetriever_Deterministic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{})
	ctx := context.Background()
	tenant := rag.TenantConfig{TopK: 8}

	vectorRefs := []rag.ScoredChunkRef{
		{ChunkID: "a", Score: 0.9},
		{ChunkID: "b", Score: 0.85},
		{ChunkID: "c", Score: 0.8},
	}
	keywordRefs := []rag.ScoredChunkRef{
		{ChunkID: "c", Score: 0.7},
		{ChunkID: "a", Score: 0.6},
	}
	chunks := []rag.Chunk{
		{ID: "a", DocumentID: "d1", Index: 0},
		{ID: "b", DocumentID: "d1", Index: 1},
		{ID: "c", DocumentID: "d2", Index: 0},
	}

	store.EXPECT().VectorSearch(gomock.Any(), "acme", gomock.Any(), 50).Return(vectorRefs, nil).Times(2)
	store.EXPECT().KeywordSearch(gomock.Any(), "acme", gomock.Any(), 50).Return(keywordRefs, nil).Times(2)
	store.EXPECT().GetChunksByIDs(gomock.Any(), "acme", gomock.Any()).Return(chunks, nil).Times(2)

	first, err := retriever.Retrieve(ctx, "acme", []float32{0.1}, []string{"x"}, tenant)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	second, err := retriever.Retrieve(ctx, "acme", []float32{0.1}, []string{"x"}, tenant)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}

	firstIDs := candidateIDs(first)
	secondIDs := candidateIDs(second)
	if fmt.Sprint(firstIDs) != fmt.Sprint(secondIDs) {
		t.Errorf("ordering not deterministic: %v vs %v", firstIDs, secondIDs)
	}
}

func TestRetriever_DiversitySelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{MaxPerDocument: 3})
	ctx := context.Background()
	tenant := rag.TenantConfig{TopK: 8, TwoPassEnabled: true}

	// One dominant document fills the top of the vector ranking.
	var refs []rag.ScoredChunkRef
	var chunks []rag.Chunk
	add := func(id, doc string, index int, score float64) {
		refs = append(refs, rag.ScoredChunkRef{ChunkID: id, Score: score})
		chunks = append(chunks, rag.Chunk{ID: id, DocumentID: doc, Index: index})
	}
	score := 0.99
	for i := 0; i < 10; i++ {
		add(fmt.Sprintf("d1c%d", i), "d1", i, score)
		score -= 0.01
	}
	add("d2c0", "d2", 0, score)
	score -= 0.01
	add("d2c1", "d2", 1, score)
	score -= 0.01
	add("d3c0", "d3", 0, score)
	score -= 0.01
	add("d3c1", "d3", 1, score)
	score -= 0.01
	add("d4c0", "d4", 0, score)

	store.EXPECT().VectorSearch(gomock.Any(), "acme", gomock.Any(), 50).Return(refs, nil)
	store.EXPECT().GetChunksByIDs(gomock.Any(), "acme", gomock.Any()).Return(chunks, nil)

	candidates, err := retriever.Retrieve(ctx, "acme", []float32{0.1}, nil, tenant)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(candidates) != 8 {
		t.Fatalf("Retrieve() returned %d candidates, want 8", len(candidates))
	}

	perDoc := make(map[string]int)
	for _, c := range candidates {
		perDoc[c.Chunk.DocumentID]++
	}
	if perDoc["d1"] != 3 {
		t.Errorf("dominant document contributed %d chunks, want 3", perDoc["d1"])
	}
	if len(perDoc) != 4 {
		t.Errorf("candidates span %d documents, want 4", len(perDoc))
	}
}

func TestRetriever_DiversitySpillover(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{MaxPerDocument: 3})
	ctx := context.Background()
	tenant := rag.TenantConfig{TopK: 5, TwoPassEnabled: true}

	// Only one document exists; the cap cannot starve topK.
	var refs []rag.ScoredChunkRef
	var chunks []rag.Chunk
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("c%d", i)
		refs = append(refs, rag.ScoredChunkRef{ChunkID: id, Score: 0.9 - float64(i)*0.01})
		chunks = append(chunks, rag.Chunk{ID: id, DocumentID: "d1", Index: i})
	}

	store.EXPECT().VectorSearch(gomock.Any(), "acme", gomock.Any(), 50).Return(refs, nil)
	store.EXPECT().GetChunksByIDs(gomock.Any(), "acme", gomock.Any()).Return(chunks, nil)

	candidates, err := retriever.Retrieve(ctx, "acme", []float32{0.1}, nil, tenant)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(candidates) != 5 {
		t.Errorf("Retrieve() returned %d candidates, want 5 (cap spillover)", len(candidates))
	}
}

func TestRetriever_NoKeywordsSkipsKeywordSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{})
	ctx := context.Background()

	store.EXPECT().VectorSearch(gomock.Any(), "acme", gomock.Any(), 50).
		Return([]rag.ScoredChunkRef{{ChunkID: "a", Score: 0.9}}, nil)
	store.EXPECT().GetChunksByIDs(gomock.Any(), "acme", gomock.Any()).
		Return([]rag.Chunk{{ID: "a", DocumentID: "d1"}}, nil)
	// No KeywordSearch expectation: calling it would fail the test.

	candidates, err := retriever.Retrieve(ctx, "acme", []float32{0.1}, nil, rag.TenantConfig{TopK: 8})
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Chunk.ID != "a" {
		t.Errorf("unexpected candidates: %v", candidateIDs(candidates))
	}
}

func TestRetriever_EmptyCorpus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{})

	store.EXPECT().VectorSearch(gomock.Any(), "empty", gomock.Any(), 50).Return(nil, nil)

	candidates, err := retriever.Retrieve(context.Background(), "empty", []float32{0.1}, nil, rag.TenantConfig{TopK: 8})
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Retrieve() returned %d candidates, want 0", len(candidates))
	}
}

func TestRetriever_VectorSearchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{})

	store.EXPECT().VectorSearch(gomock.Any(), "acme", gomock.Any(), 50).
		Return(nil, errors.New("connection refused"))

	_, err := retriever.Retrieve(context.Background(), "acme", []float32{0.1}, nil, rag.TenantConfig{TopK: 8})
	if err == nil {
		t.Fatal("Retrieve() expected error")
	}
}

func TestRetriever_StaleChunkSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockChunkStore(ctrl)
	retriever := rag.NewRetriever(store, rag.RetrieverConfig{})

	// The vector store still references "gone" but SQLite no longer has it.
	store.EXPECT().VectorSearch(gomock.Any(), "acme", gomock.Any(), 50).
		Return([]rag.ScoredChunkRef{
			{ChunkID: "gone", Score: 0.95},
			{ChunkID: "a", Score: 0.9},
		}, nil)
	store.EXPECT().GetChunksByIDs(gomock.Any(), "acme", gomock.Any()).
		Return([]rag.Chunk{{ID: "a", DocumentID: "d1"}}, nil)

	candidates, err := retriever.Retrieve(context.Background(), "acme", []float32{0.1}, nil, rag.TenantConfig{TopK: 8})
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Chunk.ID != "a" {
		t.Errorf("stale chunk not skipped: %v", candidateIDs(candidates))
	}
}
