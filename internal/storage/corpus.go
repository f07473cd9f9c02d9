package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tenantrag/internal/rag"
	"tenantrag/internal/vectorstore"
)

// Corpus joins the SQLite chunk/document repos with the vector store into the
// pipeline's read-only chunk corpus view. It implements rag.ChunkStore.
type Corpus struct {
	chunks     *ChunkRepo
	documents  *DocumentRepo
	vectors    vectorstore.VectorStore
	collection string
}

// NewCorpus creates a Corpus over the given repos and vector store collection.
func NewCorpus(chunks *ChunkRepo, documents *DocumentRepo, vectors vectorstore.VectorStore, collection string) *Corpus {
	return &Corpus{
		chunks:     chunks,
		documents:  documents,
		vectors:    vectors,
		collection: collection,
	}
}

// VectorSearch returns chunk ids ranked by cosine similarity to the embedding,
// scoped to one tenant via a payload filter.
func (c *Corpus) VectorSearch(ctx context.Context, tenantID string, embedding []float32, limit int) ([]rag.ScoredChunkRef, error) {
	results, err := c.vectors.Search(ctx, c.collection, embedding, limit, map[string]any{
		"tenant_id": tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	refs := make([]rag.ScoredChunkRef, 0, len(results))
	for _, res := range results {
		refs = append(refs, rag.ScoredChunkRef{
			ChunkID: res.PointID,
			Score:   float64(res.Score),
		})
	}
	return refs, nil
}

// KeywordSearch returns chunk ids ranked by lexical overlap with the keywords.
// SQLite narrows to chunks containing at least one keyword; scoring and
// ordering happen here so the ranking is deterministic across backends.
func (c *Corpus) KeywordSearch(ctx context.Context, tenantID string, keywords []string, limit int) ([]rag.ScoredChunkRef, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	// Pull a wider pool than requested so scoring can reorder it.
	pool, err := c.chunks.ListByTenantMatching(ctx, tenantID, keywords, limit*4)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	if len(pool) == 0 {
		return nil, nil
	}

	type scored struct {
		chunk ChunkRecord
		score float64
	}
	items := make([]scored, 0, len(pool))
	for _, chunk := range pool {
		items = append(items, scored{chunk: chunk, score: lexicalScore(chunk.Text, keywords)})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		if items[i].chunk.DocumentID != items[j].chunk.DocumentID {
			return items[i].chunk.DocumentID < items[j].chunk.DocumentID
		}
		return items[i].chunk.ChunkIndex < items[j].chunk.ChunkIndex
	})

	if len(items) > limit {
		items = items[:limit]
	}
	refs := make([]rag.ScoredChunkRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, rag.ScoredChunkRef{ChunkID: item.chunk.ID, Score: item.score})
	}
	return refs, nil
}

// lexicalScore measures keyword overlap: the fraction of distinct keywords
// present dominates, with repeat occurrences as a small tie-breaking bonus.
func lexicalScore(text string, keywords []string) float64 {
	lowered := strings.ToLower(text)
	matched := 0
	occurrences := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		n := strings.Count(lowered, kw)
		if n > 0 {
			matched++
			occurrences += n
		}
	}
	if matched == 0 {
		return 0
	}
	return float64(matched)/float64(len(keywords)) + 0.01*float64(occurrences)
}

// GetChunksByIDs fetches full chunk records with document titles resolved.
func (c *Corpus) GetChunksByIDs(ctx context.Context, tenantID string, ids []string) ([]rag.Chunk, error) {
	records, err := c.chunks.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	docIDs := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if !seen[rec.DocumentID] {
			seen[rec.DocumentID] = true
			docIDs = append(docIDs, rec.DocumentID)
		}
	}
	titles, err := c.documents.TitlesByIDs(ctx, docIDs)
	if err != nil {
		return nil, err
	}

	chunks := make([]rag.Chunk, 0, len(records))
	for _, rec := range records {
		chunks = append(chunks, rag.Chunk{
			ID:            rec.ID,
			DocumentID:    rec.DocumentID,
			DocumentTitle: titles[rec.DocumentID],
			Text:          rec.Text,
			Index:         rec.ChunkIndex,
			StartChar:     rec.StartChar,
			EndChar:       rec.EndChar,
			TokenCount:    rec.TokenCount,
		})
	}
	return chunks, nil
}

// GetDocumentFullText returns the document's chunks concatenated in order.
// The document must belong to the given tenant.
func (c *Corpus) GetDocumentFullText(ctx context.Context, tenantID, documentID string) (string, error) {
	doc, err := c.documents.GetByID(ctx, documentID)
	if err != nil {
		return "", err
	}
	if doc.TenantID != tenantID {
		return "", ErrNotFound
	}

	records, err := c.chunks.ListByDocument(ctx, documentID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, rec := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(rec.Text)
	}
	return sb.String(), nil
}
