package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"tenantrag/internal/contextutil"
)

const (
	defaultSummaryWorkers = 3
	summaryTemperature    = float32(0.3)
	summaryMaxTokens      = 400
	// summaryInputLimit bounds how much document text is sent per summary call.
	summaryInputLimit = 12000
)

// broadQuestionPattern matches overview/compare/trend-style phrasing that chunk-level
// retrieval alone serves poorly.
var broadQuestionPattern = regexp.MustCompile(`(?i)\b(overview|summar(y|ize|ise)|compare|comparison|versus|vs\.?|trend(s)?|overall|across (all|the)|all (the )?documents|big picture|high[- ]level)\b`)

// IsBroadQuestion reports whether the question should trigger document-level
// summarization in addition to chunk retrieval.
func IsBroadQuestion(question string) bool {
	return broadQuestionPattern.MatchString(question)
}

// DocumentSummary is a condensed, model-generated summary of one document.
type DocumentSummary struct {
	DocumentID    string   `json:"document_id"`
	DocumentTitle string   `json:"document_title"`
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"key_points,omitempty"`
}

// summaryPayload is the strict JSON shape expected from the model.
// Summary is required; KeyPoints defaults to empty when missing.
type summaryPayload struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// Summarizer condenses whole documents for broad questions. Per-document calls
// run concurrently under a bounded worker limit so the completion provider's
// rate limits are respected; a single document's failure degrades to omitting
// that summary while the rest of the request continues.
type Summarizer struct {
	store       ChunkStore
	completions CompletionProvider
	workers     int64
}

// NewSummarizer creates a Summarizer with the given worker limit.
// workers <= 0 falls back to the default.
func NewSummarizer(store ChunkStore, completions CompletionProvider, workers int64) *Summarizer {
	if workers <= 0 {
		workers = defaultSummaryWorkers
	}
	return &Summarizer{store: store, completions: completions, workers: workers}
}

// Summarize produces one summary per distinct document referenced by the
// candidates, in a stable order (first appearance in the candidate ranking).
// Returns the summaries that succeeded and the total completion tokens used.
func (s *Summarizer) Summarize(ctx context.Context, tenantID, question string, candidates []Candidate) ([]DocumentSummary, int) {
	logger := contextutil.LoggerFromContext(ctx)

	type docRef struct {
		id    string
		title string
		order int
	}
	seen := make(map[string]struct{})
	docs := make([]docRef, 0)
	for _, c := range candidates {
		if _, ok := seen[c.Chunk.DocumentID]; ok {
			continue
		}
		seen[c.Chunk.DocumentID] = struct{}{}
		docs = append(docs, docRef{id: c.Chunk.DocumentID, title: c.Chunk.DocumentTitle, order: len(docs)})
	}
	if len(docs) == 0 {
		return nil, 0
	}

	sem := semaphore.NewWeighted(s.workers)
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		summaries []DocumentSummary
		orderOf   = make(map[string]int, len(docs))
		tokens    int
	)
	for _, d := range docs {
		orderOf[d.id] = d.order
	}

	for _, d := range docs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled; summaries gathered so far are still usable.
			break
		}
		wg.Add(1)
		go func(d docRef) {
			defer wg.Done()
			defer sem.Release(1)

			summary, used, err := s.summarizeDocument(ctx, tenantID, question, d.id, d.title)
			if err != nil {
				logger.WarnContext(ctx, "document summarization failed, omitting document",
					"document_id", d.id, "error", err)
				return
			}
			mu.Lock()
			summaries = append(summaries, summary)
			tokens += used
			mu.Unlock()
		}(d)
	}
	wg.Wait()

	sort.Slice(summaries, func(i, j int) bool {
		return orderOf[summaries[i].DocumentID] < orderOf[summaries[j].DocumentID]
	})

	logger.InfoContext(ctx, "document summarization completed",
		"documents", len(docs), "summaries", len(summaries))
	return summaries, tokens
}

func (s *Summarizer) summarizeDocument(ctx context.Context, tenantID, question, docID, title string) (DocumentSummary, int, error) {
	fullText, err := s.store.GetDocumentFullText(ctx, tenantID, docID)
	if err != nil {
		return DocumentSummary{}, 0, WrapError(err, "failed to fetch document text")
	}
	fullText = truncateRunes(fullText, summaryInputLimit)

	messages := []Message{
		{
			Role: "system",
			Content: "Condense the document below into a summary relevant to the user's question. " +
				`Respond with JSON only, in the shape {"summary": "...", "key_points": ["..."]}.`,
		},
		{Role: "user", Content: "Question: " + question + "\n\nDocument (" + title + "):\n" + fullText},
	}

	completion, err := s.completions.Complete(ctx, messages, CompleteOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		return DocumentSummary{}, 0, err
	}

	payload, err := parseSummaryPayload(completion.Text)
	if err != nil {
		return DocumentSummary{}, 0, err
	}

	return DocumentSummary{
		DocumentID:    docID,
		DocumentTitle: title,
		Summary:       payload.Summary,
		KeyPoints:     payload.KeyPoints,
	}, completion.PromptTokens + completion.CompletionTokens, nil
}

// parseSummaryPayload validates the model's JSON output strictly: structurally
// invalid responses or a missing summary field are rejected as
// ErrMalformedProviderOutput rather than silently coerced. Missing optional
// fields get defaults.
// truncateRunes bounds text to limit runes without splitting a multi-byte rune.
func truncateRunes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func parseSummaryPayload(text string) (summaryPayload, error) {
	raw := strings.TrimSpace(text)
	// Models occasionally wrap JSON in a code fence.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var payload summaryPayload
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return summaryPayload{}, fmt.Errorf("%w: %v", ErrMalformedProviderOutput, err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return summaryPayload{}, fmt.Errorf("%w: summary field missing or empty", ErrMalformedProviderOutput)
	}
	if payload.KeyPoints == nil {
		payload.KeyPoints = []string{}
	}
	return payload, nil
}
