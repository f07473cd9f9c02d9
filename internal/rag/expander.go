package rag

import (
	"context"
	"strings"

	"tenantrag/internal/contextutil"
)

const (
	hydeTemperature = float32(0.2)
	hydeMaxTokens   = 200
)

// QueryExpander implements hypothetical document embeddings (HyDE): it generates
// a short hypothetical answer passage from the raw question. Embedding that
// passage instead of the question improves recall, because answer-shaped text
// sits closer in embedding space to answer-containing chunks than a question does.
type QueryExpander struct {
	completions CompletionProvider
}

// NewQueryExpander creates a QueryExpander backed by the given provider.
func NewQueryExpander(completions CompletionProvider) *QueryExpander {
	return &QueryExpander{completions: completions}
}

// Expand returns the hypothetical passage to embed for the question, plus the
// completion tokens consumed. Failure of the expansion call must not fail the
// request: on any error the raw question is returned so the caller embeds that
// instead.
func (x *QueryExpander) Expand(ctx context.Context, question string) (string, int) {
	logger := contextutil.LoggerFromContext(ctx)

	messages := []Message{
		{
			Role: "system",
			Content: "Write a short factual passage that plausibly answers the question below, " +
				"as it might appear in a business document. Two or three sentences, no preamble. " +
				"Invented specifics are acceptable; the passage is used only for retrieval.",
		},
		{Role: "user", Content: question},
	}

	completion, err := x.completions.Complete(ctx, messages, CompleteOptions{
		MaxTokens:   hydeMaxTokens,
		Temperature: hydeTemperature,
	})
	if err != nil {
		logger.WarnContext(ctx, "query expansion failed, embedding raw question", "error", err)
		return question, 0
	}

	tokens := completion.PromptTokens + completion.CompletionTokens
	passage := strings.TrimSpace(completion.Text)
	if passage == "" {
		logger.WarnContext(ctx, "query expansion returned empty passage, embedding raw question")
		return question, tokens
	}

	logger.DebugContext(ctx, "query expanded", "passage_length", len(passage))
	return passage, tokens
}
