package rag

import (
	"context"
	"strings"
	"unicode"

	"tenantrag/internal/contextutil"
)

const (
	maxKeywords        = 8
	keywordTemperature = float32(0.1)
	keywordMaxTokens   = 64
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "has": {}, "have": {}, "how": {},
	"in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "the": {}, "this": {},
	"to": {}, "was": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "why": {}, "with": {},
}

// KeywordExtractor derives salient keywords from a question for lexical scoring.
// When the tenant flag enables it, a short low-temperature completion call extracts
// terms; on failure or when disabled it falls back to stop-word-filtered tokenization
// so the lexical half of hybrid search always has input.
type KeywordExtractor struct {
	completions CompletionProvider
}

// NewKeywordExtractor creates a KeywordExtractor backed by the given provider.
func NewKeywordExtractor(completions CompletionProvider) *KeywordExtractor {
	return &KeywordExtractor{completions: completions}
}

// Extract returns up to maxKeywords keywords for the question.
// It never fails: any provider error downgrades to the local heuristic.
func (e *KeywordExtractor) Extract(ctx context.Context, question string, llmEnabled bool) []string {
	logger := contextutil.LoggerFromContext(ctx)

	if llmEnabled && e.completions != nil {
		keywords, err := e.extractWithModel(ctx, question)
		if err != nil {
			logger.WarnContext(ctx, "keyword extraction call failed, using heuristic", "error", err)
		} else if len(keywords) > 0 {
			return keywords
		}
	}

	return heuristicKeywords(question)
}

func (e *KeywordExtractor) extractWithModel(ctx context.Context, question string) ([]string, error) {
	messages := []Message{
		{
			Role: "system",
			Content: "Extract the most important search keywords from the user's question. " +
				"Reply with the keywords only, comma-separated, lowercase, no explanations.",
		},
		{Role: "user", Content: question},
	}

	completion, err := e.completions.Complete(ctx, messages, CompleteOptions{
		MaxTokens:   keywordMaxTokens,
		Temperature: keywordTemperature,
	})
	if err != nil {
		return nil, err
	}

	parts := strings.Split(completion.Text, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		word := strings.ToLower(strings.TrimSpace(part))
		if word == "" {
			continue
		}
		if _, isStop := stopwords[word]; isStop {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords, nil
}

// heuristicKeywords tokenizes the question and drops stopwords and duplicates.
// Deterministic: output order follows first appearance in the question.
func heuristicKeywords(question string) []string {
	tokens := tokenize(question)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := stopwords[token]; isStop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		return nil
	}
	return keywords
}

// tokenize lowercases text and splits on any non-alphanumeric rune.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
