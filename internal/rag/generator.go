package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"tenantrag/internal/contextutil"
)

const (
	generateTemperature = float32(0.3)
	generateMaxTokens   = 1024
	// contextTokenBudget bounds the total context placed in the prompt.
	contextTokenBudget = 6000
	// maxQuestionLen is the hard limit on question length; longer input is
	// rejected before any provider call.
	maxQuestionLen = 8000
)

// answerSystemPrompt instructs the model to ground every claim in the supplied
// context and to mark claims with [Citation N] markers, N being the 1-based
// position of the context item used.
const answerSystemPrompt = "You are a precise assistant that answers questions using only the numbered " +
	"context items provided. Every factual claim must carry an inline marker of the form " +
	"[Citation N], where N is the number of the context item the claim comes from. " +
	"If the context does not contain enough information to answer, say so plainly instead " +
	"of guessing. Do not use knowledge outside the context."

// conversationalPattern matches greetings and help requests that should be
// answered directly, without retrieval. This is a fast-path, not a failure mode.
var conversationalPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|good (morning|afternoon|evening)|thanks?( you)?|thank you|help|what can you do)\s*[!.?]*\s*$`)

// injectionPatterns are logged and stripped from questions before prompt
// assembly. Detection alone never blocks a request; only empty or oversized
// input is a hard block.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all |any )?(previous|prior|above) (instructions|prompts?|rules)`),
	regexp.MustCompile(`(?i)disregard (the |your )?(system prompt|instructions)`),
	regexp.MustCompile(`(?i)you are now [^.]{0,80}`),
	regexp.MustCompile(`(?i)pretend (to be|you are)`),
	regexp.MustCompile(`(?i)reveal (the |your )?(system prompt|instructions)`),
}

// Generator assembles a grounded prompt from retrieved and summarized context
// and invokes the completion provider.
type Generator struct {
	completions CompletionProvider

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewGenerator creates a Generator backed by the given provider.
func NewGenerator(completions CompletionProvider) *Generator {
	return &Generator{completions: completions}
}

// IsConversational reports whether the question is small talk that should skip
// retrieval entirely.
func IsConversational(question string) bool {
	return conversationalPattern.MatchString(question)
}

// ConversationalReply answers a conversational fast-path question directly.
func (g *Generator) ConversationalReply(ctx context.Context, question string) (Completion, error) {
	messages := []Message{
		{
			Role: "system",
			Content: "You are a friendly assistant for a document question-answering service. " +
				"Respond briefly. If greeted, greet back and mention you can answer questions " +
				"about the user's documents.",
		},
		{Role: "user", Content: question},
	}
	return g.completions.Complete(ctx, messages, CompleteOptions{
		MaxTokens:   128,
		Temperature: 0.7,
	})
}

// SanitizeQuestion strips injection-pattern matches from the question and logs
// each detection for monitoring. The sanitized question proceeds to generation.
func SanitizeQuestion(ctx context.Context, question string) string {
	logger := contextutil.LoggerFromContext(ctx)
	sanitized := question
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(sanitized) {
			logger.WarnContext(ctx, "injection pattern detected in question",
				"pattern", pattern.String())
			sanitized = pattern.ReplaceAllString(sanitized, "")
		}
	}
	return strings.TrimSpace(sanitized)
}

// ValidateQuestion enforces the hard input blocks: empty and oversized questions.
func ValidateQuestion(question string) error {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	if len(trimmed) > maxQuestionLen {
		return &ValidationError{Field: "question", Message: fmt.Sprintf("exceeds %d characters", maxQuestionLen)}
	}
	return nil
}

// BuildContextItems converts ranked candidates and document summaries into the
// numbered context list presented to the model. Summaries come first so broad
// questions lead with document-level grounding; chunk items follow in fused order.
func BuildContextItems(candidates []Candidate, summaries []DocumentSummary) []ContextItem {
	items := make([]ContextItem, 0, len(candidates)+len(summaries))
	for i := range summaries {
		s := &summaries[i]
		text := s.Summary
		if len(s.KeyPoints) > 0 {
			text += "\nKey points: " + strings.Join(s.KeyPoints, "; ")
		}
		items = append(items, ContextItem{
			Summary:       s,
			Text:          text,
			DocumentID:    s.DocumentID,
			DocumentTitle: s.DocumentTitle,
			Source:        CitationSourceSummary,
		})
	}
	for i := range candidates {
		c := &candidates[i]
		items = append(items, ContextItem{
			Candidate:     c,
			Text:          c.Chunk.Text,
			DocumentID:    c.Chunk.DocumentID,
			DocumentTitle: c.Chunk.DocumentTitle,
			Confidence:    c.Confidence,
			Source:        CitationSourceChunk,
		})
	}
	return items
}

// Generate produces the raw completion text for the question over the given
// context items, trimmed to the context token budget.
func (g *Generator) Generate(ctx context.Context, question string, items []ContextItem) (Completion, error) {
	return g.complete(ctx, question, items, nil)
}

// GenerateStream is the streaming variant of Generate.
func (g *Generator) GenerateStream(ctx context.Context, question string, items []ContextItem, onChunk func(chunk string) error) (Completion, error) {
	return g.complete(ctx, question, items, onChunk)
}

func (g *Generator) complete(ctx context.Context, question string, items []ContextItem, onChunk func(string) error) (Completion, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := g.buildUserPrompt(ctx, question, items)
	messages := []Message{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: prompt},
	}
	opts := CompleteOptions{MaxTokens: generateMaxTokens, Temperature: generateTemperature}

	logger.DebugContext(ctx, "sending generation request",
		"context_items", len(items), "prompt_length", len(prompt))

	if onChunk != nil {
		return g.completions.StreamComplete(ctx, messages, opts, onChunk)
	}
	return g.completions.Complete(ctx, messages, opts)
}

// buildUserPrompt numbers the context items 1..n and appends the question.
// Items beyond the token budget are dropped from the tail; the ranking already
// placed the most relevant items first.
func (g *Generator) buildUserPrompt(ctx context.Context, question string, items []ContextItem) string {
	logger := contextutil.LoggerFromContext(ctx)

	var builder strings.Builder
	builder.WriteString("Context items:\n\n")

	used := g.countTokens("Context items:\n\n" + "\n\nQuestion: " + question)
	included := 0
	for i, item := range items {
		entry := fmt.Sprintf("[%d] (%s) %s\n\n", i+1, item.DocumentTitle, item.Text)
		cost := g.countTokens(entry)
		if included > 0 && used+cost > contextTokenBudget {
			logger.DebugContext(ctx, "context token budget reached",
				"included", included, "dropped", len(items)-included)
			break
		}
		builder.WriteString(entry)
		used += cost
		included++
	}

	builder.WriteString("Question: ")
	builder.WriteString(question)
	return builder.String()
}

// countTokens counts tokens with tiktoken, falling back to a bytes/4 estimate
// when the encoding cannot be loaded (e.g. no network access to fetch it).
func (g *Generator) countTokens(text string) int {
	g.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			g.enc = enc
		}
	})
	if g.enc != nil {
		return len(g.enc.Encode(text, nil, nil))
	}
	return len(text)/4 + 1
}
