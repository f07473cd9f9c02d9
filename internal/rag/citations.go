package rag

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tenantrag/internal/contextutil"
)

// citationMarkerPattern matches the inline markers the generator instructs the
// model to emit. N is the 1-based position of the context item.
var citationMarkerPattern = regexp.MustCompile(`\[Citation (\d+)\]`)

// snippetLimit bounds the chunk excerpt carried in a citation.
const snippetLimit = 240

// ParseCitations scans the answer text for [Citation N] markers, resolves each
// distinct N against the context item at position N, and returns the structured
// citations along with the transformed answer text.
//
// Display ids are renumbered to the order markers first appear in the text, so
// out-of-sequence or skipped model numbering still yields a contiguous 1-based
// sequence. Markers referencing an out-of-range N are dropped, not fatal: the
// model occasionally hallucinates indices. In the transformed text each marker
// is replaced with a [[cite:N]] placeholder chip (display-id numbering) for the
// consuming UI; dropped markers are removed outright.
func ParseCitations(ctx context.Context, answer string, items []ContextItem) ([]Citation, string) {
	logger := contextutil.LoggerFromContext(ctx)

	citations := make([]Citation, 0, 4)
	displayByItem := make(map[int]int) // context item position -> display id

	var b strings.Builder
	last := 0
	for _, m := range citationMarkerPattern.FindAllStringSubmatchIndex(answer, -1) {
		start, end := m[0], m[1]
		n, err := strconv.Atoi(answer[m[2]:m[3]])
		if err != nil || n < 1 || n > len(items) {
			logger.DebugContext(ctx, "dropping out-of-range citation marker", "marker", answer[start:end])
			// Swallow the space the marker leaves behind, but only at the
			// marker's own position; the rest of the text is untouched.
			if start > last && answer[start-1] == ' ' && (end == len(answer) || isMarkerGap(answer[end])) {
				start--
			}
			b.WriteString(answer[last:start])
			last = end
			continue
		}

		displayID, ok := displayByItem[n]
		if !ok {
			displayID = len(citations) + 1
			displayByItem[n] = displayID

			item := items[n-1]
			citations = append(citations, Citation{
				ID:            displayID,
				ChunkID:       itemChunkID(item),
				DocumentID:    item.DocumentID,
				DocumentTitle: item.DocumentTitle,
				Snippet:       snippet(item.Text),
				Confidence:    item.Confidence,
				Source:        item.Source,
			})
		}
		b.WriteString(answer[last:start])
		b.WriteString(fmt.Sprintf("[[cite:%d]]", displayID))
		last = end
	}
	b.WriteString(answer[last:])
	transformed := strings.TrimSpace(b.String())

	logger.DebugContext(ctx, "citations parsed",
		"markers_resolved", len(citations), "answer_length", len(transformed))
	return citations, transformed
}

func itemChunkID(item ContextItem) string {
	if item.Candidate != nil {
		return item.Candidate.Chunk.ID
	}
	return ""
}

// snippet truncates text on a rune boundary, appending an ellipsis.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return string(runes[:snippetLimit]) + "..."
}

// isMarkerGap reports whether c is a character a dropped marker can leave a
// stray space in front of.
func isMarkerGap(c byte) bool {
	return c == ' ' || strings.IndexByte(".,;:!?)", c) >= 0
}
