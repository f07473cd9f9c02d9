package rag

import (
	"context"
	"strings"
	"testing"
)

func chunkItem(chunkID, docID, title, text string, confidence float64) ContextItem {
	return ContextItem{
		Candidate: &Candidate{
			Chunk: Chunk{ID: chunkID, DocumentID: docID, DocumentTitle: title, Text: text},
		},
		Text:          text,
		DocumentID:    docID,
		DocumentTitle: title,
		Confidence:    confidence,
		Source:        CitationSourceChunk,
	}
}

func TestParseCitations(t *testing.T) {
	ctx := context.Background()
	items := []ContextItem{
		chunkItem("chunk-1", "doc-a", "Q3 Report", "Revenue was $150 million in Q3 2024.", 0.9),
		chunkItem("chunk-2", "doc-b", "Annual Review", "Operating costs fell by 8%.", 0.7),
		chunkItem("chunk-3", "doc-a", "Q3 Report", "Margins improved quarter over quarter.", 0.6),
	}

	t.Run("single marker resolved", func(t *testing.T) {
		citations, text := ParseCitations(ctx, "Revenue was $150 million [Citation 1].", items)
		if len(citations) != 1 {
			t.Fatalf("ParseCitations() returned %d citations, want 1", len(citations))
		}
		c := citations[0]
		if c.ID != 1 || c.ChunkID != "chunk-1" || c.DocumentID != "doc-a" || c.DocumentTitle != "Q3 Report" {
			t.Errorf("unexpected citation: %+v", c)
		}
		if c.Source != CitationSourceChunk {
			t.Errorf("citation source = %q, want %q", c.Source, CitationSourceChunk)
		}
		if text != "Revenue was $150 million [[cite:1]]." {
			t.Errorf("transformed text = %q", text)
		}
	})

	t.Run("out of order markers renumbered by first appearance", func(t *testing.T) {
		answer := "Costs fell [Citation 3] while revenue grew [Citation 1]."
		citations, text := ParseCitations(ctx, answer, items)
		if len(citations) != 2 {
			t.Fatalf("ParseCitations() returned %d citations, want 2", len(citations))
		}
		// Item 3 appears first so it becomes display id 1.
		if citations[0].ChunkID != "chunk-3" || citations[0].ID != 1 {
			t.Errorf("first citation = %+v, want chunk-3 with id 1", citations[0])
		}
		if citations[1].ChunkID != "chunk-1" || citations[1].ID != 2 {
			t.Errorf("second citation = %+v, want chunk-1 with id 2", citations[1])
		}
		if !strings.Contains(text, "[[cite:1]]") || !strings.Contains(text, "[[cite:2]]") {
			t.Errorf("transformed text missing chips: %q", text)
		}
	})

	t.Run("repeated marker reuses display id", func(t *testing.T) {
		answer := "Up [Citation 2]. Later, still up [Citation 2]."
		citations, text := ParseCitations(ctx, answer, items)
		if len(citations) != 1 {
			t.Fatalf("ParseCitations() returned %d citations, want 1", len(citations))
		}
		if got := strings.Count(text, "[[cite:1]]"); got != 2 {
			t.Errorf("chip count = %d, want 2 in %q", got, text)
		}
	})

	t.Run("out of range marker dropped", func(t *testing.T) {
		citations, text := ParseCitations(ctx, "Made up [Citation 9].", items)
		if len(citations) != 0 {
			t.Errorf("ParseCitations() returned %d citations, want 0", len(citations))
		}
		if strings.Contains(text, "cite") || strings.Contains(text, "Citation") {
			t.Errorf("dropped marker left residue: %q", text)
		}
		if text != "Made up." {
			t.Errorf("transformed text = %q, want %q", text, "Made up.")
		}
	})

	t.Run("dropped marker mid-sentence", func(t *testing.T) {
		_, text := ParseCitations(ctx, "Up [Citation 9] in Q3.", items)
		if text != "Up in Q3." {
			t.Errorf("transformed text = %q, want %q", text, "Up in Q3.")
		}
	})

	t.Run("deliberate spacing preserved", func(t *testing.T) {
		answer := "Revenue:  $150M [Citation 1].\n\nNote . trailing"
		_, text := ParseCitations(ctx, answer, items)
		want := "Revenue:  $150M [[cite:1]].\n\nNote . trailing"
		if text != want {
			t.Errorf("transformed text = %q, want %q", text, want)
		}
	})

	t.Run("no markers", func(t *testing.T) {
		citations, text := ParseCitations(ctx, "Plain answer.", items)
		if len(citations) != 0 {
			t.Errorf("ParseCitations() returned %d citations, want 0", len(citations))
		}
		if text != "Plain answer." {
			t.Errorf("transformed text = %q", text)
		}
	})

	t.Run("summary item yields empty chunk id", func(t *testing.T) {
		summaryItems := []ContextItem{
			{
				Summary:       &DocumentSummary{DocumentID: "doc-a", DocumentTitle: "Q3 Report", Summary: "A good quarter."},
				Text:          "A good quarter.",
				DocumentID:    "doc-a",
				DocumentTitle: "Q3 Report",
				Confidence:    0.8,
				Source:        CitationSourceSummary,
			},
		}
		citations, _ := ParseCitations(ctx, "Overall positive [Citation 1].", summaryItems)
		if len(citations) != 1 {
			t.Fatalf("ParseCitations() returned %d citations, want 1", len(citations))
		}
		if citations[0].ChunkID != "" {
			t.Errorf("summary citation chunk id = %q, want empty", citations[0].ChunkID)
		}
		if citations[0].Source != CitationSourceSummary {
			t.Errorf("summary citation source = %q", citations[0].Source)
		}
	})
}

func TestSnippetTruncation(t *testing.T) {
	long := strings.Repeat("ab", snippetLimit)
	got := snippet(long)
	if len([]rune(got)) != snippetLimit+3 {
		t.Errorf("snippet length = %d runes, want %d", len([]rune(got)), snippetLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("snippet missing ellipsis: %q", got[len(got)-10:])
	}

	short := "short text"
	if snippet(short) != short {
		t.Errorf("snippet(%q) = %q, want unchanged", short, snippet(short))
	}
}
