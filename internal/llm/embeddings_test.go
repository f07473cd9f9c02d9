package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func embeddingsServer(t *testing.T, handler func(w http.ResponseWriter, req embeddingsRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		handler(w, req)
	}))
}

func TestEmbeddingsClient_EmbedBatch(t *testing.T) {
	server := embeddingsServer(t, func(w http.ResponseWriter, req embeddingsRequest) {
		if len(req.Input) != 2 {
			t.Errorf("input = %v", req.Input)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.1, 0.2, 0.3}},
				{"embedding": []float64{0.4, 0.5, 0.6}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "total_tokens": 12},
		})
	})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "embed-model", 3)
	vectors, tokens, err := client.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != float32(0.1) || vectors[1][2] != float32(0.6) {
		t.Errorf("unexpected vectors: %v", vectors)
	}
	if tokens != 12 {
		t.Errorf("tokens = %d, want 12", tokens)
	}
}

func TestEmbeddingsClient_EmbedBatch_TotalTokensFallback(t *testing.T) {
	server := embeddingsServer(t, func(w http.ResponseWriter, req embeddingsRequest) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"embedding": []float64{1, 2}}},
			"usage": map[string]int{"total_tokens": 8},
		})
	})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "embed-model", 2)
	_, tokens, err := client.EmbedBatch(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if tokens != 8 {
		t.Errorf("tokens = %d, want 8", tokens)
	}
}

func TestEmbeddingsClient_EmbedBatch_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://unused", "k", "m", 3)
	_, _, err := client.EmbedBatch(context.Background(), nil)
	if err == nil {
		t.Fatal("EmbedBatch() expected error for empty input")
	}
}

func TestEmbeddingsClient_EmbedBatch_SizeMismatch(t *testing.T) {
	server := embeddingsServer(t, func(w http.ResponseWriter, req embeddingsRequest) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"embedding": []float64{1, 2, 3, 4}}},
			"usage": map[string]int{"prompt_tokens": 4},
		})
	})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "embed-model", 3)
	_, _, err := client.EmbedBatch(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("EmbedBatch() expected size mismatch error")
	}
	if !strings.Contains(err.Error(), "size 4") {
		t.Errorf("error = %v", err)
	}
}

func TestEmbeddingsClient_EmbedBatch_CountMismatch(t *testing.T) {
	server := embeddingsServer(t, func(w http.ResponseWriter, req embeddingsRequest) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"embedding": []float64{1, 2, 3}}},
			"usage": map[string]int{"prompt_tokens": 4},
		})
	})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "embed-model", 3)
	_, _, err := client.EmbedBatch(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Fatal("EmbedBatch() expected count mismatch error")
	}
}

func TestEmbeddingsClient_EmbedBatch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m", 3)
	_, _, err := client.EmbedBatch(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("EmbedBatch() expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v", err)
	}
}

func TestEmbeddingsClient_Embed(t *testing.T) {
	server := embeddingsServer(t, func(w http.ResponseWriter, req embeddingsRequest) {
		if len(req.Input) != 1 || req.Input[0] != "single" {
			t.Errorf("input = %v", req.Input)
		}
		_, _ = fmt.Fprint(w, `{"data":[{"embedding":[0.5,0.25]}],"usage":{"prompt_tokens":3}}`)
	})
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "embed-model", 2)
	vector, tokens, err := client.Embed(context.Background(), "single")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vector) != 2 || vector[0] != float32(0.5) {
		t.Errorf("vector = %v", vector)
	}
	if tokens != 3 {
		t.Errorf("tokens = %d, want 3", tokens)
	}
}
