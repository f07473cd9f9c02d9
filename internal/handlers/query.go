package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"tenantrag/internal/contextutil"
	"tenantrag/internal/rag"
)

// QueryHandler handles HTTP requests for question answering.
type QueryHandler struct {
	engine rag.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine rag.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// QueryHTTPRequest represents the HTTP request payload for a query.
type QueryHTTPRequest struct {
	Question  string `json:"question"`
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id,omitempty"`
	Debug     bool   `json:"debug,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for queries. With ?stream=true the response
// is delivered as Server-Sent Events; otherwise as a single JSON body.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var httpReq QueryHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&httpReq); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := rag.QueryRequest{
		Question:  httpReq.Question,
		TenantID:  httpReq.TenantID,
		SessionID: httpReq.SessionID,
		Debug:     httpReq.Debug,
	}

	if r.URL.Query().Get("stream") == "true" {
		h.handleStreaming(w, r, req)
		return
	}

	resp, err := h.engine.Query(ctx, req)
	if err != nil {
		h.handleEngineError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleStreaming delivers the answer over Server-Sent Events. Event ordering
// is chunk* -> citations -> complete, then a [DONE] sentinel.
func (h *QueryHandler) handleStreaming(w http.ResponseWriter, r *http.Request, req rag.QueryRequest) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		h.writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	writeEvent := func(event string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	handler := rag.StreamHandler{
		OnChunk: func(chunk string) error {
			return writeEvent("chunk", map[string]string{"text": chunk})
		},
		OnCitations: func(citations []rag.Citation) error {
			return writeEvent("citations", citations)
		},
		OnComplete: func(resp rag.QueryResponse) error {
			return writeEvent("complete", resp)
		},
	}

	if err := h.engine.QueryStream(ctx, req, handler); err != nil {
		logger.ErrorContext(ctx, "error streaming query", "error", err)
		_ = writeEvent("error", map[string]string{"error": h.publicMessage(err)})
		return
	}

	_, _ = fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// handleEngineError maps pipeline errors to HTTP status codes. Provider and
// store failures get generic messages; internals stay in the logs.
func (h *QueryHandler) handleEngineError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "query failed", "error", err)

	var validationErr *rag.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}
	if errors.Is(err, rag.ErrInvalidInput) {
		h.writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if errors.Is(err, rag.ErrProvider) || errors.Is(err, rag.ErrMalformedProviderOutput) {
		h.writeError(w, http.StatusBadGateway, "Upstream model error")
		return
	}
	if errors.Is(err, rag.ErrVectorStore) {
		h.writeError(w, http.StatusServiceUnavailable, "Retrieval backend unavailable")
		return
	}

	h.writeError(w, http.StatusInternalServerError, "Failed to process query")
}

// publicMessage returns the client-safe message for a streaming error event.
func (h *QueryHandler) publicMessage(err error) string {
	var validationErr *rag.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Validation error: %s", validationErr.Error())
	case errors.Is(err, rag.ErrInvalidInput):
		return "Invalid input"
	case errors.Is(err, rag.ErrProvider), errors.Is(err, rag.ErrMalformedProviderOutput):
		return "Upstream model error"
	case errors.Is(err, rag.ErrVectorStore):
		return "Retrieval backend unavailable"
	default:
		return "Failed to process query"
	}
}

// writeError writes an error response.
func (h *QueryHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
