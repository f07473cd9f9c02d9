// Package llm contains HTTP clients for OpenAI-compatible completion and
// embedding endpoints. The rag package depends only on its provider
// interfaces; these clients are the concrete vendor implementations.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tenantrag/internal/rag"
)

// Client is a completion client for an OpenAI-compatible chat completions API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new completion client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage chatUsage `json:"usage"`
}

// Complete sends a non-streaming chat completion request.
func (c *Client) Complete(ctx context.Context, messages []rag.Message, opts rag.CompleteOptions) (rag.Completion, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	payload := chatRequest{
		Model:       c.Model,
		Messages:    toChatMessages(messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return rag.Completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return rag.Completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return rag.Completion{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return rag.Completion{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return rag.Completion{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return rag.Completion{}, fmt.Errorf("no choices returned")
	}

	choice := chatResp.Choices[0]
	return rag.Completion{
		Text:             choice.Message.Content,
		FinishReason:     choice.FinishReason,
		PromptTokens:     chatResp.Usage.PromptTokens,
		CompletionTokens: chatResp.Usage.CompletionTokens,
	}, nil
}

// StreamComplete sends a streaming chat completion request, reading Server-Sent
// Events and invoking onChunk per text fragment. The returned completion holds
// the accumulated text plus the usage from the final stream event when the
// provider reports it.
func (c *Client) StreamComplete(ctx context.Context, messages []rag.Message, opts rag.CompleteOptions, onChunk func(chunk string) error) (rag.Completion, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	payload := chatRequest{
		Model:       c.Model,
		Messages:    toChatMessages(messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stream:      true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return rag.Completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return rag.Completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return rag.Completion{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return rag.Completion{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var (
		result     rag.Completion
		text       strings.Builder
		dataPrefix = "data: "
		doneMarker = "[DONE]"
	)

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		data := strings.TrimPrefix(line, dataPrefix)
		if data == doneMarker {
			break
		}

		var streamResp struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
				FinishReason string `json:"finish_reason"`
			} `json:"choices"`
			Usage *chatUsage `json:"usage"`
		}
		if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
			// Skip malformed chunks rather than aborting the stream.
			continue
		}

		if streamResp.Usage != nil {
			result.PromptTokens = streamResp.Usage.PromptTokens
			result.CompletionTokens = streamResp.Usage.CompletionTokens
		}
		if len(streamResp.Choices) == 0 {
			continue
		}

		chunk := streamResp.Choices[0].Delta.Content
		if chunk != "" {
			text.WriteString(chunk)
			if err := onChunk(chunk); err != nil {
				return rag.Completion{}, fmt.Errorf("callback error: %w", err)
			}
		}
		if streamResp.Choices[0].FinishReason != "" {
			result.FinishReason = streamResp.Choices[0].FinishReason
		}
	}
	if err := scanner.Err(); err != nil {
		return rag.Completion{}, fmt.Errorf("failed to read stream: %w", err)
	}

	result.Text = text.String()
	return result, nil
}

func toChatMessages(messages []rag.Message) []chatMessage {
	out := make([]chatMessage, len(messages))
	for i, m := range messages {
		out[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
