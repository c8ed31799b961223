// Package ai is a thin client for OpenAI-compatible chat and embedding
// endpoints. Callers pass a context to bound each request; upstream
// failures come back wrapped so the caller can map them to its own
// error taxonomy.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the client has no base URL or model.
var ErrNotConfigured = errors.New("llm client not configured")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options holds the connection settings for one OpenAI-compatible endpoint.
type Options struct {
	BaseURL         string
	APIKey          string
	Model           string
	EmbeddingModel  string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

type Client struct {
	opts       Options
	httpClient *http.Client
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the client can reach a chat endpoint.
func (c *Client) Configured() bool {
	return c.opts.BaseURL != "" && c.opts.Model != ""
}

// Generate sends a system+user prompt pair and returns the assistant text.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	reqBody := map[string]interface{}{
		"model":       c.opts.Model,
		"messages":    messages,
		"temperature": c.opts.Temperature,
		"stream":      false,
	}
	if c.opts.MaxOutputTokens > 0 {
		reqBody["max_tokens"] = c.opts.MaxOutputTokens
	}

	raw, err := c.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Embed returns one vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if c.opts.BaseURL == "" || c.opts.EmbeddingModel == "" {
		return nil, ErrNotConfigured
	}
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := map[string]interface{}{
		"model": c.opts.EmbeddingModel,
		"input": texts,
	}
	raw, err := c.post(ctx, "/embeddings", reqBody)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding json failed: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: want %d, got %d", len(texts), len(parsed.Data))
	}
	vectors := make([][]float64, len(parsed.Data))
	for i := range parsed.Data {
		vectors[i] = parsed.Data[i].Embedding
	}
	return vectors, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	url := strings.TrimRight(c.opts.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
