package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_NotConfigured(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.Generate(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model       string    `json:"model"`
			Temperature float64   `json:"temperature"`
			Messages    []Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "the answer"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Options{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	answer, err := client.Generate(context.Background(), "be helpful", "what is this")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
}

func TestGenerate_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Model: "m"})
	_, err := client.Generate(context.Background(), "", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Model: "m"})
	_, err := client.Generate(context.Background(), "", "question")
	assert.Error(t, err)
}

func TestEmbed_NotConfigured(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://localhost:1"})
	_, err := client.Embed(context.Background(), []string{"text"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestEmbed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float64{0.1, 0.2}},
				{"embedding": []float64{0.3, 0.4}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, EmbeddingModel: "emb"})
	vectors, err := client.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float64{0.1, 0.2}, vectors[0])
}

func TestEmbed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1]}]}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, EmbeddingModel: "emb"})
	_, err := client.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestGenerate_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Model: "m"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Generate(ctx, "", "question")
	assert.Error(t, err)
}
