package embedding

import (
	"context"
	"fmt"

	"docuquery/internal/ai"
)

// RemoteEmbedder delegates to an OpenAI-compatible embeddings endpoint.
// Returned vectors are conformed to the configured dimension so stored
// rows stay comparable even if the upstream model changes width.
type RemoteEmbedder struct {
	client *ai.Client
	dim    int
}

func NewRemoteEmbedder(client *ai.Client, dim int) *RemoteEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &RemoteEmbedder{client: client, dim: dim}
}

func (e *RemoteEmbedder) Dimension() int { return e.dim }

func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *RemoteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.client.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("remote embedding failed: %w", err)
	}
	for i := range vectors {
		vectors[i] = Conform(vectors[i], e.dim)
	}
	return vectors, nil
}
