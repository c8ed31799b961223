// Package embedding maps text to fixed-dimension vectors and ranks vectors
// by cosine similarity. The default backend is a deterministic character
// accumulator: reproducible and unit-length, but with no semantic claim. A
// remote backend can be substituted behind the same interface.
package embedding

import (
	"context"
	"math"
)

// DefaultDimension is the vector size used when none is configured.
const DefaultDimension = 128

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch returns exactly one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// CharEmbedder is the deterministic local backend: each rune contributes
// ord(r)/1000 to the slot at its position modulo the dimension, and the
// result is L2-normalized. The empty string maps to the zero vector.
type CharEmbedder struct {
	dim int
}

func NewCharEmbedder(dim int) *CharEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &CharEmbedder{dim: dim}
}

func (e *CharEmbedder) Dimension() int { return e.dim }

func (e *CharEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.dim)
	i := 0
	for _, r := range text {
		vec[i%e.dim] += float64(r) / 1000.0
		i++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (e *CharEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Conform aligns a persisted vector to the configured dimension: vectors
// from an older, smaller configuration are zero-padded so they score low
// instead of mis-scoring; vectors longer than dim are truncated.
func Conform(vec []float64, dim int) []float64 {
	if len(vec) == dim {
		return vec
	}
	out := make([]float64, dim)
	copy(out, vec)
	return out
}
