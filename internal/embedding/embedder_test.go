package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func TestCharEmbedder_Dimension(t *testing.T) {
	assert.Equal(t, 128, NewCharEmbedder(0).Dimension())
	assert.Equal(t, 64, NewCharEmbedder(64).Dimension())
}

func TestCharEmbedder_Deterministic(t *testing.T) {
	e := NewCharEmbedder(128)
	ctx := context.Background()

	a, err := e.Embed(ctx, "the quarterly revenue grew by 12 percent")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "the quarterly revenue grew by 12 percent")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCharEmbedder_UnitNorm(t *testing.T) {
	e := NewCharEmbedder(128)
	vec, err := e.Embed(context.Background(), "some document text")
	require.NoError(t, err)
	require.Len(t, vec, 128)
	assert.InDelta(t, 1.0, vectorNorm(vec), 1e-9)
}

func TestCharEmbedder_EmptyTextZeroVector(t *testing.T) {
	e := NewCharEmbedder(128)
	vec, err := e.Embed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, vec, 128)
	assert.Zero(t, vectorNorm(vec))
}

// Characters beyond the dimension wrap onto earlier slots.
func TestCharEmbedder_PositionWrapsModuloDimension(t *testing.T) {
	e := NewCharEmbedder(4)
	vec, err := e.Embed(context.Background(), "aaaaa")
	require.NoError(t, err)

	// Slot 0 accumulates positions 0 and 4, slots 1-3 one each, then
	// the vector is normalized: slot 0 must outweigh the others.
	assert.Greater(t, vec[0], vec[1])
	assert.InDelta(t, vec[1], vec[2], 1e-12)
	assert.InDelta(t, vec[2], vec[3], 1e-12)
}

func TestCharEmbedder_EmbedBatchOrder(t *testing.T) {
	e := NewCharEmbedder(32)
	ctx := context.Background()

	texts := []string{"alpha", "beta", "gamma"}
	batch, err := e.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, err := e.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestConform(t *testing.T) {
	t.Run("same length unchanged", func(t *testing.T) {
		v := []float64{1, 2, 3}
		assert.Equal(t, v, Conform(v, 3))
	})

	t.Run("shorter is zero padded", func(t *testing.T) {
		out := Conform([]float64{1, 2}, 4)
		assert.Equal(t, []float64{1, 2, 0, 0}, out)
	})

	t.Run("longer is truncated", func(t *testing.T) {
		out := Conform([]float64{1, 2, 3, 4}, 2)
		assert.Equal(t, []float64{1, 2}, out)
	})
}
