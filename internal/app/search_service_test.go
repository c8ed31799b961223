package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuquery/internal/embedding"
	"docuquery/internal/model"
)

func chunkWithEmbedding(t *testing.T, e embedding.Embedder, documentID uint, index int, text string) model.Chunk {
	t.Helper()
	vec, err := e.Embed(context.Background(), text)
	require.NoError(t, err)
	chunk := model.Chunk{DocumentID: documentID, ChunkIndex: index, ChunkText: text}
	chunk.SetEmbedding(vec)
	return chunk
}

func TestSearch_QueryTooShort(t *testing.T) {
	svc := NewSearchService(fakeDocs{}, fakeChunks{}, embedding.NewCharEmbedder(64))
	_, err := svc.Search(context.Background(), "ab", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Search(context.Background(), "  a  ", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearch_UnknownDocument(t *testing.T) {
	svc := NewSearchService(fakeDocs{}, fakeChunks{}, embedding.NewCharEmbedder(64))
	_, err := svc.Search(context.Background(), "valid query", 12, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_NoChunks(t *testing.T) {
	svc := NewSearchService(fakeDocs{}, fakeChunks{}, embedding.NewCharEmbedder(64))
	hits, err := svc.Search(context.Background(), "valid query", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_RanksExactMatchFirst(t *testing.T) {
	e := embedding.NewCharEmbedder(64)
	chunks := fakeChunks{
		chunkWithEmbedding(t, e, 1, 0, "quarterly revenue report details"),
		chunkWithEmbedding(t, e, 1, 1, "zzzz unrelated filler paragraph qqqq"),
	}
	svc := NewSearchService(fakeDocs{}, chunks, e)

	hits, err := svc.Search(context.Background(), "quarterly revenue report details", 0, 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	assert.Equal(t, 0, hits[0].ChunkIndex)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	for _, hit := range hits {
		assert.Greater(t, hit.Score, 0.3)
	}
}

// Chunks stored with zero vectors (embedding outage during ingest) score
// zero and never surface in results.
func TestSearch_SkipsZeroVectorChunks(t *testing.T) {
	e := embedding.NewCharEmbedder(64)
	zero := model.Chunk{DocumentID: 1, ChunkIndex: 0, ChunkText: "orphaned chunk"}
	zero.SetEmbedding(make([]float64, 64))

	svc := NewSearchService(fakeDocs{}, fakeChunks{zero}, e)
	hits, err := svc.Search(context.Background(), "orphaned chunk", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_ScopedToDocument(t *testing.T) {
	e := embedding.NewCharEmbedder(64)
	text := "shared phrase appearing in both documents"
	chunks := fakeChunks{
		chunkWithEmbedding(t, e, 1, 0, text),
		chunkWithEmbedding(t, e, 2, 0, text),
	}
	docs := fakeDocs{2: {ID: 2, OriginalFilename: "b.pdf"}}
	svc := NewSearchService(docs, chunks, e)

	hits, err := svc.Search(context.Background(), text, 2, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, uint(2), hits[0].DocumentID)
	assert.Equal(t, "b.pdf", hits[0].DocumentName)
}

func TestSearch_HitsCarryDocumentNames(t *testing.T) {
	e := embedding.NewCharEmbedder(64)
	text := "shared phrase appearing in both documents"
	chunks := fakeChunks{
		chunkWithEmbedding(t, e, 1, 0, text),
		chunkWithEmbedding(t, e, 2, 0, text),
	}
	docs := fakeDocs{1: {ID: 1, OriginalFilename: "a.pdf"}}
	svc := NewSearchService(docs, chunks, e)

	hits, err := svc.Search(context.Background(), text, 0, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	byID := map[uint]string{}
	for _, hit := range hits {
		byID[hit.DocumentID] = hit.DocumentName
	}
	assert.Equal(t, "a.pdf", byID[1])
	// A missing document row still yields a usable label.
	assert.Equal(t, "document 2", byID[2])
}

func TestSearch_SnippetBounded(t *testing.T) {
	e := embedding.NewCharEmbedder(64)
	long := strings.Repeat("quarterly revenue ", 40)
	chunks := fakeChunks{chunkWithEmbedding(t, e, 1, 0, long)}
	svc := NewSearchService(fakeDocs{}, chunks, e)

	hits, err := svc.Search(context.Background(), long, 0, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.LessOrEqual(t, len(hits[0].Snippet), 203)
	assert.True(t, strings.HasSuffix(hits[0].Snippet, "..."))
}

func TestSearch_LimitApplied(t *testing.T) {
	e := embedding.NewCharEmbedder(64)
	var chunks fakeChunks
	for i := 0; i < 15; i++ {
		chunks = append(chunks, chunkWithEmbedding(t, e, 1, i, "repeated identical text"))
	}
	svc := NewSearchService(fakeDocs{}, chunks, e)

	hits, err := svc.Search(context.Background(), "repeated identical text", 0, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 10)

	hits, err = svc.Search(context.Background(), "repeated identical text", 0, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}
