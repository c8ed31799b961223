package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	text := "short document text"
	chunks := SplitChunks(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitChunks_ExactMaxSingleChunk(t *testing.T) {
	text := strings.Repeat("a", MaxChunkSize)
	chunks := SplitChunks(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitChunks_OversizedParagraphWindows(t *testing.T) {
	text := strings.Repeat("A", 4000)
	chunks := SplitChunks(text)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], MaxChunkSize)
	assert.Len(t, chunks[1], 1300)

	// Consecutive windows share exactly ChunkOverlap characters.
	tail := chunks[0][len(chunks[0])-ChunkOverlap:]
	head := chunks[1][:ChunkOverlap]
	assert.Equal(t, tail, head)

	// The windows cover the whole input.
	assert.Equal(t, text, chunks[0]+chunks[1][ChunkOverlap:])
}

func TestSplitChunks_WindowsCoverLongText(t *testing.T) {
	text := strings.Repeat("B", 10000)
	chunks := SplitChunks(text)

	require.NotEmpty(t, chunks)
	step := MaxChunkSize - ChunkOverlap
	rebuilt := chunks[0]
	for _, chunk := range chunks[1:] {
		require.GreaterOrEqual(t, len(chunk), ChunkOverlap)
		rebuilt += chunk[ChunkOverlap:]
	}
	assert.Equal(t, text, rebuilt)
	assert.Equal(t, (len(text)-MaxChunkSize)/step+2, len(chunks))
}

func TestSplitChunks_GreedyParagraphPacking(t *testing.T) {
	pa := strings.Repeat("a", 1600)
	pb := strings.Repeat("b", 1600)
	pc := strings.Repeat("c", 1600)
	text := pa + "\n\n" + pb + "\n\n" + pc

	chunks := SplitChunks(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, pa, chunks[0])
	assert.Equal(t, pb, chunks[1])
	assert.Equal(t, pc, chunks[2])
}

func TestSplitChunks_PacksSmallParagraphsTogether(t *testing.T) {
	pa := strings.Repeat("a", 1000)
	pb := strings.Repeat("b", 1000)
	pc := strings.Repeat("c", 2500)
	text := pa + "\n\n" + pb + "\n\n" + pc

	chunks := SplitChunks(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, pa+"\n\n"+pb, chunks[0])
	assert.Equal(t, pc, chunks[1])
}

// A buffer below MinChunkSize is never flushed early, even when the next
// paragraph pushes the chunk past MaxChunkSize.
func TestSplitChunks_TinyBufferNotFlushed(t *testing.T) {
	small := strings.Repeat("s", 100)
	big := strings.Repeat("b", 2950)
	text := small + "\n\n" + big + "\n\n" + big

	chunks := SplitChunks(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, small+"\n\n"+big, chunks[0])
	assert.Equal(t, big, chunks[1])
}

func TestSplitChunks_FencedParagraphStaysIntact(t *testing.T) {
	fenced := "```\n" + strings.Repeat("code line\n", 40) + "```"
	filler := strings.Repeat("x", 2800)
	text := filler + "\n\n" + fenced + "\n\n" + filler

	chunks := SplitChunks(text)
	found := false
	for _, chunk := range chunks {
		if strings.Contains(chunk, fenced) {
			found = true
		}
	}
	assert.True(t, found, "fenced block should appear uncut in one chunk")
}

func TestSplitChunks_ParagraphOrderPreserved(t *testing.T) {
	paragraphs := []string{
		strings.Repeat("first", 300),
		strings.Repeat("second", 300),
		strings.Repeat("third", 300),
		strings.Repeat("fourth", 300),
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := SplitChunks(text)
	joined := strings.Join(chunks, "\n\n")
	last := -1
	for _, p := range paragraphs {
		idx := strings.Index(joined, p)
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last)
		last = idx
	}
}
