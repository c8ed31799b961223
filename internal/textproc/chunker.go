package textproc

import (
	"regexp"
	"strings"
)

const (
	// MaxChunkSize is the upper bound on chunk length in bytes.
	MaxChunkSize = 3000
	// MinChunkSize is the smallest buffer the chunker will flush early.
	MinChunkSize = 300
	// ChunkOverlap is the overlap between consecutive fallback windows.
	ChunkOverlap = 300

	fenceMarker = "```"
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// SplitChunks splits text into ordered, size-bounded chunks.
//
// Text at or under MaxChunkSize is returned whole. Longer text is split on
// blank-line paragraphs which are greedily packed into chunks: a buffer is
// flushed once appending the next paragraph would exceed MaxChunkSize and
// the buffer already holds at least MinChunkSize characters. Fenced code
// regions (triple backticks) toggle an in-fence state across paragraphs;
// fenced paragraphs obey the same flush rule but are never cut mid-paragraph.
// The final non-empty buffer is always emitted.
//
// If paragraph splitting yields nothing usable (a single oversized paragraph
// with no blank lines), the text is windowed into MaxChunkSize slices with
// consecutive windows overlapping by exactly ChunkOverlap characters.
func SplitChunks(text string) []string {
	if len(text) <= MaxChunkSize {
		return []string{text}
	}

	paragraphs := make([]string, 0, 16)
	for _, p := range paragraphSplit.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	// A single oversized paragraph has no blank-line structure to pack by;
	// only the windowed fallback can bound it.
	if len(paragraphs) <= 1 {
		return windowChunks(text)
	}

	var chunks []string
	var current string
	inFence := false

	for _, p := range paragraphs {

		// An odd number of markers opens or closes a fenced region.
		if markers := strings.Count(p, fenceMarker); markers%2 == 1 {
			inFence = !inFence
		}

		// Fenced or not, paragraphs are the finest split granularity: the
		// flush decision is identical, a fence is just never cut inside.
		if len(current)+len(p) > MaxChunkSize && len(current) >= MinChunkSize {
			chunks = append(chunks, strings.TrimSpace(current))
			current = p
		} else if current == "" {
			current = p
		} else {
			current += "\n\n" + p
		}
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// windowChunks is the degenerate fallback: fixed windows of MaxChunkSize
// advancing by MaxChunkSize-ChunkOverlap, so neighbours share exactly
// ChunkOverlap characters and the union covers the whole text.
func windowChunks(text string) []string {
	var chunks []string
	step := MaxChunkSize - ChunkOverlap
	for start := 0; start < len(text); start += step {
		end := start + MaxChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}
