package app

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"docuquery/internal/embedding"
)

const (
	searchMinQueryRunes = 3
	searchMinScore      = 0.3
	searchDefaultLimit  = 10
	searchSnippetSize   = 200
)

// SearchHit is one chunk matched by similarity search.
type SearchHit struct {
	DocumentID   uint    `json:"document_id"`
	DocumentName string  `json:"document_name"`
	ChunkID      uint    `json:"chunk_id"`
	ChunkIndex   int     `json:"chunk_index"`
	Score        float64 `json:"score"`
	Snippet      string  `json:"snippet"`
}

// SearchService ranks stored chunks against an embedded query.
type SearchService struct {
	docRepo   DocumentFinder
	chunkRepo ChunkSource
	embedder  embedding.Embedder
}

func NewSearchService(docRepo DocumentFinder, chunkRepo ChunkSource, embedder embedding.Embedder) *SearchService {
	return &SearchService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		embedder:  embedder,
	}
}

// Search embeds the query and returns the best-scoring chunks above the
// similarity floor. documentID zero searches every document.
func (s *SearchService) Search(ctx context.Context, query string, documentID uint, limit int) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < searchMinQueryRunes {
		return nil, fmt.Errorf("%w: query must be at least %d characters", ErrInvalidInput, searchMinQueryRunes)
	}
	if limit <= 0 || limit > searchDefaultLimit {
		limit = searchDefaultLimit
	}

	if documentID != 0 {
		doc, err := s.docRepo.GetByID(documentID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("%w: document %d", ErrNotFound, documentID)
		}
	}

	chunks, err := s.chunkRepo.List(documentID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return []SearchHit{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, mapGenerateErr(err)
	}

	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vectors[i] = chunks[i].EmbeddingVector()
	}

	names := make(map[uint]string)
	hits := make([]SearchHit, 0, limit)
	for _, scored := range embedding.RankBySimilarity(queryVec, vectors) {
		if scored.Score <= searchMinScore {
			break
		}
		chunk := chunks[scored.Index]
		name, ok := names[chunk.DocumentID]
		if !ok {
			name = documentName(s.docRepo, chunk.DocumentID)
			names[chunk.DocumentID] = name
		}
		hits = append(hits, SearchHit{
			DocumentID:   chunk.DocumentID,
			DocumentName: name,
			ChunkID:      chunk.ID,
			ChunkIndex:   chunk.ChunkIndex,
			Score:        scored.Score,
			Snippet:      snippet(chunk.ChunkText),
		})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

// snippet truncates chunk text at a rune boundary for display.
func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= searchSnippetSize {
		return text
	}
	runes := []rune(text)
	if len(runes) <= searchSnippetSize {
		return text
	}
	return string(runes[:searchSnippetSize]) + "..."
}
