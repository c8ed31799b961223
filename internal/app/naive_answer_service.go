package app

import (
	"context"
	"fmt"
	"strings"

	"docuquery/internal/embedding"
)

const (
	naiveTopChunks          = 3
	naiveHighConfidence     = 70
	naiveModerateConfidence = 40
)

// NaiveAnswerService answers questions without a model call: the question
// is embedded, stored chunks are ranked by cosine similarity, and the best
// chunk is quoted verbatim with a confidence derived from its score. It
// serves as the fallback when the model-backed path fails, and as the
// counterpart of the model answer in comparisons.
type NaiveAnswerService struct {
	docRepo   DocumentFinder
	chunkRepo ChunkSource
	embedder  embedding.Embedder
}

func NewNaiveAnswerService(docRepo DocumentFinder, chunkRepo ChunkSource, embedder embedding.Embedder) *NaiveAnswerService {
	return &NaiveAnswerService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		embedder:  embedder,
	}
}

// Answer resolves question against one document, or all documents when
// documentID is zero. The answer always quotes stored chunk text.
func (s *NaiveAnswerService) Answer(ctx context.Context, question string, documentID uint) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
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
		return nil, fmt.Errorf("%w: no chunks to answer from", ErrNoContent)
	}

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, mapGenerateErr(err)
	}

	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vectors[i] = chunks[i].EmbeddingVector()
	}
	ranked := embedding.RankBySimilarity(queryVec, vectors)

	used := naiveTopChunks
	if len(ranked) < used {
		used = len(ranked)
	}

	best := chunks[ranked[0].Index]
	source := documentName(s.docRepo, best.DocumentID)
	confidence := int(ranked[0].Score * 100)

	return &AnswerResult{
		Question:    question,
		Answer:      naiveAnswerText(best.ChunkText, source, confidence),
		Stage:       StageNaive,
		Sources:     []string{source},
		SourceCount: used,
	}, nil
}

// naiveAnswerText phrases the quoted chunk according to how well it
// matched. Low scores are still surfaced, hedged rather than hidden.
func naiveAnswerText(text, source string, confidence int) string {
	var lead string
	switch {
	case confidence >= naiveHighConfidence:
		lead = "Based on the document content, I found this information:"
	case confidence >= naiveModerateConfidence:
		lead = "I'm not entirely sure, but here's what I found in the document:"
	default:
		lead = "I couldn't find a definitive answer, but this might be relevant:"
	}
	return fmt.Sprintf("%s\n\n%s\n\nSource: %s\nConfidence: %d%%", lead, text, source, confidence)
}
