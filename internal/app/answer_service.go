package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"docuquery/internal/ai"
	"docuquery/internal/model"
)

const (
	topChunks          = 8
	sampleThreshold    = 8000
	sampleHeadSize     = 3000
	sampleMiddleSize   = 3000
	sampleTailSize     = 2000
	windowSize         = 7000
	windowMinSignal    = 500
	windowContextLimit = 15000
	summaryInputLimit  = 30000
	contextSeparator   = "\n\n---\n\n"
)

// Retrieval stages, recorded with every answer.
const (
	StageChunks = "chunks"
	StageSample = "sample"
	StageWindow = "window"
	StageNaive  = "naive"
)

const answerSystemPrompt = "You are a document analysis assistant. Answer the question based ONLY " +
	"on the document content provided. If the answer cannot be derived from the content, clearly " +
	"state that the information is not in the provided documents. Do not fabricate information. " +
	"Be precise, concise, and accurate."

// Generator produces model completions. *ai.Client satisfies it; tests
// substitute fakes.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// AnswerStore caches finished answers keyed by question and document scope.
type AnswerStore interface {
	Get(ctx context.Context, question string, documentID uint) (answer, stage string, sources []string, ok bool, err error)
	Set(ctx context.Context, question string, documentID uint, answer, stage string, sources []string) error
}

// RecordPublisher hands answer records to the async persistence pipeline.
type RecordPublisher interface {
	Publish(ctx context.Context, record model.AnswerRecord) error
}

// AnswerResult is what Ask returns to the transport layer. Sources names
// the documents whose text went into the context.
type AnswerResult struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Stage       string   `json:"stage"`
	Sources     []string `json:"sources"`
	SourceCount int      `json:"source_count"`
	Cached      bool     `json:"cached"`
}

// answerScope is the material one question ranges over: full texts and
// chunks, plus the filenames of the documents that contributed them.
type answerScope struct {
	sources  []string
	contents []string
	chunks   []model.Chunk
}

// AnswerService answers questions over ingested documents. Retrieval
// escalates through three stages: keyword-matched chunks, head/middle/tail
// samples of each document, then overlapping full-text windows. A stage's
// answer is kept unless the model says the context lacked the information.
type AnswerService struct {
	docRepo     DocumentFinder
	contentRepo ContentSource
	chunkRepo   ChunkSource
	generator   Generator
	cache       AnswerStore
	publisher   RecordPublisher
	naive       *NaiveAnswerService
	askTimeout  time.Duration
}

func NewAnswerService(
	docRepo DocumentFinder,
	contentRepo ContentSource,
	chunkRepo ChunkSource,
	generator Generator,
	cache AnswerStore,
	publisher RecordPublisher,
	naive *NaiveAnswerService,
	askTimeout time.Duration,
) *AnswerService {
	if askTimeout <= 0 {
		askTimeout = 60 * time.Second
	}
	return &AnswerService{
		docRepo:     docRepo,
		contentRepo: contentRepo,
		chunkRepo:   chunkRepo,
		generator:   generator,
		cache:       cache,
		publisher:   publisher,
		naive:       naive,
		askTimeout:  askTimeout,
	}
}

// Ask answers question over one document, or over all documents when
// documentID is zero.
func (s *AnswerService) Ask(ctx context.Context, question string, documentID uint) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}

	if s.cache != nil {
		answer, stage, sources, ok, err := s.cache.Get(ctx, question, documentID)
		if err != nil {
			log.Printf("answer cache lookup failed: %v", err)
		} else if ok {
			return &AnswerResult{
				Question: question,
				Answer:   answer,
				Stage:    stage,
				Sources:  sources,
				Cached:   true,
			}, nil
		}
	}

	scope, err := s.loadScope(documentID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.askTimeout)
	defer cancel()

	result, err := s.answerStaged(genCtx, question, scope)
	if err != nil {
		return s.fallbackAnswer(ctx, question, documentID, mapGenerateErr(err))
	}
	result.Question = question

	if s.cache != nil {
		if err := s.cache.Set(genCtx, question, documentID, result.Answer, result.Stage, result.Sources); err != nil {
			log.Printf("answer cache store failed: %v", err)
		}
	}
	s.publishRecord(question, documentID, result)

	return result, nil
}

// fallbackAnswer tries the embedding-ranked answer path when the model
// call failed. Cancellation and caller mistakes are not recoverable, and
// the fallback's own answer is never cached.
func (s *AnswerService) fallbackAnswer(ctx context.Context, question string, documentID uint, genErr error) (*AnswerResult, error) {
	if s.naive == nil || errors.Is(genErr, context.Canceled) {
		return nil, genErr
	}
	result, err := s.naive.Answer(ctx, question, documentID)
	if err != nil {
		return nil, genErr
	}
	log.Printf("model answer failed (%v), served embedding-ranked fallback", genErr)
	s.publishRecord(question, documentID, result)
	return result, nil
}

// loadScope gathers the texts, chunks, and document names the question
// ranges over.
func (s *AnswerService) loadScope(documentID uint) (*answerScope, error) {
	if documentID != 0 {
		doc, err := s.docRepo.GetByID(documentID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("%w: document %d", ErrNotFound, documentID)
		}
		content, err := s.contentRepo.GetByDocumentID(documentID)
		if err != nil {
			return nil, err
		}
		if content == nil || strings.TrimSpace(content.TextContent) == "" {
			return nil, fmt.Errorf("%w: document %d", ErrNoContent, documentID)
		}
		chunks, err := s.chunkRepo.List(documentID)
		if err != nil {
			return nil, err
		}
		return &answerScope{
			sources:  []string{doc.OriginalFilename},
			contents: []string{content.TextContent},
			chunks:   chunks,
		}, nil
	}

	rows, err := s.contentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	scope := &answerScope{}
	for _, row := range rows {
		if strings.TrimSpace(row.TextContent) == "" {
			continue
		}
		scope.contents = append(scope.contents, row.TextContent)
		scope.sources = append(scope.sources, documentName(s.docRepo, row.DocumentID))
	}
	if len(scope.contents) == 0 {
		return nil, fmt.Errorf("%w: no documents with text", ErrNoContent)
	}
	scope.chunks, err = s.chunkRepo.List(0)
	if err != nil {
		return nil, err
	}
	return scope, nil
}

func (s *AnswerService) answerStaged(ctx context.Context, question string, scope *answerScope) (*AnswerResult, error) {
	keywords := extractKeywords(question)
	sourceList := strings.Join(scope.sources, ", ")

	chunkContext, used := buildChunkContext(scope.chunks, keywords)
	if chunkContext != "" {
		prompt := fmt.Sprintf("Question: %s\n\nDocument sources: %s\n\nDocument content:\n%s",
			question, sourceList, chunkContext)
		answer, err := s.generator.Generate(ctx, answerSystemPrompt, prompt)
		if err != nil {
			return nil, err
		}
		if !answerIndicatesNotFound(answer) {
			return &AnswerResult{Answer: answer, Stage: StageChunks, Sources: scope.sources, SourceCount: used}, nil
		}
	}

	samplePrompt := fmt.Sprintf(
		"Question: %s\n\nDocument sources: %s\n\nDocument content (samples from the beginning, middle, and end of each document):\n%s",
		question, sourceList, buildSampleContext(scope.contents))
	answer, err := s.generator.Generate(ctx, answerSystemPrompt, samplePrompt)
	if err != nil {
		return nil, err
	}
	if !answerIndicatesNotFound(answer) {
		return &AnswerResult{Answer: answer, Stage: StageSample, Sources: scope.sources, SourceCount: len(scope.contents)}, nil
	}

	windowPrompt := fmt.Sprintf(
		"Question: %s\n\nDocument sources: %s\n\nDocument content (overlapping sections, search all of them):\n%s",
		question, sourceList, buildWindowContext(scope.contents))
	answer, err = s.generator.Generate(ctx, answerSystemPrompt, windowPrompt)
	if err != nil {
		return nil, err
	}
	return &AnswerResult{Answer: answer, Stage: StageWindow, Sources: scope.sources, SourceCount: len(scope.contents)}, nil
}

// Summarize asks the model for a structured summary of one document.
func (s *AnswerService) Summarize(ctx context.Context, documentID uint) (string, error) {
	doc, err := s.docRepo.GetByID(documentID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("%w: document %d", ErrNotFound, documentID)
	}
	content, err := s.contentRepo.GetByDocumentID(documentID)
	if err != nil {
		return "", err
	}
	if content == nil || strings.TrimSpace(content.TextContent) == "" {
		return "", fmt.Errorf("%w: document %d", ErrNoContent, documentID)
	}

	text := content.TextContent
	if len(text) > summaryInputLimit {
		text = text[:summaryInputLimit] + "..."
	}

	ctx, cancel := context.WithTimeout(ctx, s.askTimeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Generate a structured summary of the document %q: a brief overview, "+
			"the main topics as bullet points, notable findings or figures, and "+
			"5-10 keywords. Keep it concise.\n\nDocument content:\n%s",
		doc.OriginalFilename, text)
	summary, err := s.generator.Generate(ctx, answerSystemPrompt, prompt)
	if err != nil {
		return "", mapGenerateErr(err)
	}
	return summary, nil
}

// publishRecord ships the answer to the audit queue without blocking the
// caller. A broker outage costs the record, never the answer.
func (s *AnswerService) publishRecord(question string, documentID uint, result *AnswerResult) {
	if s.publisher == nil {
		return
	}
	record := model.AnswerRecord{
		Question:    question,
		DocumentID:  documentID,
		Answer:      result.Answer,
		Stage:       result.Stage,
		SourceCount: result.SourceCount,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, record); err != nil {
			log.Printf("publish answer record failed: %v", err)
		}
	}()
}

func mapGenerateErr(err error) error {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		// Generic upstream failures keep their status and message and
		// surface as a plain internal error.
		return err
	}
}

// buildChunkContext keeps chunks matching at least one keyword, orders
// them by how many distinct keywords they match, and joins the top ones.
// Returns the joined context and how many chunks it contains.
func buildChunkContext(chunks []model.Chunk, keywords []string) (string, int) {
	if len(keywords) == 0 {
		return "", 0
	}

	type scoredChunk struct {
		text    string
		matches int
	}
	var relevant []scoredChunk
	for _, chunk := range chunks {
		lower := strings.ToLower(chunk.ChunkText)
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches > 0 {
			relevant = append(relevant, scoredChunk{text: chunk.ChunkText, matches: matches})
		}
	}
	if len(relevant) == 0 {
		return "", 0
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].matches > relevant[j].matches
	})
	if len(relevant) > topChunks {
		relevant = relevant[:topChunks]
	}

	parts := make([]string, len(relevant))
	for i, rc := range relevant {
		parts[i] = rc.text
	}
	return strings.Join(parts, contextSeparator), len(parts)
}

// buildSampleContext represents each document by its head, a slice
// centered on the midpoint, and its tail. Short documents go in whole.
func buildSampleContext(contents []string) string {
	samples := make([]string, 0, len(contents))
	for _, content := range contents {
		if len(content) <= sampleThreshold {
			samples = append(samples, content)
			continue
		}
		middleStart := len(content)/2 - sampleMiddleSize/2
		if middleStart < 0 {
			middleStart = 0
		}
		middleEnd := middleStart + sampleMiddleSize
		if middleEnd > len(content) {
			middleEnd = len(content)
		}
		samples = append(samples,
			content[:sampleHeadSize]+"\n...\n"+
				content[middleStart:middleEnd]+"\n...\n"+
				content[len(content)-sampleTailSize:])
	}
	return strings.Join(samples, contextSeparator)
}

// buildWindowContext slides a half-overlapping window across each
// document's full text. Windows without enough significant content are
// skipped, and the total context is capped.
func buildWindowContext(contents []string) string {
	var sb strings.Builder
	for _, content := range contents {
		content = strings.TrimSpace(content)
		if len(content) <= windowSize {
			sb.WriteString(content)
			sb.WriteString(contextSeparator)
			continue
		}
		for i := 0; i < len(content); i += windowSize / 2 {
			end := i + windowSize
			if end > len(content) {
				end = len(content)
			}
			window := content[i:end]
			if len(strings.TrimSpace(window)) > windowMinSignal {
				sb.WriteString(window)
				sb.WriteString(contextSeparator)
			}
			if sb.Len() > windowContextLimit {
				break
			}
		}
		if sb.Len() > windowContextLimit {
			break
		}
	}
	return strings.TrimSuffix(sb.String(), contextSeparator)
}
