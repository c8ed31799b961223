package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

const (
	summaryMaxSentences  = 5
	summaryMaxKeywords   = 10
	summaryMinSentence   = 20
	summaryFallbackChars = 300
	statsRecentAnswers   = 10
)

var (
	wordPattern    = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)
	nonWordPattern = regexp.MustCompile(`\W+`)
)

// summarySkipWords are frequent words excluded from keyword counting.
var summarySkipWords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {},
	"were": {}, "they": {}, "what": {}, "when": {}, "where": {}, "their": {},
}

// DocumentInfo is the list/detail view of a stored document.
type DocumentInfo struct {
	ID               uint   `json:"id"`
	OriginalFilename string `json:"original_filename"`
	UploadTime       string `json:"upload_time"`
	ChunkCount       int    `json:"chunk_count"`
	ContentLength    int    `json:"content_length"`
}

// DocumentSummary is a lexical digest of one document: representative
// sentences plus frequency-ranked keywords. No model call involved.
type DocumentSummary struct {
	DocumentID    uint     `json:"document_id"`
	Filename      string   `json:"filename"`
	UploadTime    string   `json:"upload_time"`
	TextSummary   string   `json:"text_summary"`
	Keywords      []string `json:"keywords"`
	TotalChunks   int      `json:"total_chunks"`
	ContentLength int      `json:"content_length"`
}

// Stats is the dashboard view: corpus-level counters plus the latest
// answer records.
type Stats struct {
	Documents     int64                `json:"documents"`
	Chunks        int64                `json:"chunks"`
	AnswerRecords int64                `json:"answer_records"`
	RecentAnswers []model.AnswerRecord `json:"recent_answers"`
}

// DocumentService covers document lifecycle outside of ingestion:
// listing, content access, lexical summaries, deletion, and stats.
type DocumentService struct {
	db          *gorm.DB
	docRepo     DocumentStore
	contentRepo ContentStore
	chunkRepo   ChunkStore
	recordRepo  AnswerRecordSource
	invalidator CacheInvalidator
	uploadDir   string
}

func NewDocumentService(
	db *gorm.DB,
	docRepo DocumentStore,
	contentRepo ContentStore,
	chunkRepo ChunkStore,
	recordRepo AnswerRecordSource,
	invalidator CacheInvalidator,
	uploadDir string,
) *DocumentService {
	return &DocumentService{
		db:          db,
		docRepo:     docRepo,
		contentRepo: contentRepo,
		chunkRepo:   chunkRepo,
		recordRepo:  recordRepo,
		invalidator: invalidator,
		uploadDir:   uploadDir,
	}
}

func (s *DocumentService) List() ([]DocumentInfo, error) {
	docs, err := s.docRepo.List()
	if err != nil {
		return nil, err
	}
	infos := make([]DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		info := DocumentInfo{
			ID:               doc.ID,
			OriginalFilename: doc.OriginalFilename,
			UploadTime:       doc.UploadTime.Format(time.RFC3339),
		}
		if n, err := s.chunkRepo.CountByDocumentID(doc.ID); err == nil {
			info.ChunkCount = int(n)
		}
		if content, err := s.contentRepo.GetByDocumentID(doc.ID); err == nil && content != nil {
			info.ContentLength = len(content.TextContent)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *DocumentService) Get(id uint) (*model.Document, error) {
	doc, err := s.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %d", ErrNotFound, id)
	}
	return doc, nil
}

// Content returns the extracted text of a document.
func (s *DocumentService) Content(id uint) (string, error) {
	if _, err := s.Get(id); err != nil {
		return "", err
	}
	content, err := s.contentRepo.GetByDocumentID(id)
	if err != nil {
		return "", err
	}
	if content == nil || strings.TrimSpace(content.TextContent) == "" {
		return "", fmt.Errorf("%w: document %d", ErrNoContent, id)
	}
	return content.TextContent, nil
}

// Delete removes the document row, its content, its chunks, and the
// stored file, then drops cached answers that may reference it.
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	doc, err := s.Get(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.chunkRepo.DeleteByDocumentID(tx, id); err != nil {
			return err
		}
		if err := s.contentRepo.DeleteByDocumentID(tx, id); err != nil {
			return err
		}
		return s.docRepo.DeleteByID(tx, id)
	})
	if err != nil {
		return err
	}

	if doc.StoredFilename != "" {
		path := filepath.Join(s.uploadDir, doc.StoredFilename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove stored file %q failed: %v", path, err)
		}
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateAll(ctx); err != nil {
			log.Printf("invalidate answer cache failed: %v", err)
		}
	}
	return nil
}

// Summary builds the lexical summary: the first sentences of each chunk,
// de-duplicated, plus the most frequent non-trivial words of the text.
func (s *DocumentService) Summary(id uint) (*DocumentSummary, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	content, err := s.contentRepo.GetByDocumentID(id)
	if err != nil {
		return nil, err
	}
	chunks, err := s.chunkRepo.List(id)
	if err != nil {
		return nil, err
	}

	summary := &DocumentSummary{
		DocumentID:  id,
		Filename:    doc.OriginalFilename,
		UploadTime:  doc.UploadTime.Format(time.RFC3339),
		TotalChunks: len(chunks),
	}
	if len(chunks) == 0 {
		summary.TextSummary = "No content available for summarization"
		return summary, nil
	}

	summary.TextSummary = summarySentences(chunks)
	if content != nil {
		summary.ContentLength = len(content.TextContent)
		summary.Keywords = topKeywords(content.TextContent)
	}
	return summary, nil
}

func (s *DocumentService) Stats() (*Stats, error) {
	docs, err := s.docRepo.Count()
	if err != nil {
		return nil, err
	}
	chunks, err := s.chunkRepo.Count()
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.Count()
	if err != nil {
		return nil, err
	}
	recent, err := s.recordRepo.ListRecent(statsRecentAnswers)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Documents:     docs,
		Chunks:        chunks,
		AnswerRecords: records,
		RecentAnswers: recent,
	}, nil
}

func summarySentences(chunks []model.Chunk) string {
	var sentences []string
	for _, chunk := range chunks {
		parts := strings.SplitN(chunk.ChunkText, ". ", 3)
		for i, part := range parts {
			if i == 2 {
				break
			}
			part = strings.TrimSpace(part)
			if len(part) > 10 {
				sentences = append(sentences, part+".")
			}
		}
	}

	seen := make(map[string]struct{})
	var unique []string
	for _, sentence := range sentences {
		simplified := strings.ToLower(nonWordPattern.ReplaceAllString(sentence, ""))
		if len(simplified) <= summaryMinSentence {
			continue
		}
		if _, dup := seen[simplified]; dup {
			continue
		}
		seen[simplified] = struct{}{}
		unique = append(unique, sentence)
		if len(unique) == summaryMaxSentences {
			break
		}
	}

	if len(unique) == 0 {
		text := chunks[0].ChunkText
		if len(text) > summaryFallbackChars {
			text = text[:summaryFallbackChars] + "..."
		}
		return text
	}
	return strings.Join(unique, " ")
}

func topKeywords(text string) []string {
	freq := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, skip := summarySkipWords[word]; skip {
			continue
		}
		freq[word]++
	}

	type wordCount struct {
		word  string
		count int
	}
	counts := make([]wordCount, 0, len(freq))
	for word, count := range freq {
		counts = append(counts, wordCount{word: word, count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})

	n := summaryMaxKeywords
	if len(counts) < n {
		n = len(counts)
	}
	keywords := make([]string, n)
	for i := 0; i < n; i++ {
		keywords[i] = counts[i].word
	}
	return keywords
}
