package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docuquery/internal/embedding"
	"docuquery/internal/model"
	"docuquery/internal/pkg/pdfextract"
	"docuquery/internal/repository"
	"docuquery/internal/textproc"
)

const fallbackChunkSize = 1000

// CacheInvalidator clears cached answers when the document set changes.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// IngestStats reports what ingestion produced for one upload.
type IngestStats struct {
	Pages         int  `json:"pages"`
	ContentLength int  `json:"content_length"`
	ChunkCount    int  `json:"chunk_count"`
	TextExtracted bool `json:"text_extracted"`
}

// IngestService turns an uploaded PDF into a document row, its extracted
// text, and embedded chunks. Ingestion degrades instead of failing: a PDF
// with no extractable text gets placeholder content, and an embedding
// outage stores chunks with zero vectors so the text is still searchable
// by keyword.
type IngestService struct {
	db          *gorm.DB
	docRepo     *repository.DocumentRepository
	contentRepo *repository.ContentRepository
	chunkRepo   *repository.ChunkRepository
	embedder    embedding.Embedder
	invalidator CacheInvalidator
	uploadDir   string
	maxSize     int64
}

func NewIngestService(
	db *gorm.DB,
	docRepo *repository.DocumentRepository,
	contentRepo *repository.ContentRepository,
	chunkRepo *repository.ChunkRepository,
	embedder embedding.Embedder,
	invalidator CacheInvalidator,
	uploadDir string,
	maxSize int64,
) *IngestService {
	return &IngestService{
		db:          db,
		docRepo:     docRepo,
		contentRepo: contentRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		invalidator: invalidator,
		uploadDir:   uploadDir,
		maxSize:     maxSize,
	}
}

// Ingest stores the uploaded file and persists document, content, and
// chunks in one transaction.
func (s *IngestService) Ingest(ctx context.Context, originalFilename string, r io.Reader) (*model.Document, *IngestStats, error) {
	originalFilename = strings.TrimSpace(originalFilename)
	if originalFilename == "" {
		return nil, nil, fmt.Errorf("%w: filename is empty", ErrInvalidInput)
	}
	if !strings.EqualFold(filepath.Ext(originalFilename), ".pdf") {
		return nil, nil, fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read upload failed: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.maxSize)
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	storedFilename := uuid.NewString() + ".pdf"
	storedPath := filepath.Join(s.uploadDir, storedFilename)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create upload dir failed: %w", err)
	}
	if err := os.WriteFile(storedPath, data, 0o644); err != nil {
		return nil, nil, fmt.Errorf("store upload failed: %w", err)
	}

	stats := &IngestStats{}
	text := ""
	extracted, err := pdfextract.Extract(bytes.NewReader(data))
	if err != nil {
		log.Printf("pdf extraction failed for %q: %v", originalFilename, err)
	} else {
		text = textproc.Normalize(extracted.Text)
		stats.Pages = extracted.Pages
	}
	if strings.TrimSpace(text) == "" {
		text = fmt.Sprintf("No text could be extracted from this file: %s", originalFilename)
	} else {
		stats.TextExtracted = true
	}
	stats.ContentLength = len(text)

	chunks := textproc.SplitChunks(text)
	if len(chunks) == 0 {
		fallback := text
		if len(fallback) > fallbackChunkSize {
			fallback = fallback[:fallbackChunkSize]
		}
		chunks = []string{fallback}
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil || len(vectors) != len(chunks) {
		if err != nil {
			log.Printf("embedding failed for %q, storing zero vectors: %v", originalFilename, err)
		}
		vectors = make([][]float64, len(chunks))
		for i := range vectors {
			vectors[i] = make([]float64, s.embedder.Dimension())
		}
	}

	doc := &model.Document{
		OriginalFilename: originalFilename,
		StoredFilename:   storedFilename,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.docRepo.Create(tx, doc); err != nil {
			return err
		}
		if err := s.contentRepo.Create(tx, &model.DocumentContent{
			DocumentID:  doc.ID,
			TextContent: text,
		}); err != nil {
			return err
		}
		rows := make([]model.Chunk, len(chunks))
		for i, chunkText := range chunks {
			rows[i] = model.Chunk{
				DocumentID: doc.ID,
				ChunkIndex: i,
				ChunkText:  chunkText,
			}
			rows[i].SetEmbedding(vectors[i])
		}
		return s.chunkRepo.CreateBatch(tx, rows)
	})
	if err != nil {
		_ = os.Remove(storedPath)
		return nil, nil, err
	}
	stats.ChunkCount = len(chunks)

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateAll(ctx); err != nil {
			log.Printf("invalidate answer cache failed: %v", err)
		}
	}

	return doc, stats, nil
}
