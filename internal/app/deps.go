package app

import (
	"fmt"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

// Narrow views over the repositories, so services that only read can be
// exercised without a database. The concrete repository types satisfy them.

type DocumentFinder interface {
	GetByID(id uint) (*model.Document, error)
}

type ContentSource interface {
	GetByDocumentID(documentID uint) (*model.DocumentContent, error)
	ListAll() ([]model.DocumentContent, error)
}

type ChunkSource interface {
	List(documentID uint) ([]model.Chunk, error)
}

// The full stores cover the document lifecycle: reads plus the
// transactional deletes and count queries.

type DocumentStore interface {
	DocumentFinder
	List() ([]model.Document, error)
	DeleteByID(tx *gorm.DB, id uint) error
	Count() (int64, error)
}

type ContentStore interface {
	ContentSource
	DeleteByDocumentID(tx *gorm.DB, documentID uint) error
}

type ChunkStore interface {
	ChunkSource
	CountByDocumentID(documentID uint) (int64, error)
	DeleteByDocumentID(tx *gorm.DB, documentID uint) error
	Count() (int64, error)
}

type AnswerRecordSource interface {
	ListRecent(limit int) ([]model.AnswerRecord, error)
	Count() (int64, error)
}

// documentName resolves a display name for source attribution, falling
// back to the id when the document row is gone.
func documentName(docs DocumentFinder, id uint) string {
	if doc, err := docs.GetByID(id); err == nil && doc != nil {
		return doc.OriginalFilename
	}
	return fmt.Sprintf("document %d", id)
}
