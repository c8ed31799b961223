package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) CreateBatch(tx *gorm.DB, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	if err := tx.CreateInBatches(&chunks, 100).Error; err != nil {
		return fmt.Errorf("create chunks batch failed: %w", err)
	}
	return nil
}

// List returns chunks for one document when documentID is non-zero, or
// every chunk otherwise, ordered by document then position.
func (r *ChunkRepository) List(documentID uint) ([]model.Chunk, error) {
	q := r.db.Order("document_id ASC, chunk_index ASC")
	if documentID != 0 {
		q = q.Where("document_id = ?", documentID)
	}
	var chunks []model.Chunk
	if err := q.Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks failed: %w", err)
	}
	return chunks, nil
}

func (r *ChunkRepository) DeleteByDocumentID(tx *gorm.DB, documentID uint) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Where("document_id = ?", documentID).Delete(&model.Chunk{}).Error; err != nil {
		return fmt.Errorf("delete chunks by document failed: %w", err)
	}
	return nil
}

func (r *ChunkRepository) CountByDocumentID(documentID uint) (int64, error) {
	var n int64
	err := r.db.Model(&model.Chunk{}).Where("document_id = ?", documentID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count chunks by document failed: %w", err)
	}
	return n, nil
}

func (r *ChunkRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.Chunk{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count chunks failed: %w", err)
	}
	return n, nil
}
