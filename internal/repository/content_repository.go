package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(tx *gorm.DB, content *model.DocumentContent) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(content).Error; err != nil {
		return fmt.Errorf("create document content failed: %w", err)
	}
	return nil
}

// GetByDocumentID returns nil, nil when no content row exists for the document.
func (r *ContentRepository) GetByDocumentID(documentID uint) (*model.DocumentContent, error) {
	var content model.DocumentContent
	if err := r.db.Where("document_id = ?", documentID).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document content failed: %w", err)
	}
	return &content, nil
}

// ListAll returns every content row. Used by answer stages that fall back
// to scanning full texts when chunk retrieval comes up empty.
func (r *ContentRepository) ListAll() ([]model.DocumentContent, error) {
	var list []model.DocumentContent
	if err := r.db.Order("document_id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list document contents failed: %w", err)
	}
	return list, nil
}

func (r *ContentRepository) DeleteByDocumentID(tx *gorm.DB, documentID uint) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Where("document_id = ?", documentID).Delete(&model.DocumentContent{}).Error; err != nil {
		return fmt.Errorf("delete document content failed: %w", err)
	}
	return nil
}
