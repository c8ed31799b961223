package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(tx *gorm.DB, doc *model.Document) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// List returns all documents, newest upload first.
func (r *DocumentRepository) List() ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Order("upload_time DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

// GetByID returns nil, nil when the document does not exist.
func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) DeleteByID(tx *gorm.DB, id uint) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Delete(&model.Document{}, id).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.Document{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count documents failed: %w", err)
	}
	return n, nil
}
