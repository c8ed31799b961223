package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

type AnswerRecordRepository struct {
	db *gorm.DB
}

func NewAnswerRecordRepository(db *gorm.DB) *AnswerRecordRepository {
	return &AnswerRecordRepository{db: db}
}

func (r *AnswerRecordRepository) Create(record *model.AnswerRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create answer record failed: %w", err)
	}
	return nil
}

func (r *AnswerRecordRepository) ListRecent(limit int) ([]model.AnswerRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.AnswerRecord
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list answer records failed: %w", err)
	}
	return records, nil
}

func (r *AnswerRecordRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.AnswerRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count answer records failed: %w", err)
	}
	return n, nil
}
