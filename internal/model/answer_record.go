package model

import "time"

// AnswerRecord is the audit trail of answered questions. Records are
// published to RabbitMQ after a successful answer and persisted by a
// background worker, so answering never blocks on the database.
type AnswerRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	DocumentID  uint      `gorm:"index" json:"document_id"` // 0 = all documents
	Answer      string    `gorm:"type:text;not null" json:"answer"`
	Stage       string    `gorm:"size:32;not null" json:"stage"`
	SourceCount int       `gorm:"not null" json:"source_count"`
	CreatedAt   time.Time `json:"created_at"`
}
