package model

// DocumentContent holds the full normalized text extracted from one document.
// Immutable after creation; removed only when the parent document is deleted.
type DocumentContent struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DocumentID  uint   `gorm:"not null;index" json:"document_id"`
	TextContent string `gorm:"type:longtext;not null" json:"text_content"`
}
