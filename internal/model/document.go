package model

import "time"

// Document is one uploaded PDF. It owns its content and chunks:
// deleting a document cascades to both (enforced in the repository layer).
type Document struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OriginalFilename string    `gorm:"size:256;not null" json:"original_filename"`
	StoredFilename   string    `gorm:"size:256;not null;uniqueIndex" json:"stored_filename"`
	UploadTime       time.Time `gorm:"autoCreateTime" json:"upload_time"`
}
