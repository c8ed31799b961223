package model

import (
	"encoding/json"
	"time"
)

// Chunk is one retrieval unit of a document: an ordered slice of its text
// plus the embedding vector, stored as a JSON array of float64 for
// portability across databases.
type Chunk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	ChunkIndex int       `gorm:"not null" json:"chunk_index"`
	ChunkText  string    `gorm:"type:text;not null" json:"chunk_text"`
	Embedding  string    `gorm:"type:text;not null" json:"-"` // JSON array of float64
	CreatedAt  time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; nil on parse error.
func (c *Chunk) EmbeddingVector() []float64 {
	if c.Embedding == "" {
		return nil
	}
	var v []float64
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *Chunk) SetEmbedding(vec []float64) {
	if len(vec) == 0 {
		c.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}
