package model

import "time"

// IngestEvent is an audit row recorded after a successful ingestion.
// Events are published to RabbitMQ by the ingest pipeline and persisted
// asynchronously by the audit worker.
type IngestEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"size:64;not null;index" json:"user_id"`
	Filename   string    `gorm:"size:256;not null" json:"filename"`
	ChunkCount int       `gorm:"not null" json:"chunk_count"`
	FileSize   int       `gorm:"not null" json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
}
