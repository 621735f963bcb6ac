package model

import "time"

// Document is a raw uploaded document as persisted at ingestion time.
// Content is the extracted plain text, not the original file bytes.
type Document struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	Filename  string    `gorm:"size:256;not null" json:"filename"`
	Content   string    `gorm:"type:longtext;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
