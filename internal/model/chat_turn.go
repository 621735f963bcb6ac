package model

import "time"

// ChatTurn is one completed query/response pair within a session.
// A session has no record of its own; it exists only as the session_id
// correlation key shared by its turns.
type ChatTurn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	Query     string    `gorm:"type:text;not null" json:"query"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
