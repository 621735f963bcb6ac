package model

// ChunkMetadata is the fixed per-chunk metadata attached to every
// vector point. The payload schema is closed: source and user_id only.
type ChunkMetadata struct {
	Source string `json:"source"`
	UserID string `json:"user_id"`
}
