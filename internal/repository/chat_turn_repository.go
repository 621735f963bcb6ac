package repository

import (
	"fmt"

	"gorm.io/gorm"

	"ragapi/internal/model"
)

type ChatTurnRepository struct {
	db *gorm.DB
}

func NewChatTurnRepository(db *gorm.DB) *ChatTurnRepository {
	return &ChatTurnRepository{db: db}
}

func (r *ChatTurnRepository) Create(turn *model.ChatTurn) error {
	if err := r.db.Create(turn).Error; err != nil {
		return fmt.Errorf("create chat turn failed: %w", err)
	}
	return nil
}

// ListRecentBySessionID returns the most recent limit turns for the
// session in chronological order (oldest of the window first).
func (r *ChatTurnRepository) ListRecentBySessionID(sessionID string, limit int) ([]model.ChatTurn, error) {
	if limit <= 0 {
		limit = 3
	}

	var turns []model.ChatTurn
	if err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("list chat turns failed: %w", err)
	}

	// Query returned newest first; reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (r *ChatTurnRepository) DeleteBySessionID(sessionID string) error {
	if err := r.db.Where("session_id = ?", sessionID).Delete(&model.ChatTurn{}).Error; err != nil {
		return fmt.Errorf("delete chat turns failed: %w", err)
	}
	return nil
}
