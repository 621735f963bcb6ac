package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is the create-session response. Session IDs are opaque
// correlation keys; no record is persisted and later requests do not
// validate the ID against any store.
type Session struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
	Status    string `json:"status"`
}

type SessionService struct{}

func NewSessionService() *SessionService {
	return &SessionService{}
}

func (s *SessionService) Create(userID string) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return &Session{
		SessionID: uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Status:    "active",
	}, nil
}
