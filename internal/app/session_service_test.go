package app

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	svc := NewSessionService()
	session, err := svc.Create("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "active", session.Status)
	assert.NotEmpty(t, session.CreatedAt)

	_, err = uuid.Parse(session.SessionID)
	assert.NoError(t, err, "session id must be a valid UUID")
}

func TestCreateSession_UniqueIDs(t *testing.T) {
	svc := NewSessionService()
	a, err := svc.Create("user-1")
	require.NoError(t, err)
	b, err := svc.Create("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestCreateSession_EmptyUserID(t *testing.T) {
	svc := NewSessionService()
	for _, userID := range []string{"", "   "} {
		_, err := svc.Create(userID)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	}
}
