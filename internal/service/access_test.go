package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/quiz-deck-bot/internal/storage"
)

func TestAccessGate(t *testing.T) {
	access := NewAccessService(DefaultAccessPassword, storage.NewAccessStorage())

	assert.True(t, access.Enabled())
	assert.False(t, access.Authorized("tg:1"))

	assert.ErrorIs(t, access.Login("tg:1", "guess"), ErrWrongPassword)
	assert.False(t, access.Authorized("tg:1"))

	assert.NoError(t, access.Login("tg:1", "quiz2024"))
	assert.True(t, access.Authorized("tg:1"))
	assert.False(t, access.Authorized("tg:2"))

	access.Logout("tg:1")
	assert.False(t, access.Authorized("tg:1"))

	assert.True(t, access.Check("quiz2024"))
	assert.False(t, access.Check(""))
}

func TestAccessGateDisabled(t *testing.T) {
	access := NewAccessService("", storage.NewAccessStorage())

	assert.False(t, access.Enabled())
	assert.True(t, access.Authorized("anyone"))
	assert.True(t, access.Check(""))
	assert.NoError(t, access.Login("tg:1", "whatever"))
}
