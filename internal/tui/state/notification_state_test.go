package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationState_AddAndExpire(t *testing.T) {
	s := NewNotificationState()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first := s.Add(LevelError, "no se pudo mover", now)
	second := s.Add(LevelSuccess, "movido", now.Add(time.Second))
	assert.NotEqual(t, first, second)

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "movido", latest.Message)
	assert.Len(t, s.All(), 2)

	s.Expire(now.Add(s.TTL()))
	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, second, all[0].ID)

	s.Expire(now.Add(time.Hour))
	assert.False(t, s.HasAny())
	_, ok = s.Latest()
	assert.False(t, ok)
}

func TestNotificationState_KeepsNewest(t *testing.T) {
	s := NewNotificationState()
	now := time.Now()
	for i := 0; i < 8; i++ {
		s.Add(LevelInfo, string(rune('a'+i)), now)
	}

	all := s.All()
	require.Len(t, all, 5)
	assert.Equal(t, "d", all[0].Message)
	assert.Equal(t, "h", all[4].Message)

	s.Clear()
	assert.Empty(t, s.All())
}
