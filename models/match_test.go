package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairIDIsCanonical(t *testing.T) {
	assert.Equal(t, "alice#bob", PairID("alice", "bob"))
	assert.Equal(t, "alice#bob", PairID("bob", "alice"))
	assert.Equal(t, PairID("u1", "u2"), PairID("u2", "u1"))
}

func TestOtherParticipant(t *testing.T) {
	m := &MatchRecord{Participants: map[string]ParticipantState{"a": {}, "b": {}}}

	assert.Equal(t, "b", m.OtherParticipant("a"))
	assert.Equal(t, "a", m.OtherParticipant("b"))
	assert.True(t, m.HasParticipant("a"))
	assert.False(t, m.HasParticipant("c"))
}

func TestSwipeActionPredicates(t *testing.T) {
	assert.True(t, ActionLike.Positive())
	assert.True(t, ActionSuperlike.Positive())
	assert.False(t, ActionNope.Positive())

	assert.True(t, ActionNope.Valid())
	assert.False(t, SwipeAction("wave").Valid())
}

func TestQuotaRemaining(t *testing.T) {
	caps := QuotaCaps{Swipes: 100, Likes: 100, Superlikes: 5, Undos: 1}

	remaining := caps.Remaining(DailyCounters{Swipes: 30, Likes: 10, Superlikes: 5, Undos: 2}, false)
	assert.Equal(t, int64(70), remaining.Swipes)
	assert.Equal(t, int64(90), remaining.Likes)
	assert.Zero(t, remaining.Superlikes)
	assert.Zero(t, remaining.Undos) // clamped, never negative

	unlimited := caps.Remaining(DailyCounters{Swipes: 100000}, true)
	assert.Equal(t, int64(-1), unlimited.Swipes)
	assert.Equal(t, int64(-1), unlimited.Superlikes)
}
