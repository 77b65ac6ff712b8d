package services

import (
	"context"
	"fmt"
	"time"

	"sparkd_server/models"

	"github.com/rs/zerolog"
)

// Staleness thresholds.
const (
	staleNoFirstMessageAfter = 7 * 24 * time.Hour
	staleNoMessageFor        = 30 * 24 * time.Hour
)

// EngagementService tracks a match's conversational health. The engagement
// score is always recomputed from the current counters rather than
// accumulated incrementally, so repeated recomputation cannot drift.
type EngagementService struct {
	Matches MatchStore
	Log     zerolog.Logger
	Now     func() time.Time
}

func (es *EngagementService) now() time.Time {
	if es.Now != nil {
		return es.Now()
	}
	return time.Now()
}

// ComputeEngagementScore derives the 0-100 score from interaction counters.
func ComputeEngagementScore(c models.InteractionCounters, now time.Time) int {
	score := 0

	switch {
	case c.MessageCount > 100:
		score += 30
	case c.MessageCount > 50:
		score += 20
	case c.MessageCount > 10:
		score += 10
	}

	if c.LastMessageAt != nil {
		days := now.Sub(*c.LastMessageAt).Hours() / 24
		switch {
		case days < 1:
			score += 20
		case days < 3:
			score += 15
		case days < 7:
			score += 10
		case days < 14:
			score += 5
		}
	}

	switch {
	case c.SharedMediaCount > 20:
		score += 20
	case c.SharedMediaCount > 10:
		score += 15
	case c.SharedMediaCount > 5:
		score += 10
	case c.SharedMediaCount > 0:
		score += 5
	}

	switch {
	case c.VideoCallCount > 5:
		score += 15
	case c.VideoCallCount > 2:
		score += 10
	case c.VideoCallCount > 0:
		score += 5
	}

	if c.DatePlanned {
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

// RecordInteraction applies one engagement signal to a match, recomputes the
// score and persists the result.
func (es *EngagementService) RecordInteraction(ctx context.Context, matchID string, senderID string, kind models.InteractionType) (*models.MatchRecord, error) {
	match, err := es.Matches.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: not a participant of match '%s'", ErrForbidden, matchID)
	}
	if match.Status != models.MatchStatusActive {
		return nil, fmt.Errorf("%w: match is not active", ErrValidation)
	}

	now := es.now()
	switch kind {
	case models.InteractionMessage:
		match.Interactions.MessageCount++
		if match.Interactions.FirstMessageAt == nil {
			t := now
			match.Interactions.FirstMessageAt = &t
		}
		t := now
		match.Interactions.LastMessageAt = &t
		other := match.OtherParticipant(senderID)
		state := match.Participants[other]
		state.UnreadCount++
		match.Participants[other] = state

	case models.InteractionMedia:
		match.Interactions.SharedMediaCount++

	case models.InteractionVideoCall:
		match.Interactions.VideoCallCount++

	case models.InteractionDatePlanned:
		match.Interactions.DatePlanned = true

	case models.InteractionRead:
		state := match.Participants[senderID]
		state.UnreadCount = 0
		match.Participants[senderID] = state

	default:
		return nil, fmt.Errorf("%w: unknown interaction type '%s'", ErrValidation, kind)
	}

	match.EngagementScore = ComputeEngagementScore(match.Interactions, now)

	if err := es.Matches.SaveEngagement(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// SweepStale flags inactive matches: no first message within 7 days of
// matching, or no message in the last 30 days. The flag is informational and
// never changes the match status. Returns the number of matches flagged.
func (es *EngagementService) SweepStale(ctx context.Context) (int, error) {
	matches, err := es.Matches.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := es.now()
	flagged := 0
	for i := range matches {
		m := &matches[i]
		if m.Stale {
			continue
		}
		stale := false
		if m.Interactions.FirstMessageAt == nil {
			stale = now.Sub(m.MatchedAt) > staleNoFirstMessageAfter
		} else if m.Interactions.LastMessageAt != nil {
			stale = now.Sub(*m.Interactions.LastMessageAt) > staleNoMessageFor
		}
		if !stale {
			continue
		}
		if err := es.Matches.MarkStale(ctx, m.PairID); err != nil {
			es.Log.Warn().Err(err).Str("pairId", m.PairID).Msg("failed to flag stale match")
			continue
		}
		flagged++
	}

	es.Log.Info().Int("flagged", flagged).Int("scanned", len(matches)).Msg("stale match sweep complete")
	return flagged, nil
}
