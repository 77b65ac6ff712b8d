package services

import (
	"context"
	"fmt"
	"time"

	"sparkd_server/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SwipeService implements the swipe/match protocol: recording swipes,
// enforcing daily quotas, detecting mutual matches, and driving rating
// updates. Side effects are returned as an effect outbox, executed by the
// dispatcher after the core records have committed.
type SwipeService struct {
	Profiles ProfileStore
	Swipes   SwipeStore
	Matches  MatchStore
	Counters CounterStore
	Ratings  *RatingService
	Scorer   CompatibilityScorer
	Quotas   models.QuotaCaps
	Log      zerolog.Logger

	Now   func() time.Time
	NewID func() string
}

// SwipeResult is the acknowledgment returned to the swiper.
type SwipeResult struct {
	Swipe     *models.SwipeRecord   `json:"swipe"`
	Matched   bool                  `json:"matched"`
	Match     *models.MatchRecord   `json:"match,omitempty"`
	Remaining models.RemainingQuota `json:"remaining"`
}

func (s *SwipeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SwipeService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// ProcessSwipe records one swipe and, when the reverse positive swipe exists,
// creates the match. Two users swiping each other concurrently both reach
// match creation; the storage-level uniqueness condition on the pair id picks
// the winner and the loser converges onto the existing record without
// emitting duplicate notifications.
func (s *SwipeService) ProcessSwipe(ctx context.Context, from, to string, action models.SwipeAction, swipeCtx models.SwipeContext) (*SwipeResult, []Effect, error) {
	if from == to {
		return nil, nil, fmt.Errorf("%w: cannot swipe on yourself", ErrValidation)
	}
	if !action.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown action '%s'", ErrValidation, action)
	}

	swiper, err := s.Profiles.GetProfile(ctx, from)
	if err != nil {
		return nil, nil, fmt.Errorf("swiper '%s': %w", from, err)
	}
	target, err := s.Profiles.GetProfile(ctx, to)
	if err != nil {
		return nil, nil, fmt.Errorf("target '%s': %w", to, err)
	}

	// Single-writer gate per directed pair: a second swipe on the same target
	// is rejected while the first is active.
	if existing, err := s.Swipes.ActiveSwipe(ctx, from, to); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return nil, nil, fmt.Errorf("%w: %s -> %s", ErrAlreadyActed, from, to)
	}

	counts, err := s.Counters.Today(from)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read daily counters for '%s': %w", from, err)
	}
	paid := swiper.Tier.Paid()
	if !paid {
		if counts.Swipes >= s.Quotas.Swipes {
			return nil, nil, fmt.Errorf("%w: daily swipes", ErrLimitExceeded)
		}
		if action == models.ActionLike && counts.Likes >= s.Quotas.Likes {
			return nil, nil, fmt.Errorf("%w: daily likes", ErrLimitExceeded)
		}
		if action == models.ActionSuperlike && counts.Superlikes >= s.Quotas.Superlikes {
			return nil, nil, fmt.Errorf("%w: daily superlikes", ErrLimitExceeded)
		}
	}

	compatibility := s.Scorer.Score(swiper, target)

	swipe := &models.SwipeRecord{
		SwipeID:         s.newID(),
		FromUserID:      from,
		ToUserID:        to,
		Action:          action,
		CreatedAt:       s.now(),
		Compatibility:   compatibility.Overall,
		CommonInterests: compatibility.CommonInterests,
		DistanceKm:      compatibility.DistanceKm,
		Counters: models.CounterSnapshot{
			Swipes:     counts.Swipes,
			Likes:      counts.Likes,
			Superlikes: counts.Superlikes,
			Undos:      counts.Undos,
		},
		Context:  swipeCtx,
		Undoable: true,
		Active:   true,
	}
	if err := s.Swipes.Put(ctx, swipe); err != nil {
		return nil, nil, err
	}

	counts = s.bumpCounters(from, action, counts)

	effects := []Effect{
		invalidateEffect(from),
		invalidateEffect(to),
		metricEffect("swipe.processed", 1, map[string]string{"action": string(action)}),
	}

	result := &SwipeResult{
		Swipe:     swipe,
		Remaining: s.Quotas.Remaining(counts, paid),
	}

	match, created, err := s.detectMatch(ctx, swipe, swiper, target, compatibility)
	if err != nil {
		return nil, nil, err
	}
	if match != nil {
		result.Matched = true
		result.Match = match
		if created {
			effects = append(effects, s.matchEffects(match, swiper, target)...)
		}
	}

	// Rating updates retry internally and never fail the swipe.
	s.Ratings.ApplyOutcome(ctx, from, to, action, match != nil)

	s.bumpStats(ctx, from, to, action, match != nil && created)

	return result, effects, nil
}

// detectMatch looks for the reverse positive swipe and creates (or converges
// onto) the match record. The bool result reports whether this path created
// the match and therefore owns its announcements.
func (s *SwipeService) detectMatch(ctx context.Context, swipe *models.SwipeRecord, swiper, target *models.UserProfile, compatibility CompatibilityResult) (*models.MatchRecord, bool, error) {
	if !swipe.Action.Positive() {
		return nil, false, nil
	}

	reverse, err := s.Swipes.ActiveSwipe(ctx, swipe.ToUserID, swipe.FromUserID)
	if err != nil {
		return nil, false, err
	}
	if reverse == nil || !reverse.Action.Positive() || reverse.MatchID != "" {
		return nil, false, nil
	}

	matchType := models.MatchTypeRegular
	if swipe.Action == models.ActionSuperlike || reverse.Action == models.ActionSuperlike {
		matchType = models.MatchTypeSuperlike
	}

	pairID := models.PairID(swipe.FromUserID, swipe.ToUserID)
	match := &models.MatchRecord{
		PairID:      pairID,
		MatchID:     s.newID(),
		InitiatedBy: swipe.FromUserID,
		MatchedAt:   s.now(),
		Status:      models.MatchStatusActive,
		Quality: models.QualitySnapshot{
			Compatibility:   compatibility.Overall,
			CommonInterests: compatibility.CommonInterests,
			DistanceKm:      compatibility.DistanceKm,
			MatchType:       matchType,
		},
		Participants: map[string]models.ParticipantState{
			swipe.FromUserID: {},
			swipe.ToUserID:   {},
		},
	}

	created := true
	switch err := s.Matches.Create(ctx, match); {
	case err == nil:
	case err == ErrConflict:
		// The concurrent path created the match first. Converge onto it and
		// leave announcements to the winner.
		existing, getErr := s.Matches.GetByPair(ctx, pairID)
		if getErr != nil {
			return nil, false, fmt.Errorf("failed to fetch match after creation race: %w", getErr)
		}
		match = existing
		created = false
	default:
		return nil, false, err
	}

	// History linkage: set once, never cleared by unmatch.
	if err := s.Swipes.LinkMatch(ctx, swipe.SwipeID, match.MatchID); err != nil {
		s.Log.Error().Err(err).Str("swipeId", swipe.SwipeID).Msg("failed to link swipe to match")
	}
	if err := s.Swipes.LinkMatch(ctx, reverse.SwipeID, match.MatchID); err != nil {
		s.Log.Error().Err(err).Str("swipeId", reverse.SwipeID).Msg("failed to link swipe to match")
	}

	return match, created, nil
}

func (s *SwipeService) matchEffects(match *models.MatchRecord, swiper, target *models.UserProfile) []Effect {
	notification := func(otherName string) models.Notification {
		return models.Notification{
			Type:     "new_match",
			Title:    "It's a match!",
			Body:     fmt.Sprintf("You matched with %s. Say hi!", otherName),
			Data:     map[string]string{"matchId": match.MatchID},
			Priority: "high",
		}
	}
	return []Effect{
		notifyEffect(swiper.UserID, notification(target.Name)),
		notifyEffect(target.UserID, notification(swiper.Name)),
		emitEffect(swiper.UserID, "match", match),
		emitEffect(target.UserID, "match", match),
		metricEffect("match.created", 1, map[string]string{"type": string(match.Quality.MatchType)}),
	}
}

// bumpCounters applies the swipe's atomic daily-counter increments and folds
// the results into the counts used for the remaining-quota response.
func (s *SwipeService) bumpCounters(from string, action models.SwipeAction, counts models.DailyCounters) models.DailyCounters {
	bump := func(field string, dst *int64) {
		value, err := s.Counters.Increment(from, field)
		if err != nil {
			s.Log.Warn().Err(err).Str("userId", from).Str("field", field).Msg("daily counter increment failed")
			*dst++
			return
		}
		*dst = value
	}
	bump(CounterSwipes, &counts.Swipes)
	if action == models.ActionLike {
		bump(CounterLikes, &counts.Likes)
	}
	if action == models.ActionSuperlike {
		bump(CounterSuperlikes, &counts.Superlikes)
	}
	return counts
}

func (s *SwipeService) bumpStats(ctx context.Context, from, to string, action models.SwipeAction, matched bool) {
	deltas := models.StatDeltas{Swipes: 1}
	switch action {
	case models.ActionLike:
		deltas.Likes = 1
	case models.ActionNope:
		deltas.Passes = 1
	case models.ActionSuperlike:
		deltas.Superlikes = 1
	}
	if matched {
		deltas.Matches = 1
	}
	if err := s.Profiles.IncrementStats(ctx, from, deltas); err != nil {
		s.Log.Warn().Err(err).Str("userId", from).Msg("lifetime stats update failed")
	}
	if matched {
		if err := s.Profiles.IncrementStats(ctx, to, models.StatDeltas{Matches: 1}); err != nil {
			s.Log.Warn().Err(err).Str("userId", to).Msg("lifetime stats update failed")
		}
	}
}

// UndoSwipe reverts the caller's most recent active swipe (or the one named
// by swipeID). The rating update applied by the original swipe is NOT
// reversed; see RatingService.
func (s *SwipeService) UndoSwipe(ctx context.Context, userID, swipeID string) (*models.SwipeRecord, []Effect, error) {
	user, err := s.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("user '%s': %w", userID, err)
	}

	var swipe *models.SwipeRecord
	if swipeID == "" {
		swipe, err = s.Swipes.LatestActive(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		if swipe == nil {
			return nil, nil, fmt.Errorf("%w: no active swipe to undo", ErrNotFound)
		}
	} else {
		swipe, err = s.Swipes.Get(ctx, swipeID)
		if err != nil {
			return nil, nil, err
		}
		if swipe.FromUserID != userID {
			return nil, nil, fmt.Errorf("%w: swipe '%s' is not yours", ErrForbidden, swipeID)
		}
		if !swipe.Active {
			return nil, nil, fmt.Errorf("%w: swipe already undone", ErrValidation)
		}
	}
	if !swipe.Undoable {
		return nil, nil, fmt.Errorf("%w: swipe is not undoable", ErrValidation)
	}

	if !user.Tier.Paid() {
		counts, err := s.Counters.Today(userID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read daily counters for '%s': %w", userID, err)
		}
		if counts.Undos >= s.Quotas.Undos {
			return nil, nil, fmt.Errorf("%w: daily undos", ErrLimitExceeded)
		}
	}

	if err := s.Swipes.Deactivate(ctx, swipe.SwipeID); err != nil {
		return nil, nil, err
	}
	swipe.Active = false

	if _, err := s.Counters.Increment(userID, CounterUndos); err != nil {
		s.Log.Warn().Err(err).Str("userId", userID).Msg("undo counter increment failed")
	}

	effects := []Effect{
		invalidateEffect(swipe.FromUserID),
		invalidateEffect(swipe.ToUserID),
		metricEffect("swipe.undone", 1, map[string]string{"action": string(swipe.Action)}),
	}

	if swipe.MatchID != "" {
		match, err := s.Matches.GetByMatchID(ctx, swipe.MatchID)
		if err != nil {
			s.Log.Error().Err(err).Str("matchId", swipe.MatchID).Msg("failed to load match during undo")
		} else if match.Status == models.MatchStatusActive {
			if err := s.Matches.UpdateStatus(ctx, match.PairID, models.MatchStatusDeleted, userID, "undo"); err != nil {
				return nil, nil, err
			}
			other := match.OtherParticipant(userID)
			effects = append(effects,
				notifyEffect(other, models.Notification{
					Type:  "match_removed",
					Title: "A match was removed",
					Body:  "One of your matches is no longer available.",
					Data:  map[string]string{"matchId": match.MatchID},
				}),
				emitEffect(other, "match_removed", map[string]string{"matchId": match.MatchID}),
				metricEffect("match.removed", 1, map[string]string{"reason": "undo"}),
			)
		}
	}

	return swipe, effects, nil
}

// Unmatch ends an active match on behalf of one participant.
func (s *SwipeService) Unmatch(ctx context.Context, userID, matchID, reason string) (*models.MatchRecord, []Effect, error) {
	match, err := s.participantMatch(ctx, userID, matchID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.Matches.UpdateStatus(ctx, match.PairID, models.MatchStatusUnmatched, userID, reason); err != nil {
		return nil, nil, err
	}
	match.Status = models.MatchStatusUnmatched
	match.EndedBy = userID
	match.EndReason = reason

	other := match.OtherParticipant(userID)
	effects := []Effect{
		emitEffect(other, "unmatched", map[string]string{"matchId": match.MatchID}),
		invalidateEffect(userID),
		invalidateEffect(other),
		metricEffect("match.unmatched", 1, nil),
	}
	return match, effects, nil
}

// Block ends an active match and registers a one-way block relation on the
// blocking user. Conversation content is purged through the effect outbox.
func (s *SwipeService) Block(ctx context.Context, userID, matchID string) (*models.MatchRecord, []Effect, error) {
	match, err := s.participantMatch(ctx, userID, matchID)
	if err != nil {
		return nil, nil, err
	}
	other := match.OtherParticipant(userID)

	if err := s.Profiles.AddToBlockList(ctx, userID, other); err != nil {
		return nil, nil, err
	}
	if err := s.Matches.UpdateStatus(ctx, match.PairID, models.MatchStatusBlocked, userID, "block"); err != nil {
		return nil, nil, err
	}
	match.Status = models.MatchStatusBlocked
	match.EndedBy = userID
	match.EndReason = "block"

	effects := []Effect{
		purgeEffect(match.MatchID),
		emitEffect(other, "unmatched", map[string]string{"matchId": match.MatchID}),
		invalidateEffect(userID),
		invalidateEffect(other),
		metricEffect("match.blocked", 1, nil),
	}
	return match, effects, nil
}

func (s *SwipeService) participantMatch(ctx context.Context, userID, matchID string) (*models.MatchRecord, error) {
	match, err := s.Matches.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: not a participant of match '%s'", ErrForbidden, matchID)
	}
	if match.Status != models.MatchStatusActive {
		return nil, fmt.Errorf("%w: match is not active", ErrValidation)
	}
	return match, nil
}
