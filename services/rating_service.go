package services

import (
	"context"
	"math"
	"time"

	"sparkd_server/models"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// eloK is the K-factor applied to every swipe outcome.
const eloK = 32

// RatingService applies Elo-style desirability updates after each swipe.
//
// The update is asymmetric by design: the actual-score mapping (like=0.7,
// nope=0.3, superlike=1.0) does not sum to 1 across the two sides, so rating
// is not conserved. That matches product intent and must not be "fixed" into
// a zero-sum exchange.
//
// Both sides are computed from one shared pre-update snapshot of the pair's
// ratings, then written independently with no transaction between them. A
// retried write re-fetches the current ratings and recomputes, so it never
// double-applies a delta; a partial failure self-heals on the next swipe
// between any pair involving the affected user.
type RatingService struct {
	Profiles ProfileStore
	Log      zerolog.Logger
}

// ExpectedScore is the logistic expectation of the first rating against the
// second.
func ExpectedScore(rating, opponent int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponent-rating)/400))
}

// ActualScore maps a swipe action to the swiper's actual score.
func ActualScore(action models.SwipeAction) float64 {
	switch action {
	case models.ActionSuperlike:
		return 1.0
	case models.ActionLike:
		return 0.7
	case models.ActionNope:
		return 0.3
	default:
		return 0.5
	}
}

// ComputeUpdate returns both new ratings from one snapshot, rounded to the
// nearest integer. Both sides share the same expectation E; the target moves
// by K*((1-actual)-(1-E)).
func ComputeUpdate(swiperRating, targetRating int, action models.SwipeAction) (newSwiper, newTarget int) {
	actual := ActualScore(action)
	expected := ExpectedScore(swiperRating, targetRating)
	newSwiper = int(math.Round(float64(swiperRating) + eloK*(actual-expected)))
	newTarget = int(math.Round(float64(targetRating) + eloK*((1-actual)-(1-expected))))
	return newSwiper, newTarget
}

// ApplyOutcome updates both users' ratings after a swipe. matched reports
// whether the swipe produced a match; it is carried for future outcome
// weighting and does not change the update today. Persistent failure is
// logged, never returned: a failed rating write must not make a committed
// swipe appear failed.
func (rs *RatingService) ApplyOutcome(ctx context.Context, swiperID, targetID string, action models.SwipeAction, matched bool) {
	swiper, err := rs.Profiles.GetProfile(ctx, swiperID)
	if err != nil {
		rs.Log.Error().Err(err).Str("userId", swiperID).Msg("rating update skipped: profile read failed")
		return
	}
	target, err := rs.Profiles.GetProfile(ctx, targetID)
	if err != nil {
		rs.Log.Error().Err(err).Str("userId", targetID).Msg("rating update skipped: profile read failed")
		return
	}

	newSwiper, newTarget := ComputeUpdate(swiper.Rating, target.Rating, action)

	if err := rs.persist(ctx, swiperID, targetID, ActualScore(action), newSwiper); err != nil {
		rs.Log.Error().Err(err).Str("userId", swiperID).Bool("matched", matched).Msg("rating update failed after retries")
	}
	if err := rs.persist(ctx, targetID, swiperID, 1-ActualScore(action), newTarget); err != nil {
		rs.Log.Error().Err(err).Str("userId", targetID).Bool("matched", matched).Msg("rating update failed after retries")
	}
}

// persist writes one side's rating. The first attempt uses the value computed
// from the shared snapshot; a retry re-reads both current ratings and
// recomputes from them instead of re-applying the original delta.
func (rs *RatingService) persist(ctx context.Context, userID, otherID string, actual float64, snapshot int) error {
	first := true
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		updated := snapshot
		if !first {
			user, err := rs.Profiles.GetProfile(ctx, userID)
			if err != nil {
				return retry.RetryableError(err)
			}
			other, err := rs.Profiles.GetProfile(ctx, otherID)
			if err != nil {
				return retry.RetryableError(err)
			}
			expected := ExpectedScore(user.Rating, other.Rating)
			updated = int(math.Round(float64(user.Rating) + eloK*(actual-expected)))
		}
		first = false

		if err := rs.Profiles.UpdateRating(ctx, userID, updated); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
