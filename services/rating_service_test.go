package services

import (
	"context"
	"testing"

	"sparkd_server/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-9)
	assert.InDelta(t, 0.64, ExpectedScore(1600, 1500), 0.001)
	assert.InDelta(t, 1.0, ExpectedScore(1500, 1500)+ExpectedScore(1500, 1500), 1e-9)
}

func TestActualScore(t *testing.T) {
	assert.Equal(t, 1.0, ActualScore(models.ActionSuperlike))
	assert.Equal(t, 0.7, ActualScore(models.ActionLike))
	assert.Equal(t, 0.3, ActualScore(models.ActionNope))
	assert.Equal(t, 0.5, ActualScore(models.SwipeAction("bogus")))
}

func TestComputeUpdateEqualRatingsLike(t *testing.T) {
	newSwiper, newTarget := ComputeUpdate(1500, 1500, models.ActionLike)

	// K=32, expected 0.5, actual 0.7: both sides move by 6.4, rounded.
	assert.Equal(t, 1506, newSwiper)
	assert.Equal(t, 1494, newTarget)
}

func TestComputeUpdateIsNotZeroSum(t *testing.T) {
	newSwiper, newTarget := ComputeUpdate(1500, 1500, models.ActionSuperlike)

	// actual=1.0 for the swiper but 0.0 for the target: the pair total shifts.
	assert.Equal(t, 1516, newSwiper)
	assert.Equal(t, 1484, newTarget)

	newSwiper, newTarget = ComputeUpdate(1500, 1500, models.ActionNope)
	assert.Equal(t, 1494, newSwiper)
	assert.Equal(t, 1506, newTarget)
}

func TestApplyOutcomeUpdatesBothSides(t *testing.T) {
	profiles := newFakeProfiles(
		&models.UserProfile{UserID: "a", Rating: 1500},
		&models.UserProfile{UserID: "b", Rating: 1500},
	)
	rs := &RatingService{Profiles: profiles, Log: zerolog.Nop()}

	rs.ApplyOutcome(context.Background(), "a", "b", models.ActionLike, false)

	a, err := profiles.GetProfile(context.Background(), "a")
	require.NoError(t, err)
	b, err := profiles.GetProfile(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 1506, a.Rating)
	assert.Equal(t, 1494, b.Rating)
}

func TestApplyOutcomeMatchesComputeUpdate(t *testing.T) {
	// Both sides must be derived from the same pre-update snapshot: the
	// target's expectation is computed against the swiper's rating as it was
	// before the swiper's own write landed.
	for _, action := range []models.SwipeAction{models.ActionLike, models.ActionNope, models.ActionSuperlike} {
		t.Run(string(action), func(t *testing.T) {
			profiles := newFakeProfiles(
				&models.UserProfile{UserID: "a", Rating: 1500},
				&models.UserProfile{UserID: "b", Rating: 1500},
			)
			rs := &RatingService{Profiles: profiles, Log: zerolog.Nop()}

			wantSwiper, wantTarget := ComputeUpdate(1500, 1500, action)
			rs.ApplyOutcome(context.Background(), "a", "b", action, true)

			a, err := profiles.GetProfile(context.Background(), "a")
			require.NoError(t, err)
			b, err := profiles.GetProfile(context.Background(), "b")
			require.NoError(t, err)
			assert.Equal(t, wantSwiper, a.Rating)
			assert.Equal(t, wantTarget, b.Rating)
		})
	}
}

func TestApplyOutcomeSuperlikeTarget(t *testing.T) {
	profiles := newFakeProfiles(
		&models.UserProfile{UserID: "a", Rating: 1500},
		&models.UserProfile{UserID: "b", Rating: 1500},
	)
	rs := &RatingService{Profiles: profiles, Log: zerolog.Nop()}

	rs.ApplyOutcome(context.Background(), "a", "b", models.ActionSuperlike, false)

	b, err := profiles.GetProfile(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 1484, b.Rating)
}

// flakyProfiles fails the first N rating writes, then delegates.
type flakyProfiles struct {
	ProfileStore
	failures int
}

func (f *flakyProfiles) UpdateRating(ctx context.Context, userID string, rating int) error {
	if f.failures > 0 {
		f.failures--
		return assert.AnError
	}
	return f.ProfileStore.UpdateRating(ctx, userID, rating)
}

func TestApplyOutcomeRetriesWithoutDoubleApplying(t *testing.T) {
	profiles := newFakeProfiles(
		&models.UserProfile{UserID: "a", Rating: 1500},
		&models.UserProfile{UserID: "b", Rating: 1500},
	)
	rs := &RatingService{Profiles: &flakyProfiles{ProfileStore: profiles, failures: 2}, Log: zerolog.Nop()}

	rs.ApplyOutcome(context.Background(), "a", "b", models.ActionLike, false)

	// A retry recomputes from the current ratings instead of re-applying the
	// original delta, so the retried writes land on the same values a clean
	// run produces.
	a, err := profiles.GetProfile(context.Background(), "a")
	require.NoError(t, err)
	b, err := profiles.GetProfile(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 1506, a.Rating)
	assert.Equal(t, 1494, b.Rating)
}

func TestApplyOutcomeSwallowsPersistentFailure(t *testing.T) {
	profiles := newFakeProfiles(
		&models.UserProfile{UserID: "a", Rating: 1500},
		&models.UserProfile{UserID: "b", Rating: 1500},
	)
	rs := &RatingService{Profiles: &flakyProfiles{ProfileStore: profiles, failures: 100}, Log: zerolog.Nop()}

	// Must not panic or propagate; the swipe that triggered it has already
	// committed.
	rs.ApplyOutcome(context.Background(), "a", "b", models.ActionLike, false)

	a, err := profiles.GetProfile(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1500, a.Rating)
}
