package services

import (
	"testing"

	"sparkd_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProfile(id string) *models.UserProfile {
	return &models.UserProfile{
		UserID:           id,
		BirthDate:        "1995-06-15",
		Latitude:         40.7128,
		Longitude:        -74.0060,
		HasLocation:      true,
		Interests:        []string{"hiking", "jazz", "cooking"},
		Lifestyle:        models.Lifestyle{Drinking: "socially", Smoking: "never", Workout: "often"},
		RelationshipGoal: "long_term",
	}
}

func TestScoreIdenticalProfilesIsFull(t *testing.T) {
	var scorer CompatibilityScorer
	a := fullProfile("a")
	b := fullProfile("b")

	result := scorer.Score(a, b)

	assert.InDelta(t, 1.0, result.Overall, 1e-9)
	assert.ElementsMatch(t, []string{"hiking", "jazz", "cooking"}, result.CommonInterests)
	assert.InDelta(t, 0, result.DistanceKm, 0.01)
}

func TestScoreStaysWithinBounds(t *testing.T) {
	var scorer CompatibilityScorer
	result := scorer.Score(&models.UserProfile{UserID: "a"}, &models.UserProfile{UserID: "b"})

	assert.GreaterOrEqual(t, result.Overall, 0.0)
	assert.LessOrEqual(t, result.Overall, 1.0)
	assert.Equal(t, -1.0, result.DistanceKm)
}

func TestScoreMissingLocationCapsOverall(t *testing.T) {
	var scorer CompatibilityScorer
	a := fullProfile("a")
	b := fullProfile("b")
	b.HasLocation = false

	result := scorer.Score(a, b)

	// The distance weight is forfeited, not redistributed.
	assert.Equal(t, -1.0, result.DistanceKm)
	assert.Zero(t, result.Factors.Distance)
	assert.InDelta(t, 0.80, result.Overall, 1e-9)
}

func TestScoreInterestFactorIsAsymmetric(t *testing.T) {
	var scorer CompatibilityScorer
	a := &models.UserProfile{UserID: "a", Interests: []string{"hiking", "jazz", "cooking", "travel"}}
	b := &models.UserProfile{UserID: "b", Interests: []string{"hiking", "jazz"}}

	forward := scorer.Score(a, b)
	reverse := scorer.Score(b, a)

	// a shares 2 of its 4 interests; b shares 2 of its 2.
	assert.InDelta(t, 0.30*0.5, forward.Factors.Interests, 1e-9)
	assert.InDelta(t, 0.30*1.0, reverse.Factors.Interests, 1e-9)
}

func TestScoreAgeFactorIsSymmetric(t *testing.T) {
	var scorer CompatibilityScorer
	a := &models.UserProfile{UserID: "a", BirthDate: "1990-01-01"}
	b := &models.UserProfile{UserID: "b", BirthDate: "2000-01-01"}

	forward := scorer.Score(a, b)
	reverse := scorer.Score(b, a)

	require.Equal(t, forward.Factors.Age, reverse.Factors.Age)
	// 10 years apart: max(0, 1 - 10/20) = 0.5 of the 0.20 weight.
	assert.InDelta(t, 0.20*0.5, forward.Factors.Age, 0.001)
}

func TestScoreDistanceDecaysOverHundredKm(t *testing.T) {
	var scorer CompatibilityScorer
	a := fullProfile("a")
	b := fullProfile("b")
	// Roughly 111 km due north.
	b.Latitude = a.Latitude + 1

	result := scorer.Score(a, b)

	assert.InDelta(t, 111.2, result.DistanceKm, 1.0)
	assert.Zero(t, result.Factors.Distance)
}

func TestLifestyleMatchWeighting(t *testing.T) {
	a := models.Lifestyle{Drinking: "socially", Smoking: "never", Workout: "often"}
	b := models.Lifestyle{Drinking: "socially", Smoking: "daily", Workout: "often"}

	// drinking (1.0) and workout (0.5) match out of 2.5 total weight.
	assert.InDelta(t, 1.5/2.5, lifestyleMatch(a, b), 1e-9)
}

func TestLifestyleMatchSkipsUnanswered(t *testing.T) {
	a := models.Lifestyle{Drinking: "socially"}
	b := models.Lifestyle{Drinking: "socially", Smoking: "never"}

	// Only drinking is present on both sides.
	assert.InDelta(t, 1.0, lifestyleMatch(a, b), 1e-9)
	assert.Zero(t, lifestyleMatch(models.Lifestyle{}, models.Lifestyle{}))
}

func TestScoreGoalRequiresNonEmptyEquality(t *testing.T) {
	var scorer CompatibilityScorer
	a := &models.UserProfile{UserID: "a"}
	b := &models.UserProfile{UserID: "b"}

	assert.Zero(t, scorer.Score(a, b).Factors.Goal)

	a.RelationshipGoal = "long_term"
	b.RelationshipGoal = "long_term"
	assert.InDelta(t, 0.15, scorer.Score(a, b).Factors.Goal, 1e-9)
}

func TestScoreIsDeterministic(t *testing.T) {
	var scorer CompatibilityScorer
	a := fullProfile("a")
	b := fullProfile("b")
	b.Interests = []string{"jazz", "surfing"}

	first := scorer.Score(a, b)
	second := scorer.Score(a, b)

	assert.Equal(t, first, second)
}
