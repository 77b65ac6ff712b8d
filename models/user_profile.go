package models

import "time"

// SubscriptionTier identifies a user's plan. Free-tier users are subject to
// daily quotas and skip premium-only recommendation filters.
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "free"
	TierPlus SubscriptionTier = "plus"
	TierGold SubscriptionTier = "gold"
)

// Paid reports whether the tier carries a paid subscription.
func (t SubscriptionTier) Paid() bool {
	return t == TierPlus || t == TierGold
}

// Lifestyle holds the attributes compared pairwise by the compatibility
// scorer. Empty string means the user did not answer.
type Lifestyle struct {
	Drinking string `dynamodbav:"drinking,omitempty" json:"drinking,omitempty"`
	Smoking  string `dynamodbav:"smoking,omitempty" json:"smoking,omitempty"`
	Workout  string `dynamodbav:"workout,omitempty" json:"workout,omitempty"`
}

// StatDeltas are lifetime counter increments applied to a profile after a
// swipe or match.
type StatDeltas struct {
	Swipes     int
	Likes      int
	Passes     int
	Superlikes int
	Matches    int
}

// UserProfile is owned by the user-management collaborator. The matching core
// reads it and issues narrow updates (rating, lifetime stats, block list)
// through the profile store.
type UserProfile struct {
	UserID              string           `dynamodbav:"userId" json:"userId"` // Partition Key
	Name                string           `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Gender              string           `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	BirthDate           string           `dynamodbav:"birthDate,omitempty" json:"birthDate,omitempty"` // YYYY-MM-DD
	Latitude            float64          `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude           float64          `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	HasLocation         bool             `dynamodbav:"hasLocation,omitempty" json:"hasLocation,omitempty"`
	Interests           []string         `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Lifestyle           Lifestyle        `dynamodbav:"lifestyle,omitempty" json:"lifestyle,omitempty"`
	RelationshipGoal    string           `dynamodbav:"relationshipGoal,omitempty" json:"relationshipGoal,omitempty"`
	Rating              int              `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	ProfileCompleteness float64          `dynamodbav:"profileCompleteness,omitempty" json:"profileCompleteness,omitempty"` // [0,1]
	ActivityScore       float64          `dynamodbav:"activityScore,omitempty" json:"activityScore,omitempty"`             // [0,1]
	Tier                SubscriptionTier `dynamodbav:"tier,omitempty" json:"tier,omitempty"`
	ShowMe              bool             `dynamodbav:"showMe" json:"showMe"`
	ShowMeGender        string           `dynamodbav:"showMeGender,omitempty" json:"showMeGender,omitempty"` // "male", "female", "everyone"
	MaxDistanceKm       float64          `dynamodbav:"maxDistanceKm,omitempty" json:"maxDistanceKm,omitempty"`
	AgeMin              int              `dynamodbav:"ageMin,omitempty" json:"ageMin,omitempty"`
	AgeMax              int              `dynamodbav:"ageMax,omitempty" json:"ageMax,omitempty"`
	HeightCm            int              `dynamodbav:"heightCm,omitempty" json:"heightCm,omitempty"`
	HeightMinCm         int              `dynamodbav:"heightMinCm,omitempty" json:"heightMinCm,omitempty"` // premium filter preference
	HeightMaxCm         int              `dynamodbav:"heightMaxCm,omitempty" json:"heightMaxCm,omitempty"`
	Languages           []string         `dynamodbav:"languages,omitempty" json:"languages,omitempty"`
	BoostExpiresAt      time.Time        `dynamodbav:"boostExpiresAt,omitempty" json:"boostExpiresAt,omitempty"`
	PhotoVerified       bool             `dynamodbav:"photoVerified,omitempty" json:"photoVerified,omitempty"`
	BlockedUsers        []string         `dynamodbav:"blockedUsers,omitempty" json:"blockedUsers,omitempty"`

	// Lifetime stats, kept as top-level attributes so the store can use an
	// atomic ADD update expression on each.
	TotalSwipes     int `dynamodbav:"totalSwipes,omitempty" json:"totalSwipes,omitempty"`
	TotalLikes      int `dynamodbav:"totalLikes,omitempty" json:"totalLikes,omitempty"`
	TotalPasses     int `dynamodbav:"totalPasses,omitempty" json:"totalPasses,omitempty"`
	TotalSuperlikes int `dynamodbav:"totalSuperlikes,omitempty" json:"totalSuperlikes,omitempty"`
	TotalMatches    int `dynamodbav:"totalMatches,omitempty" json:"totalMatches,omitempty"`
}

// Age returns the user's age in whole years at the given instant, or -1 when
// the birth date is absent or malformed.
func (p *UserProfile) Age(now time.Time) int {
	if p.BirthDate == "" {
		return -1
	}
	born, err := time.Parse("2006-01-02", p.BirthDate)
	if err != nil {
		return -1
	}
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	return age
}

// BoostActive reports whether the user holds an unexpired promotional boost.
func (p *UserProfile) BoostActive(now time.Time) bool {
	return !p.BoostExpiresAt.IsZero() && p.BoostExpiresAt.After(now)
}

// WantsGender reports whether a candidate of the given gender fits the user's
// declared "show me" preference.
func (p *UserProfile) WantsGender(gender string) bool {
	return p.ShowMeGender == "" || p.ShowMeGender == "everyone" || p.ShowMeGender == gender
}

// UsersTable is the DynamoDB table name for user profiles.
const UsersTable = "Users"
