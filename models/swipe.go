package models

import "time"

// SwipeAction is a one-directional action by one user toward a candidate.
type SwipeAction string

const (
	ActionLike      SwipeAction = "like"
	ActionNope      SwipeAction = "nope"
	ActionSuperlike SwipeAction = "superlike"
)

// Positive reports whether the action can participate in a mutual match.
func (a SwipeAction) Positive() bool {
	return a == ActionLike || a == ActionSuperlike
}

// Valid reports whether the action is one of the known swipe actions.
func (a SwipeAction) Valid() bool {
	return a == ActionLike || a == ActionNope || a == ActionSuperlike
}

// SwipeContext is the closed, versioned context payload attached to a swipe.
// All fields are optional; unknown client data is dropped, not carried as an
// open map.
type SwipeContext struct {
	Version      int    `dynamodbav:"version,omitempty" json:"version,omitempty"`
	Source       string `dynamodbav:"source,omitempty" json:"source,omitempty"` // e.g. "deck", "top_picks", "likes_you"
	DeckPosition int    `dynamodbav:"deckPosition,omitempty" json:"deckPosition,omitempty"`
	BatchID      string `dynamodbav:"batchId,omitempty" json:"batchId,omitempty"` // recommendation batch that surfaced the candidate
}

// CounterSnapshot captures the swiper's daily counters as read immediately
// before the swipe's own increments were applied.
type CounterSnapshot struct {
	Swipes     int64 `dynamodbav:"swipes" json:"swipes"`
	Likes      int64 `dynamodbav:"likes" json:"likes"`
	Superlikes int64 `dynamodbav:"superlikes" json:"superlikes"`
	Undos      int64 `dynamodbav:"undos" json:"undos"`
}

// SwipeRecord is the immutable record of one swipe. Only Active and MatchID
// ever change after creation: Active flips to false on undo, MatchID is set
// at most once when the swipe produces a match and is never cleared, so match
// history survives unmatch.
//
// Invariant: at most one active record exists per directed (from, to) pair.
type SwipeRecord struct {
	SwipeID         string          `dynamodbav:"swipeId" json:"swipeId"` // Partition Key
	FromUserID      string          `dynamodbav:"fromUserId" json:"fromUserId"`
	ToUserID        string          `dynamodbav:"toUserId" json:"toUserId"`
	Action          SwipeAction     `dynamodbav:"action" json:"action"`
	CreatedAt       time.Time       `dynamodbav:"createdAt" json:"createdAt"`
	Compatibility   float64         `dynamodbav:"compatibility" json:"compatibility"`
	CommonInterests []string        `dynamodbav:"commonInterests,omitempty" json:"commonInterests,omitempty"`
	DistanceKm      float64         `dynamodbav:"distanceKm" json:"distanceKm"` // -1 when either location was missing
	Counters        CounterSnapshot `dynamodbav:"counters" json:"counters"`
	Context         SwipeContext    `dynamodbav:"context,omitempty" json:"context,omitempty"`
	MatchID         string          `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"`
	Undoable        bool            `dynamodbav:"undoable" json:"undoable"`
	Active          bool            `dynamodbav:"active" json:"active"`
}

const (
	// SwipesTable is the DynamoDB table name for swipe records.
	SwipesTable = "Swipes"

	// SwipeFromToIndex is the GSI on (fromUserId, toUserId), used for the
	// active-record check per directed pair and the reverse-swipe lookup.
	SwipeFromToIndex = "fromTo-index"

	// SwipeFromIndex is the GSI on (fromUserId, createdAt), used for
	// "most recent swipe" and swiped-target exclusion queries.
	SwipeFromIndex = "from-index"
)
