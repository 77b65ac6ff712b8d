package models

import "time"

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	MatchStatusActive    MatchStatus = "active"
	MatchStatusUnmatched MatchStatus = "unmatched"
	MatchStatusBlocked   MatchStatus = "blocked"
	MatchStatusDeleted   MatchStatus = "deleted"
)

// MatchType records how the match came to be.
type MatchType string

const (
	MatchTypeRegular   MatchType = "regular"
	MatchTypeSuperlike MatchType = "superlike_match"
)

// QualitySnapshot freezes the compatibility signals at match time.
type QualitySnapshot struct {
	Compatibility   float64   `dynamodbav:"compatibility" json:"compatibility"`
	CommonInterests []string  `dynamodbav:"commonInterests,omitempty" json:"commonInterests,omitempty"`
	DistanceKm      float64   `dynamodbav:"distanceKm" json:"distanceKm"`
	MatchType       MatchType `dynamodbav:"matchType" json:"matchType"`
}

// ParticipantState is per-side interaction state, keyed by user id in
// MatchRecord.Participants so no logic depends on which array slot a user
// happens to occupy.
type ParticipantState struct {
	UnreadCount int `dynamodbav:"unreadCount" json:"unreadCount"`
}

// InteractionCounters are the shared conversation counters the engagement
// score is recomputed from.
type InteractionCounters struct {
	MessageCount     int        `dynamodbav:"messageCount" json:"messageCount"`
	FirstMessageAt   *time.Time `dynamodbav:"firstMessageAt,omitempty" json:"firstMessageAt,omitempty"`
	LastMessageAt    *time.Time `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	SharedMediaCount int        `dynamodbav:"sharedMediaCount" json:"sharedMediaCount"`
	VideoCallCount   int        `dynamodbav:"videoCallCount" json:"videoCallCount"`
	DatePlanned      bool       `dynamodbav:"datePlanned" json:"datePlanned"`
}

// MatchRecord is the bidirectional relationship created on mutual positive
// swipes. The table is keyed by PairID, so the storage layer enforces the
// one-record-per-pair invariant; creation races resolve on the conditional
// put, never on an application-level lock.
type MatchRecord struct {
	PairID          string                      `dynamodbav:"pairId" json:"pairId"` // Partition Key, canonical sorted pair
	MatchID         string                      `dynamodbav:"matchId" json:"matchId"`
	InitiatedBy     string                      `dynamodbav:"initiatedBy" json:"initiatedBy"`
	MatchedAt       time.Time                   `dynamodbav:"matchedAt" json:"matchedAt"`
	Status          MatchStatus                 `dynamodbav:"status" json:"status"`
	Quality         QualitySnapshot             `dynamodbav:"quality" json:"quality"`
	Participants    map[string]ParticipantState `dynamodbav:"participants" json:"participants"`
	Interactions    InteractionCounters         `dynamodbav:"interactions" json:"interactions"`
	EngagementScore int                         `dynamodbav:"engagementScore" json:"engagementScore"` // [0,100]
	Stale           bool                        `dynamodbav:"stale,omitempty" json:"stale,omitempty"` // informational, never changes Status
	EndedBy         string                      `dynamodbav:"endedBy,omitempty" json:"endedBy,omitempty"`
	EndReason       string                      `dynamodbav:"endReason,omitempty" json:"endReason,omitempty"`
}

// PairID returns the canonical identifier for an unordered user pair.
func PairID(a, b string) string {
	if a < b {
		return a + "#" + b
	}
	return b + "#" + a
}

// HasParticipant reports whether the given user is one side of the match.
func (m *MatchRecord) HasParticipant(userID string) bool {
	_, ok := m.Participants[userID]
	return ok
}

// OtherParticipant returns the user on the opposite side of the match, or ""
// when userID is not a participant.
func (m *MatchRecord) OtherParticipant(userID string) string {
	for id := range m.Participants {
		if id != userID {
			return id
		}
	}
	return ""
}

const (
	// MatchesTable is the DynamoDB table name for match records.
	MatchesTable = "Matches"

	// MatchIDIndex is the GSI on matchId, used to resolve a match from the
	// identifier clients hold.
	MatchIDIndex = "matchId-index"
)
