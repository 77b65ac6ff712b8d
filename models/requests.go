package models

// InteractionType is an engagement signal ingested from the conversation
// collaborator.
type InteractionType string

const (
	InteractionMessage     InteractionType = "message"
	InteractionMedia       InteractionType = "media"
	InteractionVideoCall   InteractionType = "video_call"
	InteractionDatePlanned InteractionType = "date_planned"
	InteractionRead        InteractionType = "read"
)

// SwipeRequest is the payload for POST /api/swipes.
type SwipeRequest struct {
	FromUserID string       `json:"fromUserId" validate:"required"`
	ToUserID   string       `json:"toUserId" validate:"required"`
	Action     string       `json:"action" validate:"required,oneof=like nope superlike"`
	Context    SwipeContext `json:"context"`
}

// UndoRequest is the payload for POST /api/swipes/undo. SwipeID defaults to
// the caller's most recent active swipe when empty.
type UndoRequest struct {
	UserID  string `json:"userId" validate:"required"`
	SwipeID string `json:"swipeId"`
}

// UnmatchRequest is the payload for POST /api/matches/{matchId}/unmatch.
type UnmatchRequest struct {
	UserID string `json:"userId" validate:"required"`
	Reason string `json:"reason"`
}

// BlockRequest is the payload for POST /api/matches/{matchId}/block.
type BlockRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// InteractionRequest is the payload for POST /api/matches/{matchId}/interactions.
// SenderID is the participant the signal originates from (the reader, for
// "read" signals).
type InteractionRequest struct {
	SenderID string `json:"senderId" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=message media video_call date_planned read"`
}
