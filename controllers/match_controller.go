package controllers

import (
	"context"
	"net/http"

	"sparkd_server/models"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles match lifecycle actions and engagement signals.
type MatchController struct {
	Swipes     *services.SwipeService
	Engagement *services.EngagementService
	Dispatcher *services.Dispatcher
}

// NewMatchController creates a new MatchController instance.
func NewMatchController(swipes *services.SwipeService, engagement *services.EngagementService, dispatcher *services.Dispatcher) *MatchController {
	return &MatchController{Swipes: swipes, Engagement: engagement, Dispatcher: dispatcher}
}

// HandleUnmatch ends an active match on behalf of one participant.
func (mc *MatchController) HandleUnmatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request models.UnmatchRequest
	if err := decodeAndValidate(r, &request); err != nil {
		writeError(w, err)
		return
	}

	match, effects, err := mc.Swipes.Unmatch(context.Background(), request.UserID, matchID, request.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	mc.Dispatcher.Dispatch(context.Background(), effects)
	writeJSON(w, http.StatusOK, map[string]interface{}{"match": match})
}

// HandleBlock ends a match and registers a one-way block relation.
func (mc *MatchController) HandleBlock(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request models.BlockRequest
	if err := decodeAndValidate(r, &request); err != nil {
		writeError(w, err)
		return
	}

	match, effects, err := mc.Swipes.Block(context.Background(), request.UserID, matchID)
	if err != nil {
		writeError(w, err)
		return
	}

	mc.Dispatcher.Dispatch(context.Background(), effects)
	writeJSON(w, http.StatusOK, map[string]interface{}{"match": match})
}

// HandleInteraction ingests one engagement signal from the conversation
// collaborator and returns the recomputed engagement score.
func (mc *MatchController) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request models.InteractionRequest
	if err := decodeAndValidate(r, &request); err != nil {
		writeError(w, err)
		return
	}

	match, err := mc.Engagement.RecordInteraction(
		context.Background(), matchID, request.SenderID, models.InteractionType(request.Type))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matchId":         match.MatchID,
		"engagementScore": match.EngagementScore,
	})
}

// HandleSweepStale triggers the staleness sweep; invoked by an external
// scheduler.
func (mc *MatchController) HandleSweepStale(w http.ResponseWriter, r *http.Request) {
	flagged, err := mc.Engagement.SweepStale(context.Background())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"flagged": flagged})
}
