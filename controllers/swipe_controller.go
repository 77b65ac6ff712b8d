package controllers

import (
	"context"
	"net/http"
	"time"

	"sparkd_server/models"
	"sparkd_server/services"
)

// SwipeController handles HTTP requests for swipe processing and undo.
type SwipeController struct {
	Swipes     *services.SwipeService
	Dispatcher *services.Dispatcher
	Metrics    services.MetricsSink
}

// NewSwipeController creates a new SwipeController instance.
func NewSwipeController(swipes *services.SwipeService, dispatcher *services.Dispatcher, metrics services.MetricsSink) *SwipeController {
	return &SwipeController{Swipes: swipes, Dispatcher: dispatcher, Metrics: metrics}
}

// HandleProcessSwipe records a swipe and returns the acknowledgment plus any
// match payload. Side effects are dispatched after the core records have
// committed; the request outcome never depends on them.
func (sc *SwipeController) HandleProcessSwipe(w http.ResponseWriter, r *http.Request) {
	var request models.SwipeRequest
	if err := decodeAndValidate(r, &request); err != nil {
		writeError(w, err)
		return
	}

	started := time.Now()
	result, effects, err := sc.Swipes.ProcessSwipe(
		context.Background(),
		request.FromUserID,
		request.ToUserID,
		models.SwipeAction(request.Action),
		request.Context,
	)
	sc.Metrics.Timing("swipe.process", float64(time.Since(started).Milliseconds()), nil)
	if err != nil {
		writeError(w, err)
		return
	}

	sc.Dispatcher.Dispatch(context.Background(), effects)
	writeJSON(w, http.StatusOK, result)
}

// HandleUndoSwipe reverts the caller's most recent (or a named) active swipe.
func (sc *SwipeController) HandleUndoSwipe(w http.ResponseWriter, r *http.Request) {
	var request models.UndoRequest
	if err := decodeAndValidate(r, &request); err != nil {
		writeError(w, err)
		return
	}

	swipe, effects, err := sc.Swipes.UndoSwipe(context.Background(), request.UserID, request.SwipeID)
	if err != nil {
		writeError(w, err)
		return
	}

	sc.Dispatcher.Dispatch(context.Background(), effects)
	writeJSON(w, http.StatusOK, map[string]interface{}{"swipe": swipe})
}
