package routes

import (
	"sparkd_server/controllers"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match lifecycle operations under
// /api/matches.
func RegisterMatchRoutes(r *mux.Router, swipes *services.SwipeService, engagement *services.EngagementService, dispatcher *services.Dispatcher) {
	controller := controllers.NewMatchController(swipes, engagement, dispatcher)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.HandleFunc("/sweep-stale", controller.HandleSweepStale).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/unmatch", controller.HandleUnmatch).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/block", controller.HandleBlock).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/interactions", controller.HandleInteraction).Methods("POST")
}
