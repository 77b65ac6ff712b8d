package routes

import (
	"sparkd_server/controllers"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes sets up routes for swipe processing under /api/swipes.
func RegisterSwipeRoutes(r *mux.Router, swipes *services.SwipeService, dispatcher *services.Dispatcher, metrics services.MetricsSink) {
	controller := controllers.NewSwipeController(swipes, dispatcher, metrics)

	swipeRouter := r.PathPrefix("/api/swipes").Subrouter()
	swipeRouter.HandleFunc("", controller.HandleProcessSwipe).Methods("POST")
	swipeRouter.HandleFunc("/undo", controller.HandleUndoSwipe).Methods("POST")
}
