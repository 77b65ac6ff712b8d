package routes

import (
	"sparkd_server/controllers"
	"sparkd_server/services"

	"github.com/gorilla/mux"
)

// RegisterRecommendationRoutes sets up routes for candidate recommendations
// under /api/recommendations.
func RegisterRecommendationRoutes(r *mux.Router, recs *services.RecommendationService) {
	controller := controllers.NewRecommendationController(recs)

	recRouter := r.PathPrefix("/api/recommendations").Subrouter()
	recRouter.HandleFunc("/{userId}", controller.HandleRecommend).Methods("GET")
	recRouter.HandleFunc("/{userId}/top-picks", controller.HandleTopPicks).Methods("GET")
}
