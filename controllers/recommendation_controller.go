package controllers

import (
	"context"
	"net/http"
	"strconv"

	"sparkd_server/services"

	"github.com/gorilla/mux"
)

const defaultRecommendationLimit = 20

// RecommendationController serves ranked candidate lists.
type RecommendationController struct {
	Recommendations *services.RecommendationService
}

// NewRecommendationController creates a new RecommendationController instance.
func NewRecommendationController(recs *services.RecommendationService) *RecommendationController {
	return &RecommendationController{Recommendations: recs}
}

func requestedLimit(r *http.Request) int {
	limit := defaultRecommendationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return limit
}

// HandleRecommend returns ranked candidates for a user.
func (rc *RecommendationController) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	candidates, err := rc.Recommendations.Recommend(context.Background(), userID, requestedLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": candidates})
}

// HandleTopPicks returns the stricter quality-filtered subset.
func (rc *RecommendationController) HandleTopPicks(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	candidates, err := rc.Recommendations.TopPicks(context.Background(), userID, requestedLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": candidates})
}
