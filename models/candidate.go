package models

// Candidate is one entry of a ranked recommendation list.
type Candidate struct {
	Profile    UserProfile `json:"profile"`
	Score      float64     `json:"score"`
	DistanceKm float64     `json:"distanceKm"` // -1 when unknown
	Boosted    bool        `json:"boosted,omitempty"`
}
