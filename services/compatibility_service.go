package services

import (
	"math"
	"time"

	"sparkd_server/models"
	"sparkd_server/utils"
)

// Factor weights. Weights of missing factors are deliberately not
// redistributed, so two profiles with incomplete data top out below 1.0.
const (
	weightInterests = 0.30
	weightAge       = 0.20
	weightDistance  = 0.20
	weightLifestyle = 0.15
	weightGoal      = 0.15
)

// FactorBreakdown carries the weighted contribution of each factor to the
// overall score.
type FactorBreakdown struct {
	Interests float64 `json:"interests"`
	Age       float64 `json:"age"`
	Distance  float64 `json:"distance"`
	Lifestyle float64 `json:"lifestyle"`
	Goal      float64 `json:"goal"`
}

// CompatibilityResult is the outcome of scoring one ordered profile pair.
type CompatibilityResult struct {
	Overall         float64         `json:"overall"` // [0,1]
	CommonInterests []string        `json:"commonInterests"`
	DistanceKm      float64         `json:"distanceKm"` // -1 when either location is missing
	Factors         FactorBreakdown `json:"factors"`
}

// CompatibilityScorer computes pairwise compatibility. Deterministic, pure,
// no I/O. The interest factor is asymmetric by construction (it is normalized
// by the first profile's interest count); distance and age factors are
// symmetric.
type CompatibilityScorer struct{}

// Score computes the compatibility of a toward b.
func (CompatibilityScorer) Score(a, b *models.UserProfile) CompatibilityResult {
	result := CompatibilityResult{DistanceKm: -1}

	// Interests: |intersection| / max(|a.interests|, 1).
	common := intersect(a.Interests, b.Interests)
	result.CommonInterests = common
	denom := float64(len(a.Interests))
	if denom < 1 {
		denom = 1
	}
	result.Factors.Interests = weightInterests * (float64(len(common)) / denom)

	// Age: max(0, 1 - |ageA - ageB| / 20). Computed from the birth dates
	// directly so the factor does not depend on the current time.
	if years, ok := birthYearsApart(a.BirthDate, b.BirthDate); ok {
		result.Factors.Age = weightAge * math.Max(0, 1-years/20)
	}

	// Distance: max(0, 1 - km/100), omitted entirely when either location is
	// missing.
	if a.HasLocation && b.HasLocation {
		km := utils.HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
		result.DistanceKm = km
		result.Factors.Distance = weightDistance * math.Max(0, 1-km/100)
	}

	result.Factors.Lifestyle = weightLifestyle * lifestyleMatch(a.Lifestyle, b.Lifestyle)

	if a.RelationshipGoal != "" && a.RelationshipGoal == b.RelationshipGoal {
		result.Factors.Goal = weightGoal
	}

	overall := result.Factors.Interests + result.Factors.Age + result.Factors.Distance +
		result.Factors.Lifestyle + result.Factors.Goal
	result.Overall = math.Min(1, math.Max(0, overall))
	return result
}

// lifestyleMatch averages per-attribute equality over the attributes present
// on both profiles. Drinking and smoking carry full weight, workout half.
func lifestyleMatch(a, b models.Lifestyle) float64 {
	var matched, total float64

	compare := func(va, vb string, weight float64) {
		if va == "" || vb == "" {
			return
		}
		total += weight
		if va == vb {
			matched += weight
		}
	}
	compare(a.Drinking, b.Drinking, 1.0)
	compare(a.Smoking, b.Smoking, 1.0)
	compare(a.Workout, b.Workout, 0.5)

	if total == 0 {
		return 0
	}
	return matched / total
}

func birthYearsApart(a, b string) (float64, bool) {
	if a == "" || b == "" {
		return 0, false
	}
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return 0, false
	}
	const hoursPerYear = 24 * 365.25
	return math.Abs(ta.Sub(tb).Hours()) / hoursPerYear, true
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[s] = true
	}
	var common []string
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		if set[s] && !seen[s] {
			common = append(common, s)
			seen[s] = true
		}
	}
	return common
}
