package services

import (
	"context"
	"sort"
	"time"

	"sparkd_server/models"
	"sparkd_server/utils"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Candidate score weights (see rank).
const (
	scoreWeightProximity    = 30.0
	scoreWeightInterests    = 25.0
	scoreWeightCompleteness = 15.0
	scoreWeightActivity     = 15.0
	scoreWeightRating       = 15.0
)

// Top-picks quality gate.
const (
	topPickMinRating       = 1700
	topPickMinCompleteness = 0.8
)

func recommendationCacheKey(userID string) string { return "rec:" + userID }
func topPicksCacheKey(userID string) string       { return "toppicks:" + userID }

// userCacheKeys lists every recommendation cache entry derived from the given
// user's own state.
func userCacheKeys(userID string) []string {
	return []string{recommendationCacheKey(userID), topPicksCacheKey(userID)}
}

// RecommendationService produces ranked candidate lists.
type RecommendationService struct {
	Profiles ProfileStore
	Swipes   SwipeStore
	Cache    Cache

	// TTLs in seconds.
	RecommendationTTL int
	TopPicksTTL       int

	Log zerolog.Logger
	Now func() time.Time
}

func (s *RecommendationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Recommend returns up to limit candidates for the user, most relevant first.
// Results are cached per user with a short TTL; cache failures fall through
// to recomputation.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, limit int) ([]models.Candidate, error) {
	if cached, ok := s.fromCache(recommendationCacheKey(userID)); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	ranked, err := s.build(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	s.toCache(recommendationCacheKey(userID), ranked, s.RecommendationTTL)
	return ranked, nil
}

// TopPicks returns the stricter quality-filtered subset, cached for a day.
func (s *RecommendationService) TopPicks(ctx context.Context, userID string, limit int) ([]models.Candidate, error) {
	if cached, ok := s.fromCache(topPicksCacheKey(userID)); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	ranked, err := s.build(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	picks := make([]models.Candidate, 0, len(ranked))
	for _, c := range ranked {
		if c.Profile.Rating > topPickMinRating &&
			c.Profile.ProfileCompleteness > topPickMinCompleteness &&
			c.Profile.PhotoVerified {
			picks = append(picks, c)
		}
	}
	if len(picks) > limit {
		picks = picks[:limit]
	}
	s.toCache(topPicksCacheKey(userID), picks, s.TopPicksTTL)
	return picks, nil
}

func (s *RecommendationService) build(ctx context.Context, userID string, limit int) ([]models.Candidate, error) {
	requester, err := s.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	swiped, err := s.Swipes.ActiveTargets(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.Profiles.ListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.rank(requester, profiles, swiped, limit), nil
}

// rank runs the pipeline stages in strict order:
//  1. exclude self, already-swiped targets, gender mismatches and hidden
//     profiles
//  2. geo-bound to the requester's max distance, nearest first
//  3. inclusive age-range filter
//  4. weighted candidate score
//  5. active-boost multiplier
//  6. sort by score, keep 2*limit
//  7. premium-only filters for paid requesters
//  8. truncate to limit
func (s *RecommendationService) rank(requester *models.UserProfile, profiles []models.UserProfile, swiped map[string]bool, limit int) []models.Candidate {
	now := s.now()

	var candidates []models.Candidate
	for i := range profiles {
		p := profiles[i]
		// Stage 1: exclusions.
		if p.UserID == requester.UserID || swiped[p.UserID] || !p.ShowMe {
			continue
		}
		if !requester.WantsGender(p.Gender) {
			continue
		}

		// Stage 2: geo bound. Candidates with unknown locations cannot be
		// placed inside the bound and are dropped when the requester has one.
		distance := -1.0
		if requester.HasLocation {
			if !p.HasLocation {
				continue
			}
			distance = utils.HaversineKm(requester.Latitude, requester.Longitude, p.Latitude, p.Longitude)
			if requester.MaxDistanceKm > 0 && distance > requester.MaxDistanceKm {
				continue
			}
		}

		// Stage 3: inclusive age range.
		age := p.Age(now)
		if requester.AgeMin > 0 && (age < requester.AgeMin || age > requester.AgeMax) {
			continue
		}

		candidates = append(candidates, models.Candidate{Profile: p, DistanceKm: distance})
	}

	// Nearest-first substrate so equal scores later resolve by proximity.
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].DistanceKm, candidates[j].DistanceKm
		if di < 0 {
			return false
		}
		if dj < 0 {
			return true
		}
		return di < dj
	})

	// Stages 4-5: score and boost.
	for i := range candidates {
		c := &candidates[i]
		c.Score = s.candidateScore(requester, &c.Profile, c.DistanceKm)
		if c.Profile.BoostActive(now) {
			c.Score *= 2
			c.Boosted = true
		}
	}

	// Stage 6: order by final score, keep 2*limit headroom for stage 7.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > 2*limit {
		candidates = candidates[:2*limit]
	}

	// Stage 7: premium-only filters.
	if requester.Tier.Paid() {
		candidates = applyPremiumFilters(requester, candidates)
	}

	// Stage 8.
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func (s *RecommendationService) candidateScore(requester, candidate *models.UserProfile, distanceKm float64) float64 {
	var score float64

	if distanceKm >= 0 && requester.MaxDistanceKm > 0 {
		proximity := 1 - distanceKm/requester.MaxDistanceKm
		if proximity > 0 {
			score += scoreWeightProximity * proximity
		}
	}

	if len(candidate.Interests) > 0 {
		common := intersect(requester.Interests, candidate.Interests)
		score += scoreWeightInterests * float64(len(common)) / float64(len(candidate.Interests))
	}

	score += scoreWeightCompleteness * candidate.ProfileCompleteness
	score += scoreWeightActivity * candidate.ActivityScore

	ratingGap := float64(candidate.Rating - requester.Rating)
	if ratingGap < 0 {
		ratingGap = -ratingGap
	}
	similarity := 1 - ratingGap/1000
	if similarity < 0 {
		similarity = 0
	}
	score += scoreWeightRating * similarity

	return score
}

func applyPremiumFilters(requester *models.UserProfile, candidates []models.Candidate) []models.Candidate {
	filtered := candidates[:0]
	for _, c := range candidates {
		if requester.HeightMinCm > 0 && requester.HeightMaxCm > 0 {
			if c.Profile.HeightCm < requester.HeightMinCm || c.Profile.HeightCm > requester.HeightMaxCm {
				continue
			}
		}
		if len(requester.Languages) > 0 && len(intersect(requester.Languages, c.Profile.Languages)) == 0 {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

func (s *RecommendationService) fromCache(key string) ([]models.Candidate, bool) {
	raw, ok, err := s.Cache.Get(key)
	if err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("recommendation cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var candidates []models.Candidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("dropping malformed recommendation cache entry")
		return nil, false
	}
	return candidates, true
}

func (s *RecommendationService) toCache(key string, candidates []models.Candidate, ttlSeconds int) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("recommendation cache marshal failed")
		return
	}
	if err := s.Cache.Set(key, string(raw), ttlSeconds); err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("recommendation cache write failed")
	}
}
