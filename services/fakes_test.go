package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sparkd_server/models"
)

// In-memory store fakes shared by the service tests.

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
}

func newFakeProfiles(profiles ...*models.UserProfile) *fakeProfiles {
	f := &fakeProfiles{profiles: map[string]*models.UserProfile{}}
	for _, p := range profiles {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfiles) UpdateRating(_ context.Context, userID string, rating int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.Rating = rating
	return nil
}

func (f *fakeProfiles) IncrementStats(_ context.Context, userID string, deltas models.StatDeltas) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.TotalSwipes += deltas.Swipes
	p.TotalLikes += deltas.Likes
	p.TotalPasses += deltas.Passes
	p.TotalSuperlikes += deltas.Superlikes
	p.TotalMatches += deltas.Matches
	return nil
}

func (f *fakeProfiles) AddToBlockList(_ context.Context, userID, otherID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.BlockedUsers = append(p.BlockedUsers, otherID)
	return nil
}

func (f *fakeProfiles) ListCandidates(_ context.Context, excludeUserID string) ([]models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.UserProfile
	for _, p := range f.profiles {
		if p.UserID == excludeUserID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

type fakeSwipes struct {
	mu     sync.Mutex
	swipes []*models.SwipeRecord
}

func (f *fakeSwipes) Get(_ context.Context, swipeID string) (*models.SwipeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.swipes {
		if s.SwipeID == swipeID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeSwipes) Put(_ context.Context, swipe *models.SwipeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *swipe
	f.swipes = append(f.swipes, &copied)
	return nil
}

func (f *fakeSwipes) ActiveSwipe(_ context.Context, fromUserID, toUserID string) (*models.SwipeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.swipes {
		if s.Active && s.FromUserID == fromUserID && s.ToUserID == toUserID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSwipes) ActiveTargets(_ context.Context, fromUserID string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	targets := map[string]bool{}
	for _, s := range f.swipes {
		if s.Active && s.FromUserID == fromUserID {
			targets[s.ToUserID] = true
		}
	}
	return targets, nil
}

func (f *fakeSwipes) LatestActive(_ context.Context, fromUserID string) (*models.SwipeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.swipes) - 1; i >= 0; i-- {
		s := f.swipes[i]
		if s.Active && s.FromUserID == fromUserID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSwipes) LinkMatch(_ context.Context, swipeID, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.swipes {
		if s.SwipeID == swipeID {
			if s.MatchID == "" {
				s.MatchID = matchID
			}
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeSwipes) Deactivate(_ context.Context, swipeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.swipes {
		if s.SwipeID == swipeID {
			s.Active = false
			return nil
		}
	}
	return ErrNotFound
}

type fakeMatches struct {
	mu      sync.Mutex
	matches map[string]*models.MatchRecord
}

func newFakeMatches() *fakeMatches {
	return &fakeMatches{matches: map[string]*models.MatchRecord{}}
}

func (f *fakeMatches) Create(_ context.Context, match *models.MatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.matches[match.PairID]; ok && existing.Status == models.MatchStatusActive {
		return ErrConflict
	}
	copied := *match
	f.matches[match.PairID] = &copied
	return nil
}

func (f *fakeMatches) GetByPair(_ context.Context, pairID string) (*models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[pairID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMatches) GetByMatchID(_ context.Context, matchID string) (*models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.MatchID == matchID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeMatches) UpdateStatus(_ context.Context, pairID string, status models.MatchStatus, endedBy, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[pairID]
	if !ok {
		return ErrNotFound
	}
	m.Status = status
	m.EndedBy = endedBy
	m.EndReason = reason
	return nil
}

func (f *fakeMatches) SaveEngagement(_ context.Context, match *models.MatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[match.PairID]
	if !ok {
		return ErrNotFound
	}
	m.Interactions = match.Interactions
	m.Participants = match.Participants
	m.EngagementScore = match.EngagementScore
	return nil
}

func (f *fakeMatches) MarkStale(_ context.Context, pairID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[pairID]
	if !ok {
		return ErrNotFound
	}
	m.Stale = true
	return nil
}

func (f *fakeMatches) ListActive(_ context.Context) ([]models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MatchRecord
	for _, m := range f.matches {
		if m.Status == models.MatchStatusActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeCounters struct {
	mu     sync.Mutex
	counts map[string]*models.DailyCounters
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{counts: map[string]*models.DailyCounters{}}
}

func (f *fakeCounters) get(userID string) *models.DailyCounters {
	c, ok := f.counts[userID]
	if !ok {
		c = &models.DailyCounters{}
		f.counts[userID] = c
	}
	return c
}

func (f *fakeCounters) Today(userID string) (models.DailyCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.get(userID), nil
}

func (f *fakeCounters) Increment(userID, field string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.get(userID)
	switch field {
	case CounterSwipes:
		c.Swipes++
		return c.Swipes, nil
	case CounterLikes:
		c.Likes++
		return c.Likes, nil
	case CounterSuperlikes:
		c.Superlikes++
		return c.Superlikes, nil
	case CounterUndos:
		c.Undos++
		return c.Undos, nil
	}
	return 0, fmt.Errorf("unknown counter field '%s'", field)
}

// fakeCache records TTLs so the counter tests can assert expiry behaviour.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}, ttls: map[string]int{}}
}

func (f *fakeCache) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) Set(key, value string, ttlSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	f.ttls[key] = ttlSeconds
	return nil
}

func (f *fakeCache) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeCache) DeletePattern(pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			delete(f.entries, k)
		}
	}
	return nil
}

func (f *fakeCache) AtomicIncrement(key string, ttlSeconds int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	if v, ok := f.entries[key]; ok {
		fmt.Sscan(v, &n)
	} else {
		f.ttls[key] = ttlSeconds
	}
	n++
	f.entries[key] = fmt.Sprintf("%d", n)
	return n, nil
}
