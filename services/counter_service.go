package services

import (
	"fmt"
	"time"

	"sparkd_server/models"
)

// Daily counter fields.
const (
	CounterSwipes     = "swipes"
	CounterLikes      = "likes"
	CounterSuperlikes = "superlikes"
	CounterUndos      = "undos"
)

// CounterStore tracks per-user, per-UTC-day action counts. Increments must be
// atomic with respect to concurrent swipes by the same user.
type CounterStore interface {
	Today(userID string) (models.DailyCounters, error)
	Increment(userID, field string) (int64, error)
}

// CounterService implements CounterStore on the cache store. Counters reset
// at the UTC day boundary via key expiry.
type CounterService struct {
	Cache Cache
	Now   func() time.Time
}

func (cs *CounterService) now() time.Time {
	if cs.Now != nil {
		return cs.Now()
	}
	return time.Now()
}

func dailyKey(userID, field string, t time.Time) string {
	return fmt.Sprintf("daily:%s:%s:%s", userID, t.UTC().Format("2006-01-02"), field)
}

// secondsUntilMidnightUTC returns the TTL that expires a counter key at the
// next UTC day boundary. Never less than 1.
func secondsUntilMidnightUTC(t time.Time) int {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	secs := int(midnight.Sub(utc).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (cs *CounterService) Today(userID string) (models.DailyCounters, error) {
	t := cs.now()
	var counters models.DailyCounters

	read := func(field string, dst *int64) error {
		value, ok, err := cs.Cache.Get(dailyKey(userID, field, t))
		if err != nil {
			return err
		}
		if !ok {
			*dst = 0
			return nil
		}
		var n int64
		if _, err := fmt.Sscan(value, &n); err != nil {
			return fmt.Errorf("malformed counter value for '%s': %w", field, err)
		}
		*dst = n
		return nil
	}

	if err := read(CounterSwipes, &counters.Swipes); err != nil {
		return counters, err
	}
	if err := read(CounterLikes, &counters.Likes); err != nil {
		return counters, err
	}
	if err := read(CounterSuperlikes, &counters.Superlikes); err != nil {
		return counters, err
	}
	if err := read(CounterUndos, &counters.Undos); err != nil {
		return counters, err
	}
	return counters, nil
}

func (cs *CounterService) Increment(userID, field string) (int64, error) {
	t := cs.now()
	return cs.Cache.AtomicIncrement(dailyKey(userID, field, t), secondsUntilMidnightUTC(t))
}
