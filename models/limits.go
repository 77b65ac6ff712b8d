package models

// DailyCounters are a user's per-UTC-day action counts. They reset at the day
// boundary by key expiry, not by an explicit job.
type DailyCounters struct {
	Swipes     int64 `json:"swipes"`
	Likes      int64 `json:"likes"`
	Superlikes int64 `json:"superlikes"`
	Undos      int64 `json:"undos"`
}

// QuotaCaps are the free-tier daily caps. Paid tiers are unlimited.
type QuotaCaps struct {
	Swipes     int64
	Likes      int64
	Superlikes int64
	Undos      int64
}

// RemainingQuota is reported back to the client after each swipe. -1 means
// unlimited.
type RemainingQuota struct {
	Swipes     int64 `json:"swipes"`
	Likes      int64 `json:"likes"`
	Superlikes int64 `json:"superlikes"`
	Undos      int64 `json:"undos"`
}

// Remaining computes what is left of the caps after the given counts.
func (c QuotaCaps) Remaining(counts DailyCounters, paid bool) RemainingQuota {
	if paid {
		return RemainingQuota{Swipes: -1, Likes: -1, Superlikes: -1, Undos: -1}
	}
	clampZero := func(n int64) int64 {
		if n < 0 {
			return 0
		}
		return n
	}
	return RemainingQuota{
		Swipes:     clampZero(c.Swipes - counts.Swipes),
		Likes:      clampZero(c.Likes - counts.Likes),
		Superlikes: clampZero(c.Superlikes - counts.Superlikes),
		Undos:      clampZero(c.Undos - counts.Undos),
	}
}
