package services

import (
	"context"

	"sparkd_server/models"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Notifier is the notification-dispatch collaborator. Fire-and-forget from
// the core's perspective.
type Notifier interface {
	Notify(ctx context.Context, userID string, n models.Notification) error
}

// Realtime announces events to connected clients. Best-effort.
type Realtime interface {
	EmitToUser(userID, event string, payload interface{}) error
}

// ConversationPurger is the conversation collaborator's capability to purge
// message content after a block.
type ConversationPurger interface {
	Purge(ctx context.Context, matchID string) error
}

// MetricsSink records operational metrics. Best-effort, never blocks core
// logic on failure.
type MetricsSink interface {
	Count(name string, n int, tags map[string]string)
	Timing(name string, ms float64, tags map[string]string)
	Histogram(name string, value float64)
}

// EffectKind discriminates outbox entries.
type EffectKind int

const (
	EffectNotify EffectKind = iota
	EffectEmit
	EffectMetric
	EffectInvalidateCache
	EffectPurgeConversation
)

// Effect is one deferred side effect produced by a core operation. Core
// operations return an outbox of effects instead of performing I/O inline,
// so the decision logic stays pure of delivery concerns and the effects can
// be asserted in tests.
type Effect struct {
	Kind EffectKind

	// Notify / Emit / InvalidateCache target.
	UserID string

	// Emit.
	Event   string
	Payload interface{}

	// Notify.
	Notification *models.Notification

	// Metric.
	Metric string
	N      int
	Tags   map[string]string

	// PurgeConversation.
	MatchID string
}

func notifyEffect(userID string, n models.Notification) Effect {
	return Effect{Kind: EffectNotify, UserID: userID, Notification: &n}
}

func emitEffect(userID, event string, payload interface{}) Effect {
	return Effect{Kind: EffectEmit, UserID: userID, Event: event, Payload: payload}
}

func metricEffect(name string, n int, tags map[string]string) Effect {
	return Effect{Kind: EffectMetric, Metric: name, N: n, Tags: tags}
}

func invalidateEffect(userID string) Effect {
	return Effect{Kind: EffectInvalidateCache, UserID: userID}
}

func purgeEffect(matchID string) Effect {
	return Effect{Kind: EffectPurgeConversation, MatchID: matchID}
}

// Dispatcher executes effect outboxes. Every failure is logged and swallowed:
// once the core records have committed, no side-effect failure may make the
// operation appear failed.
type Dispatcher struct {
	Notifier Notifier
	Realtime Realtime
	Metrics  MetricsSink
	Cache    Cache
	Purger   ConversationPurger
	Log      zerolog.Logger

	breaker *gobreaker.CircuitBreaker[interface{}]
}

// NewDispatcher wires a dispatcher with a circuit breaker guarding the
// notification collaborator, so a dead push provider cannot slow down swipe
// handling.
func NewDispatcher(notifier Notifier, realtime Realtime, metrics MetricsSink, cache Cache, purger ConversationPurger, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		Notifier: notifier,
		Realtime: realtime,
		Metrics:  metrics,
		Cache:    cache,
		Purger:   purger,
		Log:      log.With().Str("service", "dispatcher").Logger(),
		breaker:  gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{Name: "notifier"}),
	}
}

// Dispatch executes every effect best-effort, in order.
func (d *Dispatcher) Dispatch(ctx context.Context, effects []Effect) {
	for _, effect := range effects {
		switch effect.Kind {
		case EffectNotify:
			if d.Notifier == nil || effect.Notification == nil {
				continue
			}
			_, err := d.breaker.Execute(func() (interface{}, error) {
				return nil, d.Notifier.Notify(ctx, effect.UserID, *effect.Notification)
			})
			if err != nil {
				d.Log.Warn().Err(err).Str("userId", effect.UserID).Msg("notification dispatch failed")
			}

		case EffectEmit:
			if d.Realtime == nil {
				continue
			}
			if err := d.Realtime.EmitToUser(effect.UserID, effect.Event, effect.Payload); err != nil {
				d.Log.Warn().Err(err).Str("userId", effect.UserID).Str("event", effect.Event).Msg("realtime emit failed")
			}

		case EffectMetric:
			if d.Metrics != nil {
				d.Metrics.Count(effect.Metric, effect.N, effect.Tags)
			}

		case EffectInvalidateCache:
			if d.Cache == nil {
				continue
			}
			if err := d.Cache.Delete(userCacheKeys(effect.UserID)...); err != nil {
				d.Log.Warn().Err(err).Str("userId", effect.UserID).Msg("cache invalidation failed")
			}

		case EffectPurgeConversation:
			if d.Purger == nil {
				continue
			}
			if err := d.Purger.Purge(ctx, effect.MatchID); err != nil {
				d.Log.Warn().Err(err).Str("matchId", effect.MatchID).Msg("conversation purge failed")
			}
		}
	}
}
