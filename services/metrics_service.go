package services

import (
	"context"
	"sort"
	"strings"

	"sparkd_server/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// PrometheusMetrics implements MetricsSink on prometheus vectors. Tag maps
// are folded into one sorted label so callers can attach arbitrary tags
// without pre-registering label sets.
type PrometheusMetrics struct {
	events    *prometheus.CounterVec
	durations *prometheus.HistogramVec
	values    *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the metric vectors on the given registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sparkd_events_total",
			Help: "Count of core matching events.",
		}, []string{"name", "tags"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sparkd_operation_duration_ms",
			Help:    "Duration of core operations in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"name"}),
		values: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sparkd_observed_values",
			Help:    "Arbitrary observed values by name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"name"}),
	}
}

func (m *PrometheusMetrics) Count(name string, n int, tags map[string]string) {
	m.events.WithLabelValues(name, flattenTags(tags)).Add(float64(n))
}

func (m *PrometheusMetrics) Timing(name string, ms float64, tags map[string]string) {
	m.durations.WithLabelValues(name).Observe(ms)
}

func (m *PrometheusMetrics) Histogram(name string, value float64) {
	m.values.WithLabelValues(name).Observe(value)
}

func flattenTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for k, v := range tags {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// LogNotifier is the default Notifier. Real delivery channels (push, email,
// SMS) are external collaborators plugged in behind the Notifier interface;
// this one records what would have been sent.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, userID string, notification models.Notification) error {
	n.Log.Info().
		Str("userId", userID).
		Str("type", notification.Type).
		Str("title", notification.Title).
		Msg("notification dispatched")
	return nil
}
