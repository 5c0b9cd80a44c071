package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics records delivery outcomes for the notification fanout.
type NotificationMetrics struct {
	duration  *prometheus.HistogramVec
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewNotificationMetrics registers the fanout metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_publish_duration_seconds",
		Help:    "Duration of notification publishes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_delivered",
		Help: "Notifications successfully handed to the transport.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failed",
		Help: "Notifications the transport rejected.",
	}, []string{"kind"})
	reg.MustRegister(duration, delivered, failed)
	return &NotificationMetrics{
		duration:  duration,
		delivered: delivered,
		failed:    failed,
	}
}

// ObserveDuration records how long one publish took.
func (n *NotificationMetrics) ObserveDuration(kind string, duration time.Duration) {
	if n == nil || n.duration == nil {
		return
	}
	n.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncDelivered increments the delivered counter for the given kind.
func (n *NotificationMetrics) IncDelivered(kind string) {
	if n == nil || n.delivered == nil {
		return
	}
	n.delivered.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFailed increments the failed counter for the given kind.
func (n *NotificationMetrics) IncFailed(kind string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
