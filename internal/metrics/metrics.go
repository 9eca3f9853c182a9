// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsTotal counts notifications by type and outcome
	// (enqueued, created, failed, dropped, suppressed).
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackmate_notifications_total",
		Help: "Notifications by type and outcome",
	}, []string{"type", "outcome"})

	// XPAwardedTotal sums awarded XP by event.
	XPAwardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackmate_xp_awarded_total",
		Help: "XP awarded by event",
	}, []string{"event"})

	AchievementsUnlockedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackmate_achievements_unlocked_total",
		Help: "Achievements unlocked by key",
	}, []string{"key"})

	// LikeToggleRetries counts conditional-update conflicts while toggling likes.
	LikeToggleRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackmate_like_toggle_retries_total",
		Help: "Like toggle retries caused by concurrent updates",
	}, []string{"collection"})

	RealtimeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hackmate_realtime_connections",
		Help: "Open websocket connections",
	})

	// RealtimeBroadcastsTotal counts room broadcasts by event and outcome (delivered, dropped).
	RealtimeBroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackmate_realtime_broadcasts_total",
		Help: "Realtime room messages by event and outcome",
	}, []string{"event", "outcome"})
)
