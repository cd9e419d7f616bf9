package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsCreated counts issued notifications by channel (system|push).
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_notifications_created_total",
			Help: "Total number of notifications issued to users",
		},
		[]string{"channel"},
	)

	// NotificationsListed counts notifications returned by pending listings.
	NotificationsListed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_notifications_listed_total",
			Help: "Total number of notifications surfaced through listings",
		},
	)

	// NotificationsSuppressed counts realtime deliveries skipped because of user preferences.
	NotificationsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_notifications_suppressed_total",
			Help: "Notifications withheld from realtime delivery by user preferences",
		},
		[]string{"channel"},
	)

	// StatusUpdates counts status writes by resulting status (seen|unseen).
	StatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_status_updates_total",
			Help: "Total number of notification status updates",
		},
		[]string{"status"},
	)

	// PreferenceUpserts counts preference writes by outcome (created|updated).
	PreferenceUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_preference_upserts_total",
			Help: "Total number of notification preference upserts",
		},
		[]string{"outcome"},
	)

	// TranslationLookups counts translation resolution by source (cache|store|fallback).
	TranslationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_translation_lookups_total",
			Help: "Translation lookups by resolution source",
		},
		[]string{"source"},
	)

	// RealtimeBroadcasts counts realtime events by result (delivered|dropped|skipped).
	RealtimeBroadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_realtime_broadcasts_total",
			Help: "Realtime in-app notification events",
		},
		[]string{"result"},
	)

	// RealtimeConnections tracks open realtime connections.
	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_realtime_connections",
			Help: "Number of open realtime connections",
		},
	)

	// UnseenBacklog reports unseen notifications per channel, refreshed by the backlog reporter.
	UnseenBacklog = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notify_unseen_backlog",
			Help: "Unseen notifications awaiting users",
		},
		[]string{"channel"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notify_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
