// Package metrics holds the business counters shared by the application layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_admin_service"

var (
	userSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_saves_total",
			Help:      "Directory saves by operation and result",
		},
		[]string{"op", "result"}, // op: create|update, result: success|conflict|not_found|invalid|error
	)

	userCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_cache_lookups_total",
			Help:      "Record cache lookups",
		},
		[]string{"result"}, // hit|miss|error
	)

	editorOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "editor_notifications_total",
			Help:      "Notifications raised by editing sessions",
		},
		[]string{"kind"},
	)

	editorSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "editor_sessions_active",
			Help:      "Open editing sessions",
		},
	)
)

func RecordUserSave(op, result string) {
	userSavesTotal.WithLabelValues(op, result).Inc()
}

func RecordCacheLookup(result string) {
	userCacheTotal.WithLabelValues(result).Inc()
}

func RecordEditorNotification(kind string) {
	editorOutcomesTotal.WithLabelValues(kind).Inc()
}

func SetActiveSessions(n int) {
	editorSessionsActive.Set(float64(n))
}
