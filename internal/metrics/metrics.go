package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefix = "invernadero_"

var (
	scheduleConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "schedule_conflicts_total",
			Help: "Schedule creations rejected for window overlap, by kind",
		},
		[]string{"kind"},
	)
	sensorAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "sensor_alerts_total",
			Help: "Humidity threshold transitions, by state (low, high, recovered)",
		},
		[]string{"state"},
	)
	notificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "notifications_published_total",
			Help: "Notifications pushed to a live audience channel",
		},
		[]string{"audience"},
	)
)

func ScheduleConflict(kind string) { scheduleConflicts.WithLabelValues(kind).Inc() }

func SensorAlert(state string) { sensorAlerts.WithLabelValues(state).Inc() }

func NotificationPublished(audience string) { notificationsPublished.WithLabelValues(audience).Inc() }

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
