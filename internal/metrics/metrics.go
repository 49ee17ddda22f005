package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/samirwankhede/hotel-insights/internal/reservations"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	FeedFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_feed_fetches_total",
		Help: "Reservation feed fetch outcomes",
	}, []string{"outcome"})

	FeedFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insights_feed_fetch_duration_seconds",
		Help:    "Reservation feed fetch duration",
		Buckets: prometheus.DefBuckets,
	})

	RefreshRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_refresh_runs_total",
		Help: "Dashboard refresh runs by trigger and outcome",
	}, []string{"trigger", "outcome"})

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insights_refresh_duration_seconds",
		Help:    "Dashboard refresh duration",
		Buckets: prometheus.DefBuckets,
	})

	AlertsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_alerts_published_total",
		Help: "Alert sets published after a change",
	})

	BookingsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "insights_bookings",
		Help: "Bookings in the latest snapshot by status",
	}, []string{"status"})

	TotalRevenue = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insights_revenue_total",
		Help: "Revenue of non-cancelled bookings in the latest snapshot",
	})

	ActiveAlerts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "insights_active_alerts",
		Help: "Alerts in the latest snapshot by type",
	}, []string{"type"})
)

var alertTypes = []reservations.AlertType{
	reservations.AlertWarning, reservations.AlertInfo, reservations.AlertError, reservations.AlertSuccess,
}

// RecordDashboard exports the snapshot gauges.
func RecordDashboard(d reservations.Dashboard) {
	for status, n := range d.Stats.BookingsByStatus {
		BookingsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	TotalRevenue.Set(d.Stats.TotalRevenue)

	counts := make(map[reservations.AlertType]int, len(alertTypes))
	for _, a := range d.Alerts {
		counts[a.Type]++
	}
	for _, t := range alertTypes {
		ActiveAlerts.WithLabelValues(string(t)).Set(float64(counts[t]))
	}
}
