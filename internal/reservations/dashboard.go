package reservations

import "time"

// Dashboard bundles every figure derived from one reservation snapshot.
type Dashboard struct {
	GeneratedAt    time.Time          `json:"generatedAt"`
	Stats          BookingStats       `json:"stats"`
	RevenueSeries  []MonthlyRevenue   `json:"revenueSeries"`
	Alerts         []Alert            `json:"alerts"`
	Operations     OperationalMetrics `json:"operations"`
	RecentBookings []Reservation      `json:"recentBookings"`
}

// BuildDashboard runs the whole pipeline over a canonical list.
func BuildDashboard(list []Reservation, now time.Time, recentLimit int) Dashboard {
	return Dashboard{
		GeneratedAt:    now,
		Stats:          Summarize(list),
		RevenueSeries:  MonthlyRevenueSeries(list),
		Alerts:         GenerateAlerts(list, now),
		Operations:     Operations(list, now),
		RecentBookings: Recent(list, recentLimit),
	}
}
