package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/samirwankhede/hotel-insights/internal/reservations"
)

func TestRecordDashboard(t *testing.T) {
	list := []reservations.Reservation{
		{Status: reservations.StatusConfirmed, TotalAmount: 120},
		{Status: reservations.StatusPending, TotalAmount: 80},
		{Status: reservations.StatusCancelled, TotalAmount: 500},
	}
	RecordDashboard(reservations.BuildDashboard(list, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 5))

	assert.Equal(t, 1.0, testutil.ToFloat64(BookingsByStatus.WithLabelValues("CONFIRMED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(BookingsByStatus.WithLabelValues("CHECKED_IN")))
	assert.Equal(t, 200.0, testutil.ToFloat64(TotalRevenue))
	assert.Equal(t, 1.0, testutil.ToFloat64(ActiveAlerts.WithLabelValues("warning")))
	assert.Equal(t, 0.0, testutil.ToFloat64(ActiveAlerts.WithLabelValues("success")))
}
