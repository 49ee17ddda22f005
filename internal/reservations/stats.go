package reservations

// Summarize counts reservations by status and totals revenue over every
// reservation that is not cancelled.
func Summarize(list []Reservation) BookingStats {
	byStatus := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		byStatus[s] = 0
	}

	var revenue float64
	for _, r := range list {
		byStatus[r.Status]++
		if r.Status != StatusCancelled {
			revenue += r.TotalAmount
		}
	}

	stats := BookingStats{
		TotalBookings:    len(list),
		TotalRevenue:     revenue,
		BookingsByStatus: byStatus,
		Confirmed:        byStatus[StatusConfirmed],
		Pending:          byStatus[StatusPending],
		Cancelled:        byStatus[StatusCancelled],
		CheckedIn:        byStatus[StatusCheckedIn],
		CheckedOut:       byStatus[StatusCheckedOut],
	}
	if stats.TotalBookings > 0 {
		stats.AverageBookingValue = revenue / float64(stats.TotalBookings)
	}
	return stats
}
