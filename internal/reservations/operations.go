package reservations

import "time"

// Operations computes the front-desk figures for the day of now.
func Operations(list []Reservation, now time.Time) OperationalMetrics {
	loc := now.Location()
	today := startOfDay(now)

	var m OperationalMetrics
	var cancelled, stays, nights int
	for _, r := range list {
		start, hasStart := parseDate(r.StartDate, loc)
		end, hasEnd := parseDate(r.EndDate, loc)

		switch r.Status {
		case StatusConfirmed:
			if hasStart && start.Equal(today) {
				m.ArrivalsToday++
			}
		case StatusCheckedIn:
			if hasStart && start.Equal(today) {
				m.ArrivalsToday++
			}
			if hasEnd && end.Equal(today) {
				m.DeparturesToday++
			}
			m.InHouseGuests += r.GuestCount
		case StatusCheckedOut:
			if hasEnd && end.Equal(today) {
				m.DeparturesToday++
			}
		case StatusCancelled:
			cancelled++
			continue
		}

		if hasStart && hasEnd && end.After(start) {
			stays++
			nights += nightsBetween(start, end)
		}
	}

	if stays > 0 {
		m.AverageStayNights = float64(nights) / float64(stays)
	}
	if len(list) > 0 {
		m.CancellationRate = float64(cancelled) / float64(len(list))
	}
	return m
}

// nightsBetween counts calendar days between two midnights, ignoring DST shifts.
func nightsBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}
