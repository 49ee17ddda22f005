package reservations

import (
	"fmt"
	"strings"
	"time"
)

// UpcomingWindowDays is how far ahead confirmed arrivals are reported.
const UpcomingWindowDays = 7

// GenerateAlerts derives operational alerts from the reservation list. The
// result is never empty: when nothing needs attention it holds a single
// success alert. "Today" is the calendar date of now in now's location.
func GenerateAlerts(list []Reservation, now time.Time) []Alert {
	today := startOfDay(now)
	horizon := today.AddDate(0, 0, UpcomingWindowDays)

	var pending, cancelled, checkedIn, upcoming int
	for _, r := range list {
		switch r.Status {
		case StatusPending:
			pending++
		case StatusCancelled:
			if strings.TrimSpace(r.CancelledAt) != "" {
				cancelled++
			}
		case StatusCheckedIn:
			checkedIn++
		case StatusConfirmed:
			start, ok := parseDate(r.StartDate, now.Location())
			if ok && !start.Before(today) && !start.After(horizon) {
				upcoming++
			}
		}
	}

	alerts := make([]Alert, 0, 4)
	if pending > 0 {
		alerts = append(alerts, countAlert(AlertWarning, "Pending Reservations",
			fmt.Sprintf("%d %s awaiting confirmation", pending, plural(pending, "reservation is", "reservations are")), pending))
	}
	if cancelled > 0 {
		alerts = append(alerts, countAlert(AlertError, "Cancellations",
			fmt.Sprintf("%d %s been cancelled", cancelled, plural(cancelled, "reservation has", "reservations have")), cancelled))
	}
	if checkedIn > 0 {
		alerts = append(alerts, countAlert(AlertInfo, "Active Check-ins",
			fmt.Sprintf("%d %s currently checked in", checkedIn, plural(checkedIn, "guest is", "guests are")), checkedIn))
	}
	if upcoming > 0 {
		alerts = append(alerts, countAlert(AlertInfo, "Upcoming Check-ins",
			fmt.Sprintf("%d %s expected in the next %d days", upcoming, plural(upcoming, "arrival", "arrivals"), UpcomingWindowDays), upcoming))
	}
	if len(alerts) == 0 {
		alerts = append(alerts, Alert{
			Type:    AlertSuccess,
			Title:   "All Clear",
			Message: "No reservations need attention right now.",
		})
	}
	return alerts
}

func countAlert(t AlertType, title, message string, count int) Alert {
	return Alert{Type: t, Title: title, Message: message, Count: &count}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
