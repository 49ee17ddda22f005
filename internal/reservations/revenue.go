package reservations

import (
	"sort"
	"time"
)

// MaxRevenueMonths caps the revenue series to the trailing months present in the data.
const MaxRevenueMonths = 12

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyRevenueSeries groups non-cancelled reservations by the UTC year and
// month of their creation time. Reservations with an unparsable createdAt are
// left out. The series is ascending and holds at most MaxRevenueMonths points.
func MonthlyRevenueSeries(list []Reservation) []MonthlyRevenue {
	buckets := make(map[monthKey]*MonthlyRevenue)
	for _, r := range list {
		if r.Status == StatusCancelled {
			continue
		}
		created, ok := r.Created()
		if !ok {
			continue
		}
		created = created.UTC()
		key := monthKey{year: created.Year(), month: created.Month()}
		b, exists := buckets[key]
		if !exists {
			b = &MonthlyRevenue{Month: created.Month().String()[:3], Year: key.year}
			buckets[key] = b
		}
		b.Revenue += r.TotalAmount
		b.BookingCount++
	}

	keys := make([]monthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	if len(keys) > MaxRevenueMonths {
		keys = keys[len(keys)-MaxRevenueMonths:]
	}

	series := make([]MonthlyRevenue, 0, len(keys))
	for _, k := range keys {
		series = append(series, *buckets[k])
	}
	return series
}
