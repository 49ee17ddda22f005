package reservations

import (
	"sort"
	"time"
)

var epoch = time.Unix(0, 0).UTC()

// Recent returns up to limit reservations, newest first by createdAt.
// Unparsable creation times sort as the Unix epoch. A negative limit yields
// an empty result. The input slice is not modified.
func Recent(list []Reservation, limit int) []Reservation {
	if limit <= 0 || len(list) == 0 {
		return []Reservation{}
	}

	type keyed struct {
		at time.Time
		r  Reservation
	}
	sorted := make([]keyed, len(list))
	for i, r := range list {
		at, ok := r.Created()
		if !ok {
			at = epoch
		}
		sorted[i] = keyed{at: at, r: r}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].at.After(sorted[j].at)
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}
	out := make([]Reservation, limit)
	for i := 0; i < limit; i++ {
		out[i] = sorted[i].r
	}
	return out
}
