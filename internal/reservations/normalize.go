package reservations

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var knownStatuses = map[Status]struct{}{
	StatusPending:    {},
	StatusConfirmed:  {},
	StatusCancelled:  {},
	StatusCheckedIn:  {},
	StatusCheckedOut: {},
}

// Normalize coerces an arbitrary decoded JSON value into canonical
// reservations. Anything that is not a list yields an empty slice and
// entries that are not objects are skipped. It never fails.
func Normalize(raw any) []Reservation {
	items, ok := raw.([]any)
	if !ok {
		if typed, isMaps := raw.([]map[string]any); isMaps {
			items = make([]any, len(typed))
			for i := range typed {
				items[i] = typed[i]
			}
		} else {
			return []Reservation{}
		}
	}

	out := make([]Reservation, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, normalizeRecord(rec))
	}
	return out
}

// DecodeFeed parses a JSON payload and normalizes it. Besides a bare array,
// objects wrapping the list under "data" or "reservations" are accepted.
// On malformed JSON it returns an empty slice together with the decode error.
func DecodeFeed(data []byte) ([]Reservation, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []Reservation{}, err
	}
	if obj, ok := raw.(map[string]any); ok {
		for _, key := range []string{"data", "reservations"} {
			if list, ok := obj[key].([]any); ok {
				return Normalize(list), nil
			}
		}
	}
	return Normalize(raw), nil
}

func normalizeRecord(rec map[string]any) Reservation {
	createdAt := coerceString(lookup(rec, "createdAt", "created_at"), "")
	updatedAt := coerceString(lookup(rec, "updatedAt", "updated_at"), "")
	if strings.TrimSpace(updatedAt) == "" {
		updatedAt = createdAt
	}

	currency := strings.TrimSpace(coerceString(rec["currency"], ""))
	if currency == "" {
		currency = DefaultCurrency
	}

	return Reservation{
		ReservationID:      coerceString(lookup(rec, "reservationId", "reservation_id", "id"), ""),
		HotelID:            coerceString(lookup(rec, "hotelId", "hotel_id"), ""),
		UserID:             coerceString(lookup(rec, "userId", "user_id"), ""),
		RoomID:             coerceString(lookup(rec, "roomId", "room_id"), ""),
		RoomTypeID:         coerceString(lookup(rec, "roomTypeId", "room_type_id"), ""),
		StartDate:          coerceString(lookup(rec, "startDate", "start_date"), ""),
		EndDate:            coerceString(lookup(rec, "endDate", "end_date"), ""),
		GuestCount:         coerceCount(lookup(rec, "guestCount", "guest_count")),
		Status:             coerceStatus(rec["status"]),
		TotalAmount:        coerceAmount(lookup(rec, "totalAmount", "total_amount")),
		Currency:           currency,
		SpecialRequests:    optionalString(lookup(rec, "specialRequests", "special_requests")),
		CancellationReason: optionalString(lookup(rec, "cancellationReason", "cancellation_reason")),
		CancelledAt:        optionalString(lookup(rec, "cancelledAt", "cancelled_at")),
		CancelledByUserID:  optionalString(lookup(rec, "cancelledByUserId", "cancelled_by_user_id")),
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

// lookup returns the first non-nil value among keys.
func lookup(rec map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := rec[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func coerceString(v any, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fallback
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fallback
	}
}

func optionalString(v any) string {
	s := coerceString(v, "")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func coerceNumber(v any, fallback float64) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return fallback
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return fallback
		}
		f = parsed
	default:
		return fallback
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

func coerceAmount(v any) float64 {
	f := coerceNumber(v, 0)
	if f < 0 {
		return 0
	}
	return f
}

func coerceCount(v any) int {
	f := coerceNumber(v, 0)
	if f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func coerceStatus(v any) Status {
	s, ok := v.(string)
	if !ok {
		return StatusPending
	}
	status := Status(s)
	if _, known := knownStatuses[status]; !known {
		return StatusPending
	}
	return status
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp parses an ISO 8601 timestamp. Values without a zone are
// read as UTC.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDate parses an ISO 8601 date or timestamp and returns midnight in loc
// of the calendar date it names. Anything else is rejected.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	t, ok := parseTimestamp(s)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
}
