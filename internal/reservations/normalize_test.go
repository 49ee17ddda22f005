package reservations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNonListInputs(t *testing.T) {
	inputs := map[string]any{
		"nil":    nil,
		"string": "reservations",
		"number": 42.0,
		"object": map[string]any{"status": "CONFIRMED"},
		"bool":   true,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got := Normalize(in)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestNormalizeSkipsNonObjectEntries(t *testing.T) {
	got := Normalize([]any{nil, "x", 3.0, map[string]any{"reservationId": "r-1"}})
	require.Len(t, got, 1)
	assert.Equal(t, "r-1", got[0].ReservationID)
}

func TestNormalizeDefaults(t *testing.T) {
	got := Normalize([]any{map[string]any{}})
	require.Len(t, got, 1)
	r := got[0]

	assert.Equal(t, "", r.ReservationID)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, DefaultCurrency, r.Currency)
	assert.Zero(t, r.TotalAmount)
	assert.Zero(t, r.GuestCount)
	assert.Equal(t, "", r.SpecialRequests)
	assert.Equal(t, "", r.UpdatedAt)
}

func TestNormalizeFieldCoercion(t *testing.T) {
	got := Normalize([]any{map[string]any{
		"reservationId":      nil,
		"hotelId":            17.0,
		"userId":             "u-1",
		"roomId":             "r-9",
		"roomTypeId":         map[string]any{"id": "nested"},
		"startDate":          "2025-02-01",
		"endDate":            "2025-02-04",
		"guestCount":         "3",
		"status":             "CHECKED_IN",
		"totalAmount":        "249.50",
		"currency":           "   ",
		"specialRequests":    "  ",
		"cancellationReason": "",
		"cancelledAt":        nil,
		"createdAt":          "2025-01-10T08:00:00Z",
	}})
	require.Len(t, got, 1)
	r := got[0]

	assert.Equal(t, "", r.ReservationID, "null must not become the text null")
	assert.Equal(t, "17", r.HotelID)
	assert.Equal(t, "", r.RoomTypeID)
	assert.Equal(t, 3, r.GuestCount)
	assert.Equal(t, StatusCheckedIn, r.Status)
	assert.InDelta(t, 249.5, r.TotalAmount, 1e-9)
	assert.Equal(t, "USD", r.Currency)
	assert.Equal(t, "", r.SpecialRequests)
	assert.Equal(t, "", r.CancelledAt)
	assert.Equal(t, "2025-01-10T08:00:00Z", r.UpdatedAt, "updatedAt falls back to createdAt")
}

func TestNormalizeClampsNumbers(t *testing.T) {
	tests := []struct {
		name       string
		amount     any
		guests     any
		wantAmount float64
		wantGuests int
	}{
		{name: "negative", amount: -10.0, guests: -2.0, wantAmount: 0, wantGuests: 0},
		{name: "nan", amount: math.NaN(), guests: math.Inf(1), wantAmount: 0, wantGuests: 0},
		{name: "garbage_string", amount: "ten", guests: "two", wantAmount: 0, wantGuests: 0},
		{name: "infinite_string", amount: "Inf", guests: "NaN", wantAmount: 0, wantGuests: 0},
		{name: "wrong_type", amount: []any{1.0}, guests: true, wantAmount: 0, wantGuests: 0},
		{name: "valid", amount: 99.99, guests: 2.0, wantAmount: 99.99, wantGuests: 2},
		{name: "fractional_guests", amount: 1.0, guests: 2.7, wantAmount: 1, wantGuests: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]any{map[string]any{"totalAmount": tt.amount, "guestCount": tt.guests}})
			require.Len(t, got, 1)
			assert.InDelta(t, tt.wantAmount, got[0].TotalAmount, 1e-9)
			assert.Equal(t, tt.wantGuests, got[0].GuestCount)
		})
	}
}

func TestNormalizeStatusWhitelist(t *testing.T) {
	tests := map[any]Status{
		"CONFIRMED":   StatusConfirmed,
		"CHECKED_OUT": StatusCheckedOut,
		"cancelled":   StatusPending,
		" CONFIRMED ": StatusPending,
		"Checked_In":  StatusPending,
		"BOOKED":      StatusPending,
		"":            StatusPending,
		7.0:           StatusPending,
	}
	for in, want := range tests {
		got := Normalize([]any{map[string]any{"status": in}})
		require.Len(t, got, 1)
		assert.Equal(t, want, got[0].Status, "status %v", in)
	}
}

func TestNormalizeSnakeCaseAliases(t *testing.T) {
	got := Normalize([]any{map[string]any{
		"id":           "abc",
		"total_amount": 120.0,
		"created_at":   "2025-03-01T00:00:00Z",
		"cancelled_at": "2025-03-02T00:00:00Z",
		"status":       "CANCELLED",
	}})
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].ReservationID)
	assert.InDelta(t, 120.0, got[0].TotalAmount, 1e-9)
	assert.Equal(t, "2025-03-01T00:00:00Z", got[0].CreatedAt)
	assert.Equal(t, "2025-03-02T00:00:00Z", got[0].CancelledAt)
}

func TestDecodeFeed(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		got, err := DecodeFeed([]byte(`[{"reservationId":"a","status":"CONFIRMED"}]`))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, StatusConfirmed, got[0].Status)
	})
	t.Run("wrapped", func(t *testing.T) {
		got, err := DecodeFeed([]byte(`{"data":[{"reservationId":"a"},{"reservationId":"b"}]}`))
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
	t.Run("object_without_list", func(t *testing.T) {
		got, err := DecodeFeed([]byte(`{"total":3}`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("malformed", func(t *testing.T) {
		got, err := DecodeFeed([]byte(`[{"reservationId":`))
		require.Error(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestNormalizeStatusOutsideWhitelistKeepsRevenue(t *testing.T) {
	got := Normalize([]any{
		map[string]any{"status": "cancelled", "totalAmount": 80.0},
		map[string]any{"status": " Confirmed ", "totalAmount": 20.0},
	})
	require.Len(t, got, 2)
	assert.Equal(t, StatusPending, got[0].Status)
	assert.Equal(t, StatusPending, got[1].Status)
	assert.InDelta(t, 100.0, Summarize(got).TotalRevenue, 1e-9)
}
