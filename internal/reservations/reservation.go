package reservations

import "time"

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCancelled  Status = "CANCELLED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCheckedIn, StatusCheckedOut}

const DefaultCurrency = "USD"

// Reservation is the canonical form of a reservation record. Optional fields
// use the empty string for "absent".
type Reservation struct {
	ReservationID      string  `json:"reservationId"`
	HotelID            string  `json:"hotelId"`
	UserID             string  `json:"userId"`
	RoomID             string  `json:"roomId"`
	RoomTypeID         string  `json:"roomTypeId"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	GuestCount         int     `json:"guestCount"`
	Status             Status  `json:"status"`
	TotalAmount        float64 `json:"totalAmount"`
	Currency           string  `json:"currency"`
	SpecialRequests    string  `json:"specialRequests,omitempty"`
	CancellationReason string  `json:"cancellationReason,omitempty"`
	CancelledAt        string  `json:"cancelledAt,omitempty"`
	CancelledByUserID  string  `json:"cancelledByUserId,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// Created returns the parsed creation time.
func (r Reservation) Created() (time.Time, bool) {
	return parseTimestamp(r.CreatedAt)
}

// AlertType classifies an alert for display.
type AlertType string

const (
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
	AlertError   AlertType = "error"
	AlertSuccess AlertType = "success"
)

// Alert is a human-readable operational notice.
type Alert struct {
	Type    AlertType `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Count   *int      `json:"count,omitempty"`
}

// BookingStats summarizes reservations by status and revenue.
type BookingStats struct {
	TotalBookings       int            `json:"totalBookings"`
	TotalRevenue        float64        `json:"totalRevenue"`
	AverageBookingValue float64        `json:"averageBookingValue"`
	BookingsByStatus    map[Status]int `json:"bookingsByStatus"`
	Confirmed           int            `json:"confirmedBookings"`
	Pending             int            `json:"pendingBookings"`
	Cancelled           int            `json:"cancelledBookings"`
	CheckedIn           int            `json:"checkedInBookings"`
	CheckedOut          int            `json:"checkedOutBookings"`
}

// MonthlyRevenue is one point of the revenue series.
type MonthlyRevenue struct {
	Month        string  `json:"month"`
	Year         int     `json:"year"`
	Revenue      float64 `json:"revenue"`
	BookingCount int     `json:"bookingCount"`
}

// OperationalMetrics are front-desk figures for the current day.
type OperationalMetrics struct {
	ArrivalsToday     int     `json:"arrivalsToday"`
	DeparturesToday   int     `json:"departuresToday"`
	InHouseGuests     int     `json:"inHouseGuests"`
	AverageStayNights float64 `json:"averageStayNights"`
	CancellationRate  float64 `json:"cancellationRate"`
}
