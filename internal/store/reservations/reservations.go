package reservations

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/store"
)

// DefaultWindow bounds how far back the feed reaches.
const DefaultWindow = 400 * 24 * time.Hour

// ReservationsRepository serves the reservation feed from the replicated table.
type ReservationsRepository struct {
	db     *store.DB
	log    *zap.Logger
	window time.Duration
}

func NewReservationsRepository(db *store.DB, log *zap.Logger, window time.Duration) *ReservationsRepository {
	if window <= 0 {
		window = DefaultWindow
	}
	return &ReservationsRepository{db: db, log: log, window: window}
}

// FetchReservations returns the rows created within the window as a JSON
// array of snake_case objects, the same shape the normalizer accepts.
func (r *ReservationsRepository) FetchReservations(ctx context.Context) ([]byte, error) {
	query := `
		SELECT COALESCE(json_agg(row_to_json(r) ORDER BY r.created_at DESC), '[]'::json)
		FROM (
			SELECT reservation_id, hotel_id, user_id, room_id, room_type_id,
			       to_char(start_date, 'YYYY-MM-DD') AS start_date,
			       to_char(end_date, 'YYYY-MM-DD') AS end_date,
			       guest_count, status, total_amount::float8 AS total_amount, currency,
			       special_requests, cancellation_reason, cancelled_at, cancelled_by_user_id,
			       created_at, updated_at
			FROM reservations
			WHERE created_at >= $1
		) r`

	since := time.Now().Add(-r.window)
	var payload []byte
	if err := r.db.Pool.QueryRow(ctx, query, since).Scan(&payload); err != nil {
		r.log.Error("Failed to load reservations", zap.Error(err))
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	return payload, nil
}
