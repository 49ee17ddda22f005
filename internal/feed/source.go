package feed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/config"
	"github.com/samirwankhede/hotel-insights/internal/store"
	storeReservations "github.com/samirwankhede/hotel-insights/internal/store/reservations"
)

// Source yields the raw reservation listing as JSON.
type Source interface {
	FetchReservations(ctx context.Context) ([]byte, error)
}

var ErrNoDatabase = errors.New("postgres feed source selected but no database connection")

// NewSource picks the upstream HTTP client or the Postgres repository
// according to FEED_SOURCE. db is only needed for the postgres source.
func NewSource(log *zap.Logger, cfg config.Config, db *store.DB) (Source, error) {
	switch cfg.FeedSource {
	case config.FeedSourceHTTP:
		return NewClient(log, cfg.FeedURL, cfg.FeedToken, cfg.FeedTimeout), nil
	case config.FeedSourcePostgres:
		if db == nil {
			return nil, ErrNoDatabase
		}
		return storeReservations.NewReservationsRepository(db, log, storeReservations.DefaultWindow), nil
	default:
		return nil, fmt.Errorf("unknown feed source %q", cfg.FeedSource)
	}
}
