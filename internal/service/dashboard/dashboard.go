package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/metrics"
	"github.com/samirwankhede/hotel-insights/internal/reservations"
)

// DefaultRecentLimit is the recent-bookings length used when callers do not ask for one.
const DefaultRecentLimit = 10

// staleRetention is how long a snapshot is kept around as a fallback after it stops being fresh.
const staleRetention = 24 * time.Hour

var ErrFeedUnavailable = errors.New("reservation feed unavailable")

var errMalformedFeed = errors.New("reservation feed is not valid JSON")

// Source yields the raw reservation feed as a JSON document.
type Source interface {
	FetchReservations(ctx context.Context) ([]byte, error)
}

// SnapshotCache stores the last fetched feed.
type SnapshotCache interface {
	Save(ctx context.Context, payload []byte, fetchedAt time.Time, ttl time.Duration) error
	Load(ctx context.Context) ([]byte, time.Time, bool, error)
}

// Result is a dashboard together with the age of the feed it came from.
type Result struct {
	reservations.Dashboard
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale"`
}

type DashboardService struct {
	log    *zap.Logger
	source Source
	cache  SnapshotCache
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardService wires the service. cache may be nil, in which case every
// call goes to the source.
func NewDashboardService(log *zap.Logger, source Source, cache SnapshotCache, ttl time.Duration, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{log: log, source: source, cache: cache, ttl: ttl, loc: loc, now: time.Now}
}

// Snapshot is a raw feed payload and the time it was fetched.
type Snapshot struct {
	Payload   []byte
	FetchedAt time.Time
	Stale     bool
}

// Dashboard computes the dashboard from the freshest snapshot available.
func (s *DashboardService) Dashboard(ctx context.Context, recentLimit int) (*Result, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.build(snap, recentLimit), nil
}

// Refresh bypasses the cache, stores a new snapshot and computes from it.
func (s *DashboardService) Refresh(ctx context.Context) (*Result, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.build(snap, DefaultRecentLimit), nil
}

// Snapshot returns the cached feed while it is fresh, otherwise fetches a new
// one. When the source fails an expired cached feed is returned marked stale.
func (s *DashboardService) Snapshot(ctx context.Context) (Snapshot, error) {
	var cached Snapshot
	haveCached := false
	if s.cache != nil {
		payload, fetchedAt, ok, err := s.cache.Load(ctx)
		if err != nil {
			s.log.Warn("Failed to load feed snapshot", zap.Error(err))
		} else if ok {
			cached = Snapshot{Payload: payload, FetchedAt: fetchedAt}
			haveCached = true
			if s.now().Sub(fetchedAt) < s.ttl {
				return cached, nil
			}
		}
	}

	fresh, err := s.fetch(ctx)
	if err == nil {
		return fresh, nil
	}
	if haveCached {
		s.log.Warn("Serving stale feed snapshot", zap.Time("fetched_at", cached.FetchedAt), zap.Error(err))
		cached.Stale = true
		return cached, nil
	}
	return Snapshot{}, err
}

func (s *DashboardService) fetch(ctx context.Context) (Snapshot, error) {
	payload, err := s.source.FetchReservations(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	if !json.Valid(payload) {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrFeedUnavailable, errMalformedFeed)
	}
	fetchedAt := s.now()
	if s.cache != nil {
		if err := s.cache.Save(ctx, payload, fetchedAt, s.ttl+staleRetention); err != nil {
			s.log.Warn("Failed to store feed snapshot", zap.Error(err))
		}
	}
	return Snapshot{Payload: payload, FetchedAt: fetchedAt}, nil
}

func (s *DashboardService) build(snap Snapshot, recentLimit int) *Result {
	list, err := reservations.DecodeFeed(snap.Payload)
	if err != nil {
		s.log.Warn("Reservation feed is not valid JSON", zap.Error(err), zap.Int("bytes", len(snap.Payload)))
	}
	d := reservations.BuildDashboard(list, s.now().In(s.loc), recentLimit)
	metrics.RecordDashboard(d)
	return &Result{Dashboard: d, FetchedAt: snap.FetchedAt, Stale: snap.Stale}
}
