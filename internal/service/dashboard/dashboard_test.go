package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	payload []byte
	err     error
	calls   int
}

func (f *fakeSource) FetchReservations(ctx context.Context) ([]byte, error) {
	f.calls++
	return f.payload, f.err
}

type memoryCache struct {
	payload   []byte
	fetchedAt time.Time
	ttl       time.Duration
	ok        bool
	loadErr   error
}

func (m *memoryCache) Save(ctx context.Context, payload []byte, fetchedAt time.Time, ttl time.Duration) error {
	m.payload, m.fetchedAt, m.ttl, m.ok = payload, fetchedAt, ttl, true
	return nil
}

func (m *memoryCache) Load(ctx context.Context) ([]byte, time.Time, bool, error) {
	return m.payload, m.fetchedAt, m.ok, m.loadErr
}

var now = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

const feed = `[
	{"reservationId":"r1","status":"CONFIRMED","totalAmount":100,"createdAt":"2025-03-01T10:00:00Z","startDate":"2025-03-12"},
	{"reservationId":"r2","status":"PENDING","totalAmount":50,"createdAt":"2025-03-02T10:00:00Z"}
]`

func newService(src Source, cache SnapshotCache) *DashboardService {
	svc := NewDashboardService(zap.NewNop(), src, cache, time.Minute, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboardFetchesAndCaches(t *testing.T) {
	src := &fakeSource{payload: []byte(feed)}
	cache := &memoryCache{}
	svc := newService(src, cache)

	res, err := svc.Dashboard(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Equal(t, 2, res.Stats.TotalBookings)
	assert.Len(t, res.RecentBookings, 2)
	assert.Equal(t, "r2", res.RecentBookings[0].ReservationID)
	assert.True(t, cache.ok)
	assert.Equal(t, now, cache.fetchedAt)
	assert.True(t, cache.ttl > time.Minute)

	_, err = svc.Dashboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls, "fresh snapshot should be served from cache")
}

func TestDashboardRefetchesExpiredSnapshot(t *testing.T) {
	src := &fakeSource{payload: []byte(feed)}
	cache := &memoryCache{payload: []byte(`[]`), fetchedAt: now.Add(-time.Hour), ok: true}
	svc := newService(src, cache)

	res, err := svc.Dashboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 2, res.Stats.TotalBookings)
	assert.False(t, res.Stale)
}

func TestDashboardServesStaleOnFeedFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	cache := &memoryCache{payload: []byte(feed), fetchedAt: now.Add(-time.Hour), ok: true}
	svc := newService(src, cache)

	res, err := svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, now.Add(-time.Hour), res.FetchedAt)
	assert.Len(t, res.RecentBookings, 1)
}

func TestDashboardFeedUnavailable(t *testing.T) {
	src := &fakeSource{err: errors.New("timeout")}
	svc := newService(src, &memoryCache{loadErr: errors.New("redis down")})

	_, err := svc.Dashboard(context.Background(), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestDashboardMalformedFeedIsUnavailable(t *testing.T) {
	svc := newService(&fakeSource{payload: []byte(`[{"reservationId":"r1"`)}, nil)

	_, err := svc.Dashboard(context.Background(), 10)
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestDashboardMalformedFeedFallsBackToStale(t *testing.T) {
	cache := &memoryCache{payload: []byte(feed), fetchedAt: now.Add(-time.Hour), ok: true}
	svc := newService(&fakeSource{payload: []byte(`{not json`)}, cache)

	res, err := svc.Dashboard(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, 2, res.Stats.TotalBookings)
	assert.JSONEq(t, feed, string(cache.payload), "malformed feed must not replace the snapshot")
}

func TestRefreshRejectsMalformedFeed(t *testing.T) {
	cache := &memoryCache{}
	svc := newService(&fakeSource{payload: []byte(`[{"reservationId":`)}, cache)

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrFeedUnavailable)
	assert.False(t, cache.ok)
}

func TestRefreshBypassesCache(t *testing.T) {
	src := &fakeSource{payload: []byte(feed)}
	cache := &memoryCache{payload: []byte(`[]`), fetchedAt: now, ok: true}
	svc := newService(src, cache)

	res, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 2, res.Stats.TotalBookings)
	assert.JSONEq(t, feed, string(cache.payload))
}
