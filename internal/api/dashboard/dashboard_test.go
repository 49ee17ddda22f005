package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	jwtMiddleware "github.com/samirwankhede/hotel-insights/internal/middleware"
	"github.com/samirwankhede/hotel-insights/internal/reservations"
	dashboardService "github.com/samirwankhede/hotel-insights/internal/service/dashboard"
)

const secret = "test-secret"

var now = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

type stubProvider struct {
	err       error
	lastLimit int
	refreshed bool
}

func (s *stubProvider) Dashboard(ctx context.Context, recentLimit int) (*dashboardService.Result, error) {
	s.lastLimit = recentLimit
	if s.err != nil {
		return nil, s.err
	}
	list := make([]reservations.Reservation, 0, 150)
	for i := 0; i < 150; i++ {
		list = append(list, reservations.Reservation{
			ReservationID: fmt.Sprintf("r-%d", i),
			Status:        reservations.StatusConfirmed,
			TotalAmount:   10,
			CreatedAt:     now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
		})
	}
	return &dashboardService.Result{Dashboard: reservations.BuildDashboard(list, now, recentLimit), FetchedAt: now, Stale: true}, nil
}

func (s *stubProvider) Refresh(ctx context.Context) (*dashboardService.Result, error) {
	s.refreshed = true
	return s.Dashboard(ctx, dashboardService.DefaultRecentLimit)
}

func newRouter(svc Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewDashboardHandler(zap.NewNop(), svc, secret, nil).Register(r)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	token, err := jwtMiddleware.Issue(secret, "u-1", admin, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDashboardLimit(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantLimit int
	}{
		{name: "default", query: "", wantCode: http.StatusOK, wantLimit: 10},
		{name: "explicit", query: "?limit=3", wantCode: http.StatusOK, wantLimit: 3},
		{name: "negative_clamped", query: "?limit=-4", wantCode: http.StatusOK, wantLimit: 0},
		{name: "large_clamped", query: "?limit=1000", wantCode: http.StatusOK, wantLimit: 100},
		{name: "not_a_number", query: "?limit=ten", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubProvider{}
			w := do(t, newRouter(svc), http.MethodGet, "/admin/dashboard"+tt.query, true)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantLimit, svc.lastLimit)

			var body struct {
				RecentBookings []reservations.Reservation `json:"recentBookings"`
				Stale          bool                       `json:"stale"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Len(t, body.RecentBookings, tt.wantLimit)
			assert.True(t, body.Stale)
		})
	}
}

func TestDashboardSections(t *testing.T) {
	r := newRouter(&stubProvider{})
	for _, path := range []string{"stats", "revenue", "alerts", "operations", "recent?limit=2"} {
		w := do(t, r, http.MethodGet, "/admin/dashboard/"+path, true)
		assert.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "data", path)
		assert.Contains(t, body, "stale", path)
	}
}

func TestDashboardRequiresAdmin(t *testing.T) {
	r := newRouter(&stubProvider{})
	w := do(t, r, http.MethodGet, "/admin/dashboard", false)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardFeedUnavailable(t *testing.T) {
	err := fmt.Errorf("%w: connection refused", dashboardService.ErrFeedUnavailable)
	w := do(t, newRouter(&stubProvider{err: err}), http.MethodGet, "/admin/dashboard/stats", true)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(t, newRouter(&stubProvider{err: errors.New("boom")}), http.MethodGet, "/admin/dashboard", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRefresh(t *testing.T) {
	svc := &stubProvider{}
	w := do(t, newRouter(svc), http.MethodPost, "/admin/dashboard/refresh", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.refreshed)
}
