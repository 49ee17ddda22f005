package refresher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/metrics"
	"github.com/samirwankhede/hotel-insights/internal/reservations"
	"github.com/samirwankhede/hotel-insights/internal/service/dashboard"
)

const (
	TriggerStartup = "startup"
	TriggerTick    = "tick"
	TriggerEvent   = "event"
	TriggerManual  = "manual"
)

// Dashboards recomputes the dashboard from a freshly fetched feed.
type Dashboards interface {
	Refresh(ctx context.Context) (*dashboard.Result, error)
}

// Publisher sends a keyed message to the alerts topic.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// AlertMailer delivers alert digests to operations staff.
type AlertMailer interface {
	SendAlertDigest(alerts []reservations.Alert, generatedAt time.Time) error
}

// AlertBatch is the message published when the alert set changes.
type AlertBatch struct {
	BatchID     string               `json:"batchId"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Stale       bool                 `json:"stale"`
	Alerts      []reservations.Alert `json:"alerts"`
}

type RefresherService struct {
	log        *zap.Logger
	dashboards Dashboards
	alerts     Publisher
	mailer     AlertMailer

	// mu serializes refreshes and guards the last published alert set.
	mu      sync.Mutex
	lastKey string
	seen    bool
}

// NewRefresherService wires the refresher. alerts and mailer may be nil.
func NewRefresherService(log *zap.Logger, dashboards Dashboards, alerts Publisher, mailer AlertMailer) *RefresherService {
	return &RefresherService{
		log:        log,
		dashboards: dashboards,
		alerts:     alerts,
		mailer:     mailer,
	}
}

// RefreshOnce refreshes the dashboard and fans out the alert set when it
// changed. Concurrent calls run one at a time. An alert set counts as sent
// only once fan-out succeeded, so a failed publish is retried next time.
func (s *RefresherService) RefreshOnce(ctx context.Context, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res, err := s.dashboards.Refresh(ctx)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RefreshRunsTotal.WithLabelValues(trigger, "error").Inc()
		s.log.Error("Dashboard refresh failed", zap.String("trigger", trigger), zap.Error(err))
		return err
	}
	metrics.RefreshRunsTotal.WithLabelValues(trigger, "ok").Inc()

	key := alertKey(res.Alerts)
	if s.seen && key == s.lastKey {
		return nil
	}
	s.log.Info("Alert set changed", zap.String("trigger", trigger), zap.Int("alerts", len(res.Alerts)))
	if err := s.fanOut(ctx, res); err != nil {
		return err
	}
	s.lastKey, s.seen = key, true
	return nil
}

// Run refreshes immediately and then on every tick until ctx is done.
func (s *RefresherService) Run(ctx context.Context, interval time.Duration) {
	s.log.Info("Starting periodic dashboard refresher", zap.Duration("interval", interval))
	_ = s.RefreshOnce(ctx, TriggerStartup)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Stopping periodic dashboard refresher")
			return
		case <-ticker.C:
			_ = s.RefreshOnce(ctx, TriggerTick)
		}
	}
}

func (s *RefresherService) fanOut(ctx context.Context, res *dashboard.Result) error {
	if s.alerts != nil {
		batch := AlertBatch{
			BatchID:     uuid.NewString(),
			GeneratedAt: res.GeneratedAt,
			Stale:       res.Stale,
			Alerts:      res.Alerts,
		}
		payload, err := json.Marshal(batch)
		if err != nil {
			return fmt.Errorf("failed to encode alert batch: %w", err)
		}
		if err := s.alerts.Publish(ctx, []byte(batch.BatchID), payload); err != nil {
			s.log.Error("Failed to publish alerts", zap.Error(err))
			return err
		}
		metrics.AlertsPublishedTotal.Inc()
	}

	if s.mailer != nil && needsAttention(res.Alerts) {
		if err := s.mailer.SendAlertDigest(res.Alerts, res.GeneratedAt); err != nil {
			return err
		}
	}
	return nil
}

// alertKey identifies an alert set by type, title and count. Messages are
// derived from those and left out.
func alertKey(alerts []reservations.Alert) string {
	var b strings.Builder
	for _, a := range alerts {
		count := -1
		if a.Count != nil {
			count = *a.Count
		}
		fmt.Fprintf(&b, "%s|%s|%d;", a.Type, a.Title, count)
	}
	return b.String()
}

func needsAttention(alerts []reservations.Alert) bool {
	for _, a := range alerts {
		if a.Type == reservations.AlertWarning || a.Type == reservations.AlertError {
			return true
		}
	}
	return false
}
