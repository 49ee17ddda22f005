package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/metrics"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 32 << 20

var ErrBodyTooLarge = fmt.Errorf("reservation feed exceeds %d bytes", maxBodyBytes)

// StatusError is returned when the reservation backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reservation feed returned %d: %s", e.StatusCode, e.Body)
}

// Client fetches the reservation listing from the booking backend.
type Client struct {
	log   *zap.Logger
	http  *http.Client
	url   string
	token string
}

func NewClient(log *zap.Logger, url, token string, timeout time.Duration) *Client {
	return &Client{
		log:   log,
		http:  &http.Client{Timeout: timeout},
		url:   url,
		token: token,
	}
}

// FetchReservations returns the raw JSON body of the listing endpoint.
func (c *Client) FetchReservations(ctx context.Context) ([]byte, error) {
	start := time.Now()
	body, err := c.fetch(ctx)
	metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FeedFetchesTotal.WithLabelValues("error").Inc()
		c.log.Warn("Reservation feed fetch failed", zap.String("url", c.url), zap.Error(err))
		return nil, err
	}
	metrics.FeedFetchesTotal.WithLabelValues("ok").Inc()
	c.log.Debug("Reservation feed fetched", zap.Int("bytes", len(body)), zap.Duration("took", time.Since(start)))
	return body, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request reservation feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read reservation feed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	if len(body) > maxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}
