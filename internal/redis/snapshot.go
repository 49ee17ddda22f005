package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const snapshotKey = "insights:feed:snapshot"

// SnapshotStore keeps the latest raw reservation feed in Redis so every API
// replica computes from the same snapshot.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

type snapshotEnvelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

func NewSnapshotStore(addr string) *SnapshotStore {
	c := redis.NewClient(&redis.Options{Addr: addr})
	return &SnapshotStore{client: c, key: snapshotKey}
}

// NewSnapshotStoreWithClient shares an existing client, e.g. with the rate limiter.
func NewSnapshotStoreWithClient(c *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: c, key: snapshotKey}
}

// Save stores payload, which must be valid JSON. A ttl of zero keeps it forever.
func (s *SnapshotStore) Save(ctx context.Context, payload []byte, fetchedAt time.Time, ttl time.Duration) error {
	if !json.Valid(payload) {
		return errors.New("snapshot payload is not valid JSON")
	}
	b, err := json.Marshal(snapshotEnvelope{FetchedAt: fetchedAt.UTC(), Payload: payload})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, b, ttl).Err()
}

// Load returns ok=false when no snapshot is stored.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, time.Time, bool, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	var env snapshotEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return env.Payload, env.FetchedAt, true, nil
}

// GetClient returns the underlying Redis client for rate limiting.
func (s *SnapshotStore) GetClient() *redis.Client {
	return s.client
}

func (s *SnapshotStore) Close() { _ = s.client.Close() }
