package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyEntry is a cached HTTP response replayed for repeated
// requests carrying the same Idempotency-Key.
type IdempotencyEntry struct {
	Key            string    `json:"key"`
	ResponseBody   string    `json:"response_body"`
	ResponseStatus int       `json:"response_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// IdempotencyStore persists idempotency entries in Redis with a TTL.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore. A non-positive ttl
// defaults to 24 hours.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) key(k string) string {
	return "idempotency:" + k
}

// Get returns the stored entry, or nil when none exists.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*IdempotencyEntry, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("idempotency get: %w", err)
	}

	var entry IdempotencyEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &entry, nil
}

// Set stores an entry under the configured TTL.
func (s *IdempotencyStore) Set(ctx context.Context, entry *IdempotencyEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(entry.Key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency set: %w", err)
	}
	return nil
}
