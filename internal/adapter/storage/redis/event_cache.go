package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// EventCache implements ports.EventDedupCache using Redis. It is the fast
// path in front of the webhook_events uniqueness constraint; losing a key
// only costs a database round trip.
type EventCache struct {
	client *goredis.Client
	prefix string
}

// NewEventCache creates a new Redis-backed webhook event dedup cache.
func NewEventCache(client *goredis.Client) *EventCache {
	return &EventCache{
		client: client,
		prefix: "webhook_event:",
	}
}

// Seen reports whether this provider event was already processed.
func (c *EventCache) Seen(ctx context.Context, provider, eventID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(provider, eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis event seen: %w", err)
	}
	return n > 0, nil
}

// MarkSeen records the event id with a TTL.
func (c *EventCache) MarkSeen(ctx context.Context, provider, eventID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(provider, eventID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis event mark seen: %w", err)
	}
	return nil
}

func (c *EventCache) key(provider, eventID string) string {
	return c.prefix + provider + ":" + eventID
}
