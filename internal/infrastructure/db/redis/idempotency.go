package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyGuard maps Idempotency-Key headers to created task ids.
// Key format: task:idem:<key>
type IdempotencyGuard struct {
	client *redis.Client
}

// NewIdempotencyGuard creates a guard wrapping the given Redis client.
func NewIdempotencyGuard(client *redis.Client) *IdempotencyGuard {
	return &IdempotencyGuard{client: client}
}

// Seen returns the task id previously recorded for key, if any.
func (g *IdempotencyGuard) Seen(ctx context.Context, key string) (int64, bool, error) {
	val, err := g.client.Get(ctx, g.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency check: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency check: bad value %q: %w", val, err)
	}
	return id, true, nil
}

// Record remembers that key produced the task with the given id (expires
// after idempotencyTTL).
func (g *IdempotencyGuard) Record(ctx context.Context, key string, id int64) error {
	return g.client.Set(ctx, g.key(key), strconv.FormatInt(id, 10), idempotencyTTL).Err()
}

func (g *IdempotencyGuard) key(key string) string {
	return "task:idem:" + key
}
