package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter in Redis, keyed per user and action.
// INCR creates the key at 1; the first hit in a window attaches the TTL.
type Limiter struct {
	rdb *redis.Client
}

func NewLimiter(rdb *redis.Client) *Limiter { return &Limiter{rdb: rdb} }

func limitKey(action, id string) string { return fmt.Sprintf("rfb:rl:%s:%s", action, id) }

// Allow consumes one unit and reports whether the caller is still under
// limit for the current window.
func (l *Limiter) Allow(ctx context.Context, action, id string, limit int, window time.Duration) (bool, error) {
	k := limitKey(action, id)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Retry reports how long until the current window resets.
func (l *Limiter) Retry(ctx context.Context, action, id string) (time.Duration, error) {
	return l.rdb.TTL(ctx, limitKey(action, id)).Result()
}
