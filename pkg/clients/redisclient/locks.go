package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const weekLockPrefix = keyPrefix + "lock:week:"

// ErrLockHeld is returned when another operator is already working on the week
var ErrLockHeld = errors.New("week is locked by another operation")

// releaseScript deletes the lock only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockWeek takes an exclusive lock on a week's meals, identified by its
// start date (YYYY-MM-DD). The lock expires after ttl if never released.
func (c *Client) LockWeek(ctx context.Context, week string, ttl time.Duration) (func(), error) {
	key := weekLockPrefix + week
	token := uuid.New().String()

	ok, err := c.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for week %s: %w", week, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLockHeld, week)
	}

	unlock := func() {
		// Use a fresh context so a cancelled caller still releases the lock
		releaseScript.Run(context.Background(), c.rdb, []string{key}, token)
	}
	return unlock, nil
}
