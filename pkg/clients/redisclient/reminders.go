package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/jakechorley/kitchen-rota/pkg/core/reminders"
)

const (
	reminderQueueKey   = keyPrefix + "reminders:due"     // sorted set of reminder IDs scored by fire time
	reminderPayloadKey = keyPrefix + "reminders:payload" // hash of reminder ID -> JSON
)

// EnqueueReminders stores reminders durably until they are claimed.
// Re-enqueuing an existing ID overwrites it.
func (c *Client) EnqueueReminders(ctx context.Context, items []reminders.Reminder) error {
	if len(items) == 0 {
		return nil
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, r := range items {
			payload, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal reminder %s: %w", r.ID, err)
			}
			pipe.HSet(ctx, reminderPayloadKey, r.ID, payload)
			pipe.ZAdd(ctx, reminderQueueKey, redis.Z{Score: float64(r.FireAt.Unix()), Member: r.ID})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue reminders: %w", err)
	}

	return nil
}

// claimScript pops due reminder IDs and their payloads in one step, so a
// crashed dispatcher cannot leave a payload behind without its queue entry
var claimScript = redis.NewScript(`
local ids = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", 0, ARGV[2])
local payloads = {}
for _, id in ipairs(ids) do
	redis.call("ZREM", KEYS[1], id)
	local payload = redis.call("HGET", KEYS[2], id)
	redis.call("HDEL", KEYS[2], id)
	if payload then
		table.insert(payloads, payload)
	end
end
return payloads
`)

// ClaimDueReminders removes and returns up to limit reminders due at or before
// nowUnix. The claim is atomic, so concurrent dispatchers never receive the
// same reminder. Payloads that fail to decode are dropped and reported in the
// error alongside the reminders that did decode.
func (c *Client) ClaimDueReminders(ctx context.Context, nowUnix int64, limit int64) ([]reminders.Reminder, error) {
	payloads, err := claimScript.Run(ctx, c.rdb,
		[]string{reminderQueueKey, reminderPayloadKey},
		strconv.FormatInt(nowUnix, 10), limit,
	).StringSlice()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to claim due reminders: %w", err)
	}

	claimed := make([]reminders.Reminder, 0, len(payloads))
	var decodeErrs []error
	for _, payload := range payloads {
		var r reminders.Reminder
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			decodeErrs = append(decodeErrs, fmt.Errorf("failed to unmarshal reminder: %w", err))
			continue
		}
		claimed = append(claimed, r)
	}

	return claimed, errors.Join(decodeErrs...)
}

// PendingReminders returns the number of reminders waiting in the queue
func (c *Client) PendingReminders(ctx context.Context) (int64, error) {
	n, err := c.rdb.ZCard(ctx, reminderQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count pending reminders: %w", err)
	}
	return n, nil
}
