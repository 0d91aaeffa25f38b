package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// InsertReminderLogs records reminder dispatch results in one batch
func (d *DB) InsertReminderLogs(ctx context.Context, logs []db.ReminderLog) error {
	if len(logs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range logs {
		batch.Queue(`
			INSERT INTO reminder_log (id, reminder_id, meal_id, duty, user_id, recipient, fire_at, dispatched_at, status, error)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, l.ID, l.ReminderID, l.MealID, l.Duty, l.UserID, l.Recipient,
			l.FireAt.UTC(), l.DispatchedAt.UTC(), string(l.Status), nullable(l.Error))
	}

	results := d.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range logs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert reminder log: %w", err)
		}
	}

	return nil
}
