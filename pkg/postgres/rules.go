package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

// GetRuleSet loads the saved rule set, or nil if none has been saved
func (d *DB) GetRuleSet(ctx context.Context) (*model.RuleSet, error) {
	var raw []byte
	err := d.pool.QueryRow(ctx, `SELECT rules FROM rule_set WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rule set: %w", err)
	}

	var rules model.RuleSet
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode rule set: %w", err)
	}
	return &rules, nil
}

// SaveRuleSet replaces the saved rule set
func (d *DB) SaveRuleSet(ctx context.Context, rules *model.RuleSet) error {
	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to encode rule set: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO rule_set (id, rules, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET rules = EXCLUDED.rules, updated_at = EXCLUDED.updated_at
	`, raw)
	if err != nil {
		return fmt.Errorf("failed to save rule set: %w", err)
	}
	return nil
}
