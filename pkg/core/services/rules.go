package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

// RuleSetStore defines the database operations needed for managing the rule set
type RuleSetStore interface {
	RuleSetReader
	SaveRuleSet(ctx context.Context, rules *model.RuleSet) error
}

// SetRules validates and saves a rule set. Invalid rule sets are never stored.
func SetRules(ctx context.Context, database RuleSetStore, logger *zap.Logger, rules *model.RuleSet) error {
	if rules == nil {
		return fmt.Errorf("%w: rule set is empty", model.ErrInvalidRuleSet)
	}
	if err := rules.Validate(); err != nil {
		return err
	}

	if err := database.SaveRuleSet(ctx, rules); err != nil {
		return fmt.Errorf("failed to save rule set: %w", err)
	}

	logger.Info("Rule set saved",
		zap.Int("cooking_exclusions", len(rules.ExcludeRolesCooking)),
		zap.Int("washing_exclusions", len(rules.ExcludeRolesWashing)),
		zap.Int("day_restrictions", len(rules.DayRestrictions)))
	return nil
}

// GetRules returns the rule set in force and whether it came from the database
func GetRules(ctx context.Context, database RuleSetReader, cfg *config.Config, logger *zap.Logger) (*model.RuleSet, bool, error) {
	saved, err := database.GetRuleSet(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch rule set: %w", err)
	}
	if saved != nil {
		return saved, true, nil
	}

	logger.Debug("No saved rule set, using configured defaults")
	return &cfg.DefaultRules, false, nil
}
