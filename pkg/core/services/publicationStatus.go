package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/publication"
)

// PublicationStatusResult describes the gate at a point in time
type PublicationStatusResult struct {
	State  publication.State
	Cutoff time.Time
	Now    time.Time
}

// PublicationStatus reports whether the schedule is currently published
func PublicationStatus(
	ctx context.Context,
	database RuleSetReader,
	cfg *config.Config,
	logger *zap.Logger,
	now time.Time,
) (*PublicationStatusResult, error) {
	rules, err := loadRules(ctx, database, &cfg.DefaultRules, logger)
	if err != nil {
		return nil, err
	}

	gate := publication.NewGate(rules.PublicationTime, cfg.Location())
	result := &PublicationStatusResult{
		State:  gate.State(now),
		Cutoff: gate.Cutoff(now),
		Now:    now.In(gate.Location()),
	}

	logger.Debug("Publication status",
		zap.String("state", string(result.State)),
		zap.Time("cutoff", result.Cutoff))

	return result, nil
}
