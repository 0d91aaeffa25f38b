package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/allocator"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/core/publication"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// GenerateDutiesStore defines the database operations needed for generating duties
type GenerateDutiesStore interface {
	GetUsers(ctx context.Context) ([]db.User, error)
	GetRuleSet(ctx context.Context) (*model.RuleSet, error)
	GetMealsBetween(ctx context.Context, from, to string) ([]db.Meal, error)
	UpdateMealAssignments(ctx context.Context, meals []db.Meal) error
}

// GenerateDutiesOptions controls a duty generation run
type GenerateDutiesOptions struct {
	// WeekStart selects the week. Zero means the week containing Now.
	WeekStart time.Time

	// Seed makes the run reproducible. Nil picks a random seed, which is reported back.
	Seed *uint64

	// Overwrite reassigns meals that already have a cook or washer
	Overwrite bool

	// Force ignores the publication cutoff
	Force bool

	// DryRun computes assignments without saving them
	DryRun bool

	Now time.Time
}

// GenerateDutiesResult contains the outcome of a generation run
type GenerateDutiesResult struct {
	WeekStart time.Time
	Seed      uint64
	Outcome   *allocator.AllocationOutcome
	// Untouched counts meals left alone because they already had assignments
	Untouched int
	Saved     bool
}

// GenerateDuties assigns cooks and washers to the week's meals and saves them.
// The week is locked for the duration so concurrent runs cannot interleave.
func GenerateDuties(
	ctx context.Context,
	database GenerateDutiesStore,
	locker WeekLocker,
	cfg *config.Config,
	logger *zap.Logger,
	opts GenerateDutiesOptions,
) (*GenerateDutiesResult, error) {
	weekStart := opts.WeekStart
	if weekStart.IsZero() {
		weekStart = normalizeWeekStart(opts.Now.In(cfg.Location()))
	} else {
		weekStart = normalizeWeekStart(weekStart)
	}

	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	logger.Debug("Starting generateDuties",
		zap.Time("week_start", weekStart),
		zap.Uint64("seed", seed),
		zap.Bool("overwrite", opts.Overwrite),
		zap.Bool("force", opts.Force),
		zap.Bool("dry_run", opts.DryRun))

	rules, err := loadRules(ctx, database, &cfg.DefaultRules, logger)
	if err != nil {
		return nil, err
	}

	if err := checkGate(rules, cfg, logger, opts.Now, opts.Force); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		unlock, err := lockWeeks(ctx, locker, cfg.WeekLockTTL, weekStart)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	users, err := loadUsers(ctx, database, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded roster", zap.Int("count", len(users)))

	from, to := weekBounds(weekStart)
	records, err := database.GetMealsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meals: %w", err)
	}
	meals, err := db.ToModelMeals(records)
	if err != nil {
		return nil, fmt.Errorf("failed to convert meals: %w", err)
	}
	logger.Debug("Found meals", zap.Int("count", len(meals)))

	if len(meals) == 0 {
		return nil, fmt.Errorf("no meals found for week %s - please define the week first", from)
	}

	result := &GenerateDutiesResult{WeekStart: weekStart, Seed: seed}

	targets := meals
	if !opts.Overwrite {
		targets = targets[:0:0]
		for _, m := range meals {
			if m.HasCook() || m.HasWasher() {
				result.Untouched++
				continue
			}
			targets = append(targets, m)
		}
		if result.Untouched > 0 {
			logger.Info("Leaving meals with existing assignments untouched", zap.Int("count", result.Untouched))
		}
	}

	outcome := allocator.Allocate(allocator.AllocationConfig{
		Meals: targets,
		Users: users,
		Rules: rules,
		Rand:  rand.New(rand.NewPCG(seed, seed)),
	})
	result.Outcome = outcome

	for _, u := range outcome.Unfilled {
		logger.Warn("No eligible candidate",
			zap.String("meal_id", u.MealID),
			zap.String("duty", string(u.Duty)))
	}
	for _, id := range outcome.SelfPairing() {
		logger.Warn("Cook also washing", zap.String("meal_id", id))
	}

	if opts.DryRun {
		logger.Info("Dry run, not saving assignments", zap.Int("filled", outcome.Filled()))
		return result, nil
	}

	if len(outcome.Meals) > 0 {
		updates := make([]db.Meal, len(outcome.Meals))
		for i, m := range outcome.Meals {
			updates[i] = db.FromModelMeal(m)
		}
		if err := database.UpdateMealAssignments(ctx, updates); err != nil {
			return nil, fmt.Errorf("failed to save assignments: %w", err)
		}
	}
	result.Saved = true

	logger.Info("Duties generated",
		zap.String("week_start", from),
		zap.Int("meals", len(outcome.Meals)),
		zap.Int("filled", outcome.Filled()),
		zap.Int("unfilled", len(outcome.Unfilled)),
		zap.Int("skipped", len(outcome.Skipped)),
		zap.Uint64("seed", seed))

	return result, nil
}

// checkGate refuses mutations once the schedule is published, unless forced
func checkGate(rules *model.RuleSet, cfg *config.Config, logger *zap.Logger, now time.Time, force bool) error {
	gate := publication.NewGate(rules.PublicationTime, cfg.Location())
	if !gate.IsPublished(now) {
		return nil
	}
	if force {
		logger.Warn("Schedule is published, continuing because force is set",
			zap.Time("cutoff", gate.Cutoff(now)))
		return nil
	}
	return fmt.Errorf("%w (cutoff %s)", ErrSchedulePublished, gate.Cutoff(now).Format(time.RFC1123))
}
