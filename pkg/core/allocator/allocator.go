package allocator

import (
	"math/rand/v2"
	"slices"

	"github.com/jakechorley/kitchen-rota/pkg/core/eligibility"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

// AllocationConfig contains the inputs for a kitchen duty allocation run
type AllocationConfig struct {
	// Meals to assign. Existing assignments on these meals are overwritten.
	Meals []model.Meal

	// Users is the full roster considered for every meal
	Users []model.User

	// Rules decides eligibility. Assumed valid.
	Rules *model.RuleSet

	// Rand picks among eligible candidates. Seed it for reproducible runs.
	Rand *rand.Rand
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// Meals are copies of the input meals in chronological order with duties filled where possible
	Meals []model.Meal

	// Skipped contains IDs of meals under the Sunday breakfast/lunch exception
	Skipped []string

	// Unfilled lists duties for which no eligible candidate existed
	Unfilled []UnfilledDuty
}

// Allocate assigns a cook and a washer to each meal independently.
// It is greedy: meals are never revisited and no rotation across meals is attempted.
// A duty with no eligible candidate is left empty and reported in the outcome.
func Allocate(config AllocationConfig) *AllocationOutcome {
	evaluator := eligibility.NewEvaluator(config.Rules)

	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	meals := slices.Clone(config.Meals)
	slices.SortStableFunc(meals, compareMeals)

	outcome := &AllocationOutcome{
		Meals:    meals,
		Skipped:  []string{},
		Unfilled: []UnfilledDuty{},
	}

	for i := range meals {
		meal := &meals[i]

		if meal.IsSundayMorning() {
			meal.CookID = ""
			meal.WasherID = ""
			outcome.Skipped = append(outcome.Skipped, meal.ID)
			continue
		}

		cooks := evaluator.EligibleCooks(config.Users, *meal)
		washers := evaluator.EligibleWashers(config.Users, *meal)

		meal.CookID = pickCook(rng, cooks)
		meal.WasherID = pickWasher(rng, washers, meal.CookID)

		if !meal.HasCook() {
			outcome.Unfilled = append(outcome.Unfilled, UnfilledDuty{MealID: meal.ID, Duty: DutyCook})
		}
		if !meal.HasWasher() {
			outcome.Unfilled = append(outcome.Unfilled, UnfilledDuty{MealID: meal.ID, Duty: DutyWasher})
		}
	}

	return outcome
}

// pickCook returns a uniformly random eligible cook, or "" when there is none
func pickCook(rng *rand.Rand, cooks []model.User) string {
	if len(cooks) == 0 {
		return ""
	}
	return cooks[rng.IntN(len(cooks))].ID
}

// pickWasher prefers someone other than the cook. If excluding the cook leaves
// nobody but at least two washers were eligible, it falls back to the full list,
// which can pair the cook with themself.
func pickWasher(rng *rand.Rand, washers []model.User, cookID string) string {
	if len(washers) == 0 {
		return ""
	}

	others := make([]model.User, 0, len(washers))
	for _, w := range washers {
		if w.ID != cookID {
			others = append(others, w)
		}
	}

	if len(others) > 0 {
		return others[rng.IntN(len(others))].ID
	}
	if len(washers) >= 2 {
		return washers[rng.IntN(len(washers))].ID
	}
	return ""
}

func compareMeals(a, b model.Meal) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	}
	return 0
}
