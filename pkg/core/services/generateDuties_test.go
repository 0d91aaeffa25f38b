package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/allocator"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

func weekMeals() []db.Meal {
	return []db.Meal{
		meal("sun-breakfast", "2025-01-05", "Breakfast"),
		meal("sun-dinner", "2025-01-05", "Dinner"),
		meal("mon-breakfast", "2025-01-06", "Breakfast"),
		meal("mon-dinner", "2025-01-06", "Dinner"),
		meal("sat-dinner", "2025-01-11", "Dinner"),
		// Next week, must not be touched
		meal("next-sun-dinner", "2025-01-12", "Dinner"),
	}
}

func seedPtr(seed uint64) *uint64 {
	return &seed
}

func TestGenerateDuties_AssignsWeek(t *testing.T) {
	store := newMockStore(weekMeals()...)
	store.users = staffUsers("alice", "bob", "carol", "dave")
	locker := &mockLocker{}

	result, err := GenerateDuties(context.Background(), store, locker, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Seed:      seedPtr(42),
		Now:       mondayMorning,
	})
	require.NoError(t, err)

	assert.True(t, result.Saved)
	assert.Equal(t, uint64(42), result.Seed)
	assert.Equal(t, []string{"sun-breakfast"}, result.Outcome.Skipped)
	assert.Empty(t, result.Outcome.Unfilled)

	for _, id := range []string{"sun-dinner", "mon-breakfast", "mon-dinner", "sat-dinner"} {
		m := store.meals[id]
		assert.NotEmpty(t, m.CookID, id)
		assert.NotEmpty(t, m.WasherID, id)
		assert.NotEqual(t, m.CookID, m.WasherID, id)
	}
	assert.Empty(t, store.meals["sun-breakfast"].CookID)
	assert.Empty(t, store.meals["next-sun-dinner"].CookID)

	assert.Equal(t, []string{"2025-01-05"}, locker.locked)
	assert.Equal(t, []string{"2025-01-05"}, locker.unlocked)
}

func TestGenerateDuties_SameSeedSameAssignments(t *testing.T) {
	run := func() map[string]db.Meal {
		store := newMockStore(weekMeals()...)
		store.users = staffUsers("alice", "bob", "carol", "dave", "erin")
		_, err := GenerateDuties(context.Background(), store, &mockLocker{}, testConfig(), zap.NewNop(), GenerateDutiesOptions{
			WeekStart: testWeek,
			Seed:      seedPtr(7),
			Now:       mondayMorning,
		})
		require.NoError(t, err)
		return store.meals
	}

	assert.Equal(t, run(), run())
}

func TestGenerateDuties_LeavesAssignedMealsWithoutOverwrite(t *testing.T) {
	meals := weekMeals()
	meals[3].CookID = "zoe"
	store := newMockStore(meals...)
	store.users = staffUsers("alice", "bob")

	result, err := GenerateDuties(context.Background(), store, &mockLocker{}, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Seed:      seedPtr(1),
		Now:       mondayMorning,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Untouched)
	assert.Equal(t, "zoe", store.meals["mon-dinner"].CookID)
	assert.Empty(t, store.meals["mon-dinner"].WasherID)
	assert.NotEmpty(t, store.meals["mon-breakfast"].CookID)
}

func TestGenerateDuties_OverwriteReassigns(t *testing.T) {
	meals := weekMeals()
	meals[3].CookID = "zoe"
	store := newMockStore(meals...)
	store.users = staffUsers("alice", "bob")

	result, err := GenerateDuties(context.Background(), store, &mockLocker{}, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Seed:      seedPtr(1),
		Overwrite: true,
		Now:       mondayMorning,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Untouched)
	assert.Contains(t, []string{"alice", "bob"}, store.meals["mon-dinner"].CookID)
}

func TestGenerateDuties_RefusedAfterPublication(t *testing.T) {
	store := newMockStore(weekMeals()...)
	store.users = staffUsers("alice", "bob")
	saturday := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)

	_, err := GenerateDuties(context.Background(), store, &mockLocker{}, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Now:       saturday,
	})
	assert.ErrorIs(t, err, ErrSchedulePublished)
	assert.Equal(t, 0, store.updates)

	result, err := GenerateDuties(context.Background(), store, &mockLocker{}, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Now:       saturday,
		Force:     true,
	})
	require.NoError(t, err)
	assert.True(t, result.Saved)
}

func TestGenerateDuties_WeekLocked(t *testing.T) {
	store := newMockStore(weekMeals()...)
	store.users = staffUsers("alice", "bob")
	locker := &mockLocker{held: map[string]bool{"2025-01-05": true}}

	_, err := GenerateDuties(context.Background(), store, locker, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Now:       mondayMorning,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errLockHeld))
	assert.Equal(t, 0, store.updates)
}

func TestGenerateDuties_DryRunSavesNothing(t *testing.T) {
	store := newMockStore(weekMeals()...)
	store.users = staffUsers("alice", "bob")
	locker := &mockLocker{}

	result, err := GenerateDuties(context.Background(), store, locker, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Now:       mondayMorning,
		DryRun:    true,
	})
	require.NoError(t, err)

	assert.False(t, result.Saved)
	assert.Positive(t, result.Outcome.Filled())
	assert.Equal(t, 0, store.updates)
	assert.Empty(t, locker.locked)
	assert.Empty(t, store.meals["mon-dinner"].CookID)
}

func TestGenerateDuties_NoMeals(t *testing.T) {
	store := newMockStore()
	store.users = staffUsers("alice")

	_, err := GenerateDuties(context.Background(), store, &mockLocker{}, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Now:       mondayMorning,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "define the week first")
}

func TestGenerateDuties_SavedRulesTakePrecedence(t *testing.T) {
	store := newMockStore(weekMeals()...)
	store.users = staffUsers("alice", "bob")
	store.rules = &model.RuleSet{
		ExcludeRolesCooking: []model.Role{model.RoleStaff},
		PublicationTime:     model.PublicationTime{Day: time.Saturday, Hour: 23, Minute: 59},
	}

	result, err := GenerateDuties(context.Background(), store, &mockLocker{}, testConfig(), zap.NewNop(), GenerateDutiesOptions{
		WeekStart: testWeek,
		Now:       mondayMorning,
	})
	require.NoError(t, err)

	var cookGaps int
	for _, u := range result.Outcome.Unfilled {
		if u.Duty == allocator.DutyCook {
			cookGaps++
		}
	}
	assert.Equal(t, 4, cookGaps)
	assert.Empty(t, store.meals["mon-dinner"].CookID)
	assert.NotEmpty(t, store.meals["mon-dinner"].WasherID)
}
