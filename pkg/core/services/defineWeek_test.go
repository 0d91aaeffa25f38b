package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/internal/config"
	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

func TestDefineWeek_CreatesMealsFromTemplates(t *testing.T) {
	store := newMockStore()

	result, err := DefineWeek(context.Background(), store, testConfig(), zap.NewNop(), testWeek, mondayMorning)
	require.NoError(t, err)

	// 7 breakfasts and 6 dinners
	assert.Len(t, result.Created, 13)
	assert.Equal(t, 0, result.Existing)
	assert.Len(t, store.meals, 13)

	weekEnd := testWeek.AddDate(0, 0, 7)
	for i, m := range result.Created {
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.Date.Before(testWeek), "meal %d before week", i)
		assert.True(t, m.Date.Before(weekEnd), "meal %d after week", i)
		if i > 0 {
			assert.False(t, m.Before(result.Created[i-1]), "meals out of order at %d", i)
		}
		if m.Type == model.Dinner {
			assert.NotEqual(t, time.Sunday, m.Date.Weekday())
			assert.Equal(t, "Community dinner", m.Name)
			assert.Equal(t, model.ClockTime{Hour: 17, Minute: 0}, m.PrepTime)
		}
	}

	first := result.Created[0]
	assert.Equal(t, model.Breakfast, first.Type)
	assert.Equal(t, testWeek, first.Date)
}

func TestDefineWeek_SkipsExistingMeals(t *testing.T) {
	store := newMockStore(meal("existing", "2025-01-06", "Breakfast"))

	result, err := DefineWeek(context.Background(), store, testConfig(), zap.NewNop(), testWeek, mondayMorning)
	require.NoError(t, err)

	assert.Len(t, result.Created, 12)
	assert.Equal(t, 1, result.Existing)
	assert.Len(t, store.meals, 13)
	assert.Contains(t, store.meals, "existing")
}

func TestDefineWeek_RunningTwiceCreatesNothing(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()

	_, err := DefineWeek(ctx, store, testConfig(), zap.NewNop(), testWeek, mondayMorning)
	require.NoError(t, err)

	result, err := DefineWeek(ctx, store, testConfig(), zap.NewNop(), testWeek, mondayMorning)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, 13, result.Existing)
	assert.Len(t, store.meals, 13)
}

func TestDefineWeek_SnapsToWeekStart(t *testing.T) {
	store := newMockStore()
	wednesday := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	result, err := DefineWeek(context.Background(), store, testConfig(), zap.NewNop(), wednesday, mondayMorning)
	require.NoError(t, err)
	assert.Equal(t, testWeek, result.WeekStart)
}

func TestDefineWeek_DefaultsToNextWeek(t *testing.T) {
	store := newMockStore()

	result, err := DefineWeek(context.Background(), store, testConfig(), zap.NewNop(), time.Time{}, mondayMorning)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), result.WeekStart)
}

func TestDefineWeek_NoTemplates(t *testing.T) {
	cfg := testConfig()
	cfg.MealTemplates = nil

	_, err := DefineWeek(context.Background(), newMockStore(), cfg, zap.NewNop(), testWeek, mondayMorning)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no meal templates")
}

func TestExpandTemplates_InvalidRRule(t *testing.T) {
	_, err := expandTemplates([]config.MealTemplate{
		{Type: "Lunch", RRule: "NOT_A_RULE", PrepTime: "11:00", ServeTime: "12:30"},
	}, testWeek)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse rrule")
}
