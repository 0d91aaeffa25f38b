package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/core/publication"
)

func TestSetRules_RejectsInvalid(t *testing.T) {
	store := newMockStore()

	err := SetRules(context.Background(), store, zap.NewNop(), &model.RuleSet{
		PublicationTime: model.PublicationTime{Day: time.Friday, Hour: 24},
	})
	assert.ErrorIs(t, err, model.ErrInvalidRuleSet)
	assert.Nil(t, store.rules)

	err = SetRules(context.Background(), store, zap.NewNop(), nil)
	assert.ErrorIs(t, err, model.ErrInvalidRuleSet)
}

func TestSetRules_GetRules(t *testing.T) {
	store := newMockStore()
	cfg := testConfig()
	ctx := context.Background()

	rules, saved, err := GetRules(ctx, store, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, &cfg.DefaultRules, rules)

	custom := &model.RuleSet{
		ExcludeRolesWashing: []model.Role{model.RoleAdmin},
		DayRestrictions: map[model.Role]model.DayRestriction{
			model.RoleDTS: {ExcludeDays: []time.Weekday{time.Monday}},
		},
		PublicationTime: model.PublicationTime{Day: time.Thursday, Hour: 12},
	}
	require.NoError(t, SetRules(ctx, store, zap.NewNop(), custom))

	rules, saved, err = GetRules(ctx, store, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, custom, rules)
}

func TestPublicationStatus(t *testing.T) {
	store := newMockStore()
	cfg := testConfig()

	result, err := PublicationStatus(context.Background(), store, cfg, zap.NewNop(), mondayMorning)
	require.NoError(t, err)
	assert.Equal(t, publication.StateOpen, result.State)
	assert.Equal(t, time.Date(2025, 1, 10, 17, 45, 0, 0, time.UTC), result.Cutoff)

	result, err = PublicationStatus(context.Background(), store, cfg, zap.NewNop(), time.Date(2025, 1, 10, 17, 45, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, publication.StatePublished, result.State)
}

func TestPublicationStatus_UsesConfiguredTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "America/New_York"

	// 22:50 UTC on Friday is 17:50 in New York, after the cutoff
	now := time.Date(2025, 1, 10, 22, 50, 0, 0, time.UTC)
	result, err := PublicationStatus(context.Background(), newMockStore(), cfg, zap.NewNop(), now)
	require.NoError(t, err)
	assert.Equal(t, publication.StatePublished, result.State)

	// 20:00 UTC is 15:00 in New York, before it
	now = time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)
	result, err = PublicationStatus(context.Background(), newMockStore(), cfg, zap.NewNop(), now)
	require.NoError(t, err)
	assert.Equal(t, publication.StateOpen, result.State)
}
