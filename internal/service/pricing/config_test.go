package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
)

func TestSaveRanges_RejectsInvalid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Reload(ctx))

	bad := []models.RangeDefinition{
		{DistanceLimit: models.Limit(5)},
		{Surge: models.SurgeSpec{Dynamic: true, SelectedRule: "blizzard"}},
	}
	_, err := f.svc.SaveRanges(ctx, bad)
	require.Error(t, err)
	assert.True(t, fare.IsConfigError(err))
	assert.ErrorIs(t, err, fare.ErrInvalidSurgeReference)

	assert.Equal(t, 0, f.store.replaces)
	assert.Empty(t, f.pub.changes)
}

func TestSaveRanges_ReplacesAndAnnounces(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Reload(context.Background()))
	before, _ := f.svc.Current()

	ctx := models.WithUser(context.Background(), &models.User{ID: "admin-1", Role: types.AdminRole})
	next := []models.RangeDefinition{
		{DistanceLimit: models.Limit(3), Base: models.BaseFare{Fare: 25}},
		{Base: models.BaseFare{Fare: 40, Surge: 1.1}},
	}

	version, err := f.svc.SaveRanges(ctx, next)
	require.NoError(t, err)
	assert.NotEqual(t, before.Version(), version)
	assert.Equal(t, 1, f.store.replaces)

	ranges, current, err := f.svc.Ranges(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, current)
	assert.Equal(t, next, ranges)

	require.Len(t, f.pub.changes, 1)
	assert.Equal(t, KindRanges, f.pub.changes[0].Kind)
	assert.Equal(t, version, f.pub.changes[0].Version)
	assert.Equal(t, "admin-1", f.pub.changes[0].ChangedBy)
}

func TestSaveCityRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Reload(ctx))

	_, err := f.svc.SaveCityRules(ctx, []models.CityRule{{City: types.Astana}, {City: types.Astana}})
	assert.ErrorIs(t, err, fare.ErrDuplicateCity)
	assert.Equal(t, 0, f.store.replaces)

	_, err = f.svc.SaveCityRules(ctx, []models.CityRule{
		{City: types.Astana, BaseFee: 25, BaseDistance: 2, PerKmFee: 5},
	})
	require.NoError(t, err)

	rules, _, err := f.svc.CityRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, types.Astana, rules[0].City)

	_, err = f.svc.Quote(ctx, QuoteRequest{Model: types.CityModel, City: types.Almaty})
	assert.ErrorIs(t, err, types.ErrCityRuleNotFound)
}

func TestUpsertSurgeRule(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Reload(ctx))

	for _, bad := range []models.SurgeRule{
		{ID: "", Multiplier: 1.2},
		{ID: "evening", Multiplier: 0.7},
		{ID: "evening", Multiplier: fare.MaxMultiplier + 1},
	} {
		_, err := f.svc.UpsertSurgeRule(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidSurgeRule)
	}

	_, err := f.svc.UpsertSurgeRule(ctx, models.SurgeRule{ID: " evening ", Multiplier: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.invalidated)

	rules, _, err := f.svc.SurgeRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.SurgeRule{{ID: "evening", Multiplier: 2}}, rules)

	b, err := f.svc.Quote(ctx, QuoteRequest{Model: types.RangeModel, Metrics: models.TripMetrics{DistanceKm: 5.5}})
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.Multiplier())
	// (50 + 0.5*3) * 2
	assert.Equal(t, int64(10300), b.Total())
}
