package fare

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
)

func TestValidateRanges_Valid(t *testing.T) {
	require.NoError(t, ValidateRanges(sampleRanges(), nil))

	// the default tier may sit anywhere, only bounded limits must ascend
	require.NoError(t, ValidateRanges([]models.RangeDefinition{shortTier(), defaultTier(), midTier()}, nil))

	// a lone default tier is a valid flat tariff
	require.NoError(t, ValidateRanges([]models.RangeDefinition{defaultTier()}, nil))
}

func TestValidateRanges_Rejections(t *testing.T) {
	catalog := SurgeRules{"evening": 1.5}

	tests := []struct {
		name      string
		ranges    func() []models.RangeDefinition
		wantErr   error
		wantIndex int
		wantField string
	}{
		{
			name:      "missing default",
			ranges:    func() []models.RangeDefinition { return []models.RangeDefinition{shortTier(), midTier()} },
			wantErr:   ErrMissingDefaultTier,
			wantIndex: -1,
		},
		{
			name:      "empty set",
			ranges:    func() []models.RangeDefinition { return nil },
			wantErr:   ErrMissingDefaultTier,
			wantIndex: -1,
		},
		{
			name: "duplicate default",
			ranges: func() []models.RangeDefinition {
				return []models.RangeDefinition{defaultTier(), shortTier(), defaultTier()}
			},
			wantErr:   ErrDuplicateDefaultTier,
			wantIndex: 2,
			wantField: "distanceLimit",
		},
		{
			name: "equal limits",
			ranges: func() []models.RangeDefinition {
				return []models.RangeDefinition{shortTier(), shortTier(), defaultTier()}
			},
			wantErr:   ErrNonMonotonicDistanceLimits,
			wantIndex: 1,
			wantField: "distanceLimit",
		},
		{
			name: "descending limits",
			ranges: func() []models.RangeDefinition {
				return []models.RangeDefinition{midTier(), shortTier(), defaultTier()}
			},
			wantErr:   ErrNonMonotonicDistanceLimits,
			wantIndex: 1,
			wantField: "distanceLimit",
		},
		{
			name: "descending around default",
			ranges: func() []models.RangeDefinition {
				return []models.RangeDefinition{midTier(), defaultTier(), shortTier()}
			},
			wantErr:   ErrNonMonotonicDistanceLimits,
			wantIndex: 2,
			wantField: "distanceLimit",
		},
		{
			name: "limit too large",
			ranges: func() []models.RangeDefinition {
				r := shortTier()
				r.DistanceLimit = models.Limit(MaxQuantity * 10)
				return []models.RangeDefinition{r, defaultTier()}
			},
			wantErr:   ErrNonMonotonicDistanceLimits,
			wantIndex: 0,
			wantField: "distanceLimit",
		},
		{
			name: "zero limit",
			ranges: func() []models.RangeDefinition {
				r := shortTier()
				r.DistanceLimit = models.Limit(0)
				return []models.RangeDefinition{r, defaultTier()}
			},
			wantErr:   ErrNonMonotonicDistanceLimits,
			wantIndex: 0,
			wantField: "distanceLimit",
		},
		{
			name: "negative distance fare",
			ranges: func() []models.RangeDefinition {
				r := midTier()
				r.Distance.Fare = -1
				return []models.RangeDefinition{shortTier(), r, defaultTier()}
			},
			wantErr:   ErrNegativeRate,
			wantIndex: 1,
			wantField: "distance.fare",
		},
		{
			name: "NaN waiting allowance",
			ranges: func() []models.RangeDefinition {
				r := defaultTier()
				r.WaitingTime.BaseWaiting = math.NaN()
				return []models.RangeDefinition{shortTier(), r}
			},
			wantErr:   ErrNegativeRate,
			wantIndex: 1,
			wantField: "waitingTime.baseWaiting",
		},
		{
			name: "rate too large",
			ranges: func() []models.RangeDefinition {
				r := defaultTier()
				r.Distance.Fare = 1e15
				return []models.RangeDefinition{shortTier(), r}
			},
			wantErr:   ErrNegativeRate,
			wantIndex: 1,
			wantField: "distance.fare",
		},
		{
			name: "static surge above max",
			ranges: func() []models.RangeDefinition {
				r := defaultTier()
				r.Base.Surge = MaxMultiplier + 1
				return []models.RangeDefinition{r}
			},
			wantErr:   ErrInvalidStaticSurge,
			wantIndex: 0,
			wantField: "base.surge",
		},
		{
			name: "static surge below one",
			ranges: func() []models.RangeDefinition {
				r := defaultTier()
				r.Base.Surge = 0.8
				return []models.RangeDefinition{r}
			},
			wantErr:   ErrInvalidStaticSurge,
			wantIndex: 0,
			wantField: "base.surge",
		},
		{
			name: "dynamic without rule",
			ranges: func() []models.RangeDefinition {
				r := shortTier()
				r.Surge = models.SurgeSpec{Dynamic: true, SelectedRule: "  "}
				return []models.RangeDefinition{r, defaultTier()}
			},
			wantErr:   ErrInvalidSurgeReference,
			wantIndex: 0,
			wantField: "surge.selectedRule",
		},
		{
			name: "dynamic rule missing from catalog",
			ranges: func() []models.RangeDefinition {
				r := defaultTier()
				r.Surge = models.SurgeSpec{Dynamic: true, SelectedRule: "night"}
				return []models.RangeDefinition{shortTier(), r}
			},
			wantErr:   ErrInvalidSurgeReference,
			wantIndex: 1,
			wantField: "surge.selectedRule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRanges(tt.ranges(), catalog)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsConfigError(err))
			assert.False(t, IsResolutionError(err))

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.wantIndex, ce.Index)
			assert.Equal(t, tt.wantField, ce.Field)
			assert.NotEmpty(t, ce.Code())
		})
	}
}

func TestValidateRanges_DynamicRuleResolvedAgainstCatalog(t *testing.T) {
	r := defaultTier()
	r.Surge = models.SurgeSpec{Dynamic: true, SelectedRule: "evening"}
	ranges := []models.RangeDefinition{shortTier(), r}

	require.NoError(t, ValidateRanges(ranges, SurgeRules{"evening": 1.5}))
	// without a catalog only the presence of the id is checked
	require.NoError(t, ValidateRanges(ranges, nil))
	assert.ErrorIs(t, ValidateRanges(ranges, SurgeRules{}), ErrInvalidSurgeReference)
}

func TestValidateRanges_DoesNotMutateInput(t *testing.T) {
	ranges := []models.RangeDefinition{shortTier(), defaultTier(), midTier()}
	before := models.CloneRanges(ranges)

	require.NoError(t, ValidateRanges(ranges, nil))
	assert.Equal(t, before, ranges)
}

func TestValidateCityRules(t *testing.T) {
	valid := []models.CityRule{
		{City: types.Almaty, BaseFee: 30, BaseDistance: 3, PerKmFee: 4, PeakHourBonus: 15},
		{City: types.Astana, BaseFee: 28, BaseDistance: 3, PerKmFee: 4.5, RainBonus: 10},
	}
	require.NoError(t, ValidateCityRules(valid))
	require.NoError(t, ValidateCityRules(nil))

	t.Run("duplicate city", func(t *testing.T) {
		rules := append(models.CloneCityRules(valid), models.CityRule{City: types.Almaty})
		err := ValidateCityRules(rules)
		assert.ErrorIs(t, err, ErrDuplicateCity)

		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 2, ce.Index)
		assert.Equal(t, types.Almaty, ce.City)
		assert.Equal(t, "city ALMATY (city): duplicate city", ce.Error())
	})

	t.Run("unsupported city", func(t *testing.T) {
		err := ValidateCityRules([]models.CityRule{{City: "ATLANTIS"}})
		assert.ErrorIs(t, err, ErrUnsupportedCity)
	})

	t.Run("negative bonus", func(t *testing.T) {
		rules := models.CloneCityRules(valid)
		rules[1].ZoneBonus = -5
		err := ValidateCityRules(rules)
		assert.ErrorIs(t, err, ErrNegativeRate)

		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "zoneBonus", ce.Field)
		assert.Equal(t, "NegativeRate", ce.Code())
	})
}
