package fare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
)

func TestResolveSurge_Static(t *testing.T) {
	tier := shortTier()

	m, err := ResolveSurge(tier, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m, "unset static surge means no surge")

	tier.Base.Surge = 1.3
	m, err = ResolveSurge(tier, SurgeRules{"ignored": 9})
	require.NoError(t, err)
	assert.Equal(t, 1.3, m)
}

func TestResolveSurge_Dynamic(t *testing.T) {
	tier := shortTier()
	tier.Base.Surge = 4 // ignored when dynamic
	tier.Surge = models.SurgeSpec{Dynamic: true, SelectedRule: "evening"}

	m, err := ResolveSurge(tier, SurgeRules{"evening": 1.75})
	require.NoError(t, err)
	assert.Equal(t, 1.75, m)
}

func TestResolveSurge_Failures(t *testing.T) {
	dynamic := shortTier()
	dynamic.Surge = models.SurgeSpec{Dynamic: true, SelectedRule: "evening"}

	t.Run("unknown rule", func(t *testing.T) {
		_, err := ResolveSurge(dynamic, SurgeRules{"morning": 1.1})
		assert.ErrorIs(t, err, ErrUnknownSurgeRule)

		var re *ResolutionError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "evening", re.RuleID)
		assert.Equal(t, `unknown surge rule "evening"`, re.Error())
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := ResolveSurge(dynamic, nil)
		assert.ErrorIs(t, err, ErrUnknownSurgeRule)
	})

	t.Run("catalog multiplier below one", func(t *testing.T) {
		_, err := ResolveSurge(dynamic, SurgeRules{"evening": 0.9})
		assert.ErrorIs(t, err, ErrInvalidMultiplier)
		assert.True(t, IsResolutionError(err))
	})

	t.Run("catalog multiplier above max", func(t *testing.T) {
		_, err := ResolveSurge(dynamic, SurgeRules{"evening": MaxMultiplier * 2})
		assert.ErrorIs(t, err, ErrInvalidMultiplier)
	})

	t.Run("catalog multiplier NaN", func(t *testing.T) {
		_, err := ResolveSurge(dynamic, SurgeRules{"evening": math.NaN()})
		assert.ErrorIs(t, err, ErrInvalidMultiplier)
	})

	t.Run("unvalidated static surge", func(t *testing.T) {
		tier := shortTier()
		tier.Base.Surge = 0.5
		_, err := ResolveSurge(tier, nil)
		assert.ErrorIs(t, err, ErrInvalidMultiplier)
	})
}
