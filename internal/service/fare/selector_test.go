package fare

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
)

func limitOf(t *testing.T, r models.RangeDefinition) float64 {
	t.Helper()
	if r.IsDefault() {
		return -1
	}
	return *r.DistanceLimit
}

func TestSelectTier_Boundaries(t *testing.T) {
	ranges := sampleRanges()

	tests := []struct {
		name      string
		distance  float64
		wantLimit float64 // -1 for the default tier
	}{
		{"zero distance", 0, 5},
		{"inside first tier", 2.4, 5},
		{"equal to first limit is inclusive", 5, 5},
		{"just above first limit", 5.0001, 10},
		{"equal to second limit is inclusive", 10, 10},
		{"exceeds every limit", 10.5, -1},
		{"very long trip", 500, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := SelectTier(ranges, tt.distance)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limitOf(t, tier))
		})
	}
}

func TestSelectTier_IgnoresConfiguredOrder(t *testing.T) {
	ranges := []models.RangeDefinition{defaultTier(), midTier(), shortTier()}

	tier, err := SelectTier(ranges, 4)
	require.NoError(t, err)
	assert.Equal(t, 5.0, limitOf(t, tier))
}

func TestSelectTier_NoDefault(t *testing.T) {
	_, err := SelectTier([]models.RangeDefinition{shortTier()}, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDefaultTier)
	assert.True(t, IsResolutionError(err))

	// a matching bounded tier is still found without a default
	tier, err := SelectTier([]models.RangeDefinition{shortTier()}, 3)
	require.NoError(t, err)
	assert.Equal(t, 5.0, limitOf(t, tier))
}

func TestSelectTier_ReturnsCopy(t *testing.T) {
	ranges := sampleRanges()
	tier, err := SelectTier(ranges, 1)
	require.NoError(t, err)

	*tier.DistanceLimit = 1000
	assert.Equal(t, 5.0, *ranges[0].DistanceLimit)
}

// Longer trips never land in a tier with a smaller limit.
func TestSelectTier_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 50; round++ {
		ranges := []models.RangeDefinition{defaultTier()}
		limit := 0.0
		for n := rng.IntN(6); n > 0; n-- {
			limit += 0.5 + rng.Float64()*10
			ranges = append(ranges, models.RangeDefinition{DistanceLimit: models.Limit(limit)})
		}
		require.NoError(t, ValidateRanges(ranges, nil))
		// selection must not depend on order
		rng.Shuffle(len(ranges), func(i, j int) { ranges[i], ranges[j] = ranges[j], ranges[i] })

		rank := func(r models.RangeDefinition) float64 {
			if r.IsDefault() {
				return math.Inf(1)
			}
			return *r.DistanceLimit
		}

		prev := -1.0
		for d := 0.0; d <= limit+5; d += 0.25 {
			tier, err := SelectTier(ranges, d)
			require.NoError(t, err)
			got := rank(tier)
			assert.GreaterOrEqual(t, got, prev, "distance %v", d)
			assert.GreaterOrEqual(t, got, d, "tier must cover distance %v", d)
			prev = got
		}
	}
}
