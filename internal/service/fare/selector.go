package fare

import (
	"cmp"
	"slices"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
)

// SelectTier returns the tier that prices a trip of distanceKm.
//
// Bounded tiers are tried in ascending limit order and the upper bound is
// inclusive: a trip of exactly 5 km is priced by the tier with limit 5.
// Trips longer than every limit fall through to the default tier.
func SelectTier(ranges []models.RangeDefinition, distanceKm float64) (models.RangeDefinition, error) {
	defaultIdx := -1
	bounded := make([]models.RangeDefinition, 0, len(ranges))
	for i, r := range ranges {
		if r.IsDefault() {
			if defaultIdx < 0 {
				defaultIdx = i
			}
			continue
		}
		bounded = append(bounded, r)
	}

	slices.SortStableFunc(bounded, func(a, b models.RangeDefinition) int {
		return cmp.Compare(*a.DistanceLimit, *b.DistanceLimit)
	})

	for _, r := range bounded {
		if distanceKm <= *r.DistanceLimit {
			return r.Clone(), nil
		}
	}

	if defaultIdx < 0 {
		return models.RangeDefinition{}, &ResolutionError{Err: ErrNoDefaultTier}
	}
	return ranges[defaultIdx].Clone(), nil
}
