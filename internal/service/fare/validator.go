package fare

import (
	"strings"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/validator"
)

// ValidateRanges checks a tier list before it may be evaluated.
//
// Exactly one tier must be the default (nil DistanceLimit). The bounded tiers,
// in configured order, must have positive, strictly increasing limits; the
// default tier may sit anywhere. Every rate and allowance must be a
// non-negative number no larger than MaxRate. Dynamic surge
// tiers must name a rule; when catalog is non-nil that rule must exist in it.
//
// The first problem found is returned as a *ConfigError.
func ValidateRanges(ranges []models.RangeDefinition, catalog SurgeCatalog) error {
	defaultIdx := -1
	for i, r := range ranges {
		if !r.IsDefault() {
			continue
		}
		if defaultIdx >= 0 {
			return &ConfigError{Err: ErrDuplicateDefaultTier, Index: i, Field: "distanceLimit"}
		}
		defaultIdx = i
	}
	if defaultIdx < 0 {
		return &ConfigError{Err: ErrMissingDefaultTier, Index: -1}
	}

	if err := validateLimits(ranges); err != nil {
		return err
	}

	for i, r := range ranges {
		if err := validateTierRates(i, r); err != nil {
			return err
		}
		if err := validateTierSurge(i, r, catalog); err != nil {
			return err
		}
	}

	return nil
}

func validateLimits(ranges []models.RangeDefinition) error {
	prev := 0.0
	for i, r := range ranges {
		if r.IsDefault() {
			continue
		}
		limit := *r.DistanceLimit
		if !(limit > prev) || limit > MaxQuantity {
			return &ConfigError{Err: ErrNonMonotonicDistanceLimits, Index: i, Field: "distanceLimit"}
		}
		prev = limit
	}
	return nil
}

func validateTierRates(i int, r models.RangeDefinition) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"base.fare", r.Base.Fare},
		{"base.surge", r.Base.Surge},
		{"duration.charge", r.Duration.Charge},
		{"duration.baseDuration", r.Duration.BaseDuration},
		{"distance.fare", r.Distance.Fare},
		{"distance.baseDistance", r.Distance.BaseDistance},
		{"waitingTime.fare", r.WaitingTime.Fare},
		{"waitingTime.baseWaiting", r.WaitingTime.BaseWaiting},
	}
	for _, f := range fields {
		if !validator.InRange(f.value, 0, MaxRate) {
			return &ConfigError{Err: ErrNegativeRate, Index: i, Field: f.name}
		}
	}
	return nil
}

func validateTierSurge(i int, r models.RangeDefinition, catalog SurgeCatalog) error {
	if !r.Surge.Dynamic {
		// 0 means "not set" and resolves to 1.0
		if r.Base.Surge != 0 && !validator.InRange(r.Base.Surge, 1, MaxMultiplier) {
			return &ConfigError{Err: ErrInvalidStaticSurge, Index: i, Field: "base.surge"}
		}
		return nil
	}

	ruleID := strings.TrimSpace(r.Surge.SelectedRule)
	if ruleID == "" {
		return &ConfigError{Err: ErrInvalidSurgeReference, Index: i, Field: "surge.selectedRule"}
	}
	if catalog != nil {
		if _, ok := catalog.Lookup(ruleID); !ok {
			return &ConfigError{Err: ErrInvalidSurgeReference, Index: i, Field: "surge.selectedRule"}
		}
	}
	return nil
}

// ValidateCityRules checks a city rule set: one rule per supported city and
// non-negative fees no larger than MaxRate everywhere.
func ValidateCityRules(rules []models.CityRule) error {
	seen := make(map[types.City]struct{}, len(rules))
	for i, r := range rules {
		if !r.City.IsSupported() {
			return &ConfigError{Err: ErrUnsupportedCity, Index: i, City: r.City, Field: "city"}
		}
		if _, dup := seen[r.City]; dup {
			return &ConfigError{Err: ErrDuplicateCity, Index: i, City: r.City, Field: "city"}
		}
		seen[r.City] = struct{}{}

		fields := []struct {
			name  string
			value float64
		}{
			{"baseFee", r.BaseFee},
			{"baseDistance", r.BaseDistance},
			{"perKmFee", r.PerKmFee},
			{"peakHourBonus", r.PeakHourBonus},
			{"rainBonus", r.RainBonus},
			{"zoneBonus", r.ZoneBonus},
		}
		for _, f := range fields {
			if !validator.InRange(f.value, 0, MaxRate) {
				return &ConfigError{Err: ErrNegativeRate, Index: i, City: r.City, Field: f.name}
			}
		}
	}
	return nil
}
